package repos

import (
	"gorm.io/gorm"

	"github.com/temafey/micro-modules-saga-ext/internal/data/repos/saga"
	"github.com/temafey/micro-modules-saga-ext/internal/pkg/logger"
)

type SagaStateRepo = saga.SagaStateRepo
type MemorySagaStateRepo = saga.MemorySagaStateRepo

func NewSagaStateRepo(db *gorm.DB, baseLog *logger.Logger) (SagaStateRepo, error) {
	return saga.NewSagaStateRepo(db, baseLog)
}

func NewMemorySagaStateRepo() *MemorySagaStateRepo {
	return saga.NewMemorySagaStateRepo()
}
