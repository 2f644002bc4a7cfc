package app

import (
	"gorm.io/gorm"

	"github.com/temafey/micro-modules-saga-ext/internal/data/repos"
	"github.com/temafey/micro-modules-saga-ext/internal/pkg/logger"
)

type Repos struct {
	SagaState repos.SagaStateRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) (Repos, error) {
	log.Info("wiring repos")
	sagaState, err := repos.NewSagaStateRepo(db, log)
	if err != nil {
		return Repos{}, err
	}
	return Repos{SagaState: sagaState}, nil
}
