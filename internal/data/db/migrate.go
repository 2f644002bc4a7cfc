package db

import (
	types "github.com/temafey/micro-modules-saga-ext/internal/domain"
	"gorm.io/gorm"
)

// AutoMigrateAll provisions every table this module owns. Additive only,
// safe to run on every start.
func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.SagaState{},
	)
}

func (s *Service) AutoMigrateAll() error {
	s.log.Info("migrating saga state schema", "dialect", string(s.dialect))
	if err := AutoMigrateAll(s.db); err != nil {
		s.log.Error("schema migration failed", "error", err)
		return err
	}
	return nil
}
