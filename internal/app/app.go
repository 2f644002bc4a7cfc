package app

import (
	"fmt"
	"os"

	"gorm.io/gorm"

	"github.com/temafey/micro-modules-saga-ext/internal/data/db"
	"github.com/temafey/micro-modules-saga-ext/internal/pkg/logger"
)

// App wires the logger, database and repositories for binaries embedding
// the saga state store.
type App struct {
	Log     *logger.Logger
	DB      *gorm.DB
	Dialect db.Dialect
	Cfg     Config
	Repos   Repos

	svc *db.Service
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig(log)

	svc, err := db.NewService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := svc.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	reposet, err := wireRepos(svc.DB(), log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	return &App{
		Log:     log,
		DB:      svc.DB(),
		Dialect: svc.Dialect(),
		Cfg:     cfg,
		Repos:   reposet,
		svc:     svc,
	}, nil
}

// Close flushes logs and releases the database pool.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	a.Log.Sync()
	if a.svc != nil {
		return a.svc.Close()
	}
	return nil
}
