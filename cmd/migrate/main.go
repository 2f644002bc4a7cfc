package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"gorm.io/gorm"

	"github.com/temafey/micro-modules-saga-ext/internal/data/db"
	"github.com/temafey/micro-modules-saga-ext/internal/data/repos"
	"github.com/temafey/micro-modules-saga-ext/internal/pkg/dbctx"
	"github.com/temafey/micro-modules-saga-ext/internal/pkg/logger"
)

func main() {
	var manifestPath string
	var dryRun bool
	var timeout time.Duration
	flag.StringVar(&manifestPath, "manifest", "", "YAML manifest of databases to provision (defaults to the environment-configured database)")
	flag.BoolVar(&dryRun, "dry-run", false, "print planned targets without connecting")
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "per-target provisioning timeout")
	flag.Parse()

	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if manifestPath == "" {
		if dryRun {
			fmt.Println("would provision the environment-configured database")
			return
		}
		if err := provisionFromEnv(log, timeout); err != nil {
			log.Error("provisioning failed", "error", err)
			log.Sync()
			os.Exit(1)
		}
		return
	}

	manifest, err := loadManifest(manifestPath)
	if err != nil {
		fmt.Printf("load manifest: %v\n", err)
		os.Exit(1)
	}
	if dryRun {
		for _, t := range manifest.Targets {
			fmt.Printf("would provision %s (%s)\n", t.Name, t.Driver)
		}
		return
	}
	for _, t := range manifest.Targets {
		if err := provisionTarget(log, t, timeout); err != nil {
			log.Error("provisioning failed", "target", t.Name, "error", err)
			log.Sync()
			os.Exit(1)
		}
	}
}

func provisionFromEnv(log *logger.Logger, timeout time.Duration) error {
	svc, err := db.NewService(log)
	if err != nil {
		return err
	}
	defer svc.Close()

	repo, err := repos.NewSagaStateRepo(svc.DB(), log)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	created, err := repo.EnsureSchema(dbctx.New(ctx))
	if err != nil {
		return err
	}
	log.Info("saga state schema ready", "dialect", string(svc.Dialect()), "created", created)
	return nil
}

func provisionTarget(log *logger.Logger, t migrateTarget, timeout time.Duration) error {
	targetLog := log.With("target", t.Name, "driver", t.Driver)

	gdb, err := db.Open(t.Driver, t.DSN)
	if err != nil {
		return err
	}
	defer closeDB(gdb)

	repo, err := repos.NewSagaStateRepo(gdb, targetLog)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	created, err := repo.EnsureSchema(dbctx.New(ctx))
	if err != nil {
		return err
	}
	targetLog.Info("saga state schema ready", "created", created)
	return nil
}

func closeDB(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
