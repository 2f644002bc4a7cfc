package app

import (
	"github.com/temafey/micro-modules-saga-ext/internal/pkg/logger"
	"github.com/temafey/micro-modules-saga-ext/internal/platform/envutil"
)

type Config struct {
	LogMode  string
	DBDriver string
}

func LoadConfig(log *logger.Logger) Config {
	logMode := envutil.Str("LOG_MODE", "development")
	dbDriver := envutil.Str("DB_DRIVER", "postgres")
	log.Info("configuration loaded", "log_mode", logMode, "db_driver", dbDriver)
	return Config{
		LogMode:  logMode,
		DBDriver: dbDriver,
	}
}
