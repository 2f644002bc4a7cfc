package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	apperrors "github.com/temafey/micro-modules-saga-ext/internal/pkg/errors"
	"github.com/temafey/micro-modules-saga-ext/internal/pkg/logger"
	"github.com/temafey/micro-modules-saga-ext/internal/platform/envutil"
)

// Service owns the GORM handle and the dialect resolved from it.
type Service struct {
	db      *gorm.DB
	dialect Dialect
	log     *logger.Logger
}

// NewService connects per environment. DB_DRIVER selects the engine
// (postgres, mysql, sqlite); DB_DSN, when set, is used verbatim, otherwise
// the DSN is assembled from the driver's own variables.
func NewService(logg *logger.Logger) (*Service, error) {
	serviceLog := logg.With("service", "DBService")

	driver := envutil.Str("DB_DRIVER", "postgres")
	dsn := envutil.Str("DB_DSN", "")
	if dsn == "" {
		dsn = dsnFromEnv(driver)
	}

	gdb, err := Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	dialect, err := ResolveDialect(gdb)
	if err != nil {
		return nil, err
	}

	serviceLog.Info("database connected", "driver", driver, "dialect", string(dialect))
	return &Service{db: gdb, dialect: dialect, log: serviceLog}, nil
}

// Open dials the named driver with the shared GORM configuration.
func Open(driver, dsn string) (*gorm.DB, error) {
	gormLog := gormLogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormLogger.Config{
			SlowThreshold:             1 * time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	cfg := &gorm.Config{Logger: gormLog}

	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), cfg)
	case "mysql":
		// CURRENT_TIMESTAMP column defaults must match the column's
		// fractional precision on MySQL, so datetime precision stays off.
		return gorm.Open(mysql.New(mysql.Config{
			DSN:                      dsn,
			DefaultStringSize:        255,
			DisableDatetimePrecision: true,
		}), cfg)
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), cfg)
	default:
		return nil, apperrors.Configuration(fmt.Sprintf("unsupported db driver %q", driver))
	}
}

func dsnFromEnv(driver string) string {
	switch driver {
	case "mysql":
		user := envutil.Str("MYSQL_USER", "root")
		password := envutil.Str("MYSQL_PASSWORD", "")
		host := envutil.Str("MYSQL_HOST", "localhost")
		port := envutil.Str("MYSQL_PORT", "3306")
		name := envutil.Str("MYSQL_NAME", "saga")
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			user, password, host, port, name,
		)
	case "sqlite":
		return envutil.Str("SQLITE_PATH", "saga.db")
	default:
		user := envutil.Str("POSTGRES_USER", "postgres")
		password := envutil.Str("POSTGRES_PASSWORD", "")
		host := envutil.Str("POSTGRES_HOST", "localhost")
		port := envutil.Str("POSTGRES_PORT", "5432")
		name := envutil.Str("POSTGRES_NAME", "saga")
		return fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s?sslmode=disable",
			user, password, host, port, name,
		)
	}
}

func (s *Service) DB() *gorm.DB { return s.db }

func (s *Service) Dialect() Dialect { return s.dialect }

// Close releases the underlying connection pool.
func (s *Service) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
