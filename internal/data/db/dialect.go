package db

import (
	"fmt"

	"gorm.io/gorm"

	apperrors "github.com/temafey/micro-modules-saga-ext/internal/pkg/errors"
)

// Dialect identifies the SQL engine the store targets. It is resolved once
// from the connection and carried as a value, so query construction never
// inspects driver types.
type Dialect string

const (
	DialectMySQL    Dialect = "mysql"
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// ResolveDialect maps the connection's driver name onto a supported Dialect.
// An unsupported driver is a configuration failure: the connection must not
// be used for saga state at all.
func ResolveDialect(gdb *gorm.DB) (Dialect, error) {
	if gdb == nil || gdb.Config == nil || gdb.Dialector == nil {
		return "", apperrors.Configuration("saga state storage requires a database connection")
	}
	switch name := gdb.Dialector.Name(); name {
	case "mysql":
		return DialectMySQL, nil
	case "postgres":
		return DialectPostgres, nil
	case "sqlite":
		return DialectSQLite, nil
	default:
		return "", apperrors.Configuration(fmt.Sprintf("unsupported sql dialect %q", name))
	}
}
