package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repos run against Tx when set, otherwise against their own handle, so a
// caller can span several repo calls with one transaction it owns.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// New wraps a plain context with no transaction attached.
func New(ctx context.Context) Context {
	return Context{Ctx: ctx}
}

// WithTx attaches a caller-owned transaction. The caller commits or rolls
// back; repos never end a transaction they did not begin.
func WithTx(ctx context.Context, tx *gorm.DB) Context {
	return Context{Ctx: ctx, Tx: tx}
}
