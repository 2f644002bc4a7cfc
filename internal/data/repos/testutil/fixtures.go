package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/temafey/micro-modules-saga-ext/internal/domain"
)

// SeedSagaState inserts a row directly, bypassing the repository, so tests
// can stage table contents without exercising Save.
func SeedSagaState(tb testing.TB, ctx context.Context, tx *gorm.DB, sagaID string, status types.SagaStatus, values datatypes.JSONMap) *types.SagaState {
	tb.Helper()
	st := &types.SagaState{
		ID:     uuid.NewString(),
		SagaID: sagaID,
		Status: status,
		Values: values,
	}
	if err := tx.WithContext(ctx).Create(st).Error; err != nil {
		tb.Fatalf("seed saga state: %v", err)
	}
	return st
}

// SeedFailedSagaState inserts a failed row with an explicit recording time,
// for tests that assert retrieval order.
func SeedFailedSagaState(tb testing.TB, ctx context.Context, tx *gorm.DB, sagaID string, recordedOn time.Time) *types.SagaState {
	tb.Helper()
	st := &types.SagaState{
		ID:         uuid.NewString(),
		SagaID:     sagaID,
		Status:     types.StatusFailed,
		Values:     datatypes.JSONMap{},
		RecordedOn: recordedOn,
	}
	if err := tx.WithContext(ctx).Create(st).Error; err != nil {
		tb.Fatalf("seed failed saga state: %v", err)
	}
	return st
}
