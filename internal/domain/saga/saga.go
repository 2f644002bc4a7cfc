package saga

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// SagaStatus is the lifecycle position of a saga instance. The store filters
// on StatusInProgress and StatusFailed; any other value passes through
// opaquely for the owning engine to interpret.
type SagaStatus uint32

const (
	StatusInProgress SagaStatus = 1
	StatusFailed     SagaStatus = 2
)

func (s SagaStatus) String() string {
	switch s {
	case StatusInProgress:
		return "in_progress"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", uint32(s))
	}
}

// SagaState is one durable row per saga instance: the correlation id grouping
// a run, the lifecycle status, and the accumulated key/value payload.
// IDs are assigned by the owning engine, never by the store.
type SagaState struct {
	ID string `gorm:"column:id;type:char(36);primaryKey" json:"id"`

	// Correlation key for a saga run. Not unique: one run may leave several
	// failed rows behind over its history.
	SagaID string `gorm:"column:saga_id;type:varchar(100);not null;index:idx_saga_state_saga_id" json:"saga_id"`

	Status SagaStatus `gorm:"column:status;not null" json:"status"`

	Values datatypes.JSONMap `gorm:"column:values" json:"values"`

	// Set by the storage default on row creation; never written on update.
	RecordedOn time.Time `gorm:"column:recorded_on;not null;default:CURRENT_TIMESTAMP;<-:create" json:"recorded_on"`
}

func (SagaState) TableName() string { return "saga_state" }

// NewSagaState returns an in-progress state for the given correlation id
// with a fresh instance id and an empty payload.
func NewSagaState(sagaID string) *SagaState {
	return &SagaState{
		ID:     uuid.NewString(),
		SagaID: sagaID,
		Status: StatusInProgress,
		Values: datatypes.JSONMap{},
	}
}

// Value returns the payload entry for key, nil when absent.
func (s *SagaState) Value(key string) any {
	if s.Values == nil {
		return nil
	}
	return s.Values[key]
}

// SetValue stores a payload entry, allocating the payload on first use.
func (s *SagaState) SetValue(key string, value any) {
	if s.Values == nil {
		s.Values = datatypes.JSONMap{}
	}
	s.Values[key] = value
}
