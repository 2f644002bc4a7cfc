package domain

import (
	"github.com/temafey/micro-modules-saga-ext/internal/domain/saga"
)

type SagaState = saga.SagaState
type SagaStatus = saga.SagaStatus
type Criteria = saga.Criteria
type Comparison = saga.Comparison

const (
	StatusInProgress = saga.StatusInProgress
	StatusFailed     = saga.StatusFailed
)

func NewSagaState(sagaID string) *SagaState { return saga.NewSagaState(sagaID) }

func NewCriteria(kv map[string]any) Criteria { return saga.NewCriteria(kv) }
