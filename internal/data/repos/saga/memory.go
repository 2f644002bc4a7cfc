package saga

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gorm.io/datatypes"

	types "github.com/temafey/micro-modules-saga-ext/internal/domain"
	"github.com/temafey/micro-modules-saga-ext/internal/pkg/dbctx"
	apperrors "github.com/temafey/micro-modules-saga-ext/internal/pkg/errors"
)

// MemorySagaStateRepo is an in-memory SagaStateRepo for engine and scenario
// tests. Besides the live instance table it records the exact sequence of
// states passed to Save, so assertions read an explicit log instead of
// process-wide flags.
type MemorySagaStateRepo struct {
	mu          sync.RWMutex
	states      map[string]*types.SagaState
	saved       []*types.SagaState
	provisioned bool
}

var _ SagaStateRepo = (*MemorySagaStateRepo)(nil)

func NewMemorySagaStateRepo() *MemorySagaStateRepo {
	return &MemorySagaStateRepo{states: map[string]*types.SagaState{}}
}

func (m *MemorySagaStateRepo) FindOneBy(dbc dbctx.Context, criteria types.Criteria, sagaID string) (*types.SagaState, error) {
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found *types.SagaState
	for _, st := range m.states {
		if st.Status != types.StatusInProgress || st.SagaID != sagaID || !matchesCriteria(st, criteria) {
			continue
		}
		if found != nil {
			return nil, apperrors.AmbiguousState(fmt.Sprintf("more than one in-progress instance for saga %q", sagaID))
		}
		found = st
	}
	if found == nil {
		return nil, nil
	}
	return cloneState(found), nil
}

func (m *MemorySagaStateRepo) FindFailed(dbc dbctx.Context, criteria types.Criteria, sagaID string) ([]*types.SagaState, error) {
	if err := validateCriteria(criteria); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*types.SagaState
	for _, st := range m.states {
		if st.Status != types.StatusFailed {
			continue
		}
		if sagaID != "" && st.SagaID != sagaID {
			continue
		}
		if !matchesCriteria(st, criteria) {
			continue
		}
		out = append(out, cloneState(st))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].RecordedOn.Equal(out[j].RecordedOn) {
			return out[i].RecordedOn.Before(out[j].RecordedOn)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *MemorySagaStateRepo) Save(dbc dbctx.Context, state *types.SagaState) error {
	if state == nil || state.ID == "" {
		return apperrors.Write("save saga state: missing instance id", nil)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	st := cloneState(state)
	if prev, ok := m.states[st.ID]; ok {
		st.RecordedOn = prev.RecordedOn
	} else if st.RecordedOn.IsZero() {
		st.RecordedOn = time.Now().UTC()
	}
	m.states[st.ID] = st
	m.saved = append(m.saved, cloneState(st))
	return nil
}

func (m *MemorySagaStateRepo) EnsureSchema(dbc dbctx.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.provisioned {
		return false, nil
	}
	m.provisioned = true
	return true, nil
}

// Saved returns the sequence of states passed to Save, oldest first.
func (m *MemorySagaStateRepo) Saved() []*types.SagaState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*types.SagaState, len(m.saved))
	for i, st := range m.saved {
		out[i] = cloneState(st)
	}
	return out
}

func validateCriteria(criteria types.Criteria) error {
	for _, cmp := range criteria.Comparisons() {
		if err := validateCriteriaKey(cmp.Key); err != nil {
			return err
		}
	}
	return nil
}

func matchesCriteria(st *types.SagaState, criteria types.Criteria) bool {
	for _, cmp := range criteria.Comparisons() {
		got, ok := st.Values[cmp.Key]
		if !ok || !scalarEqual(got, cmp.Value) {
			return false
		}
	}
	return true
}

// scalarEqual compares payload scalars the way the SQL stores do: numbers
// by value regardless of Go type, null never equal to anything.
func scalarEqual(a, b any) bool {
	if a == nil || b == nil {
		return false
	}
	if af, ok := asNumber(a); ok {
		bf, bok := asNumber(b)
		return bok && af == bf
	}
	ka, kb := kindOf(a), kindOf(b)
	if ka != kb {
		return false
	}
	switch ka {
	case kindBool:
		return asBool(a) == asBool(b)
	case kindString:
		return stringify(a) == stringify(b)
	}
	return false
}

func cloneState(st *types.SagaState) *types.SagaState {
	out := *st
	if st.Values != nil {
		out.Values = datatypes.JSONMap{}
		for k, v := range st.Values {
			out.Values[k] = v
		}
	}
	return &out
}
