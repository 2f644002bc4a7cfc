package saga

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	datadb "github.com/temafey/micro-modules-saga-ext/internal/data/db"
	types "github.com/temafey/micro-modules-saga-ext/internal/domain"
	"github.com/temafey/micro-modules-saga-ext/internal/pkg/dbctx"
	apperrors "github.com/temafey/micro-modules-saga-ext/internal/pkg/errors"
	"github.com/temafey/micro-modules-saga-ext/internal/pkg/logger"
)

// SagaStateRepo locates and persists saga instance state for the owning
// process-manager engine.
type SagaStateRepo interface {
	// FindOneBy returns the single in-progress instance matching the
	// criteria and correlation id, nil when none exists. More than one
	// match is a consistency violation surfaced as an ambiguous-state
	// error, never a result.
	FindOneBy(dbc dbctx.Context, criteria types.Criteria, sagaID string) (*types.SagaState, error)
	// FindFailed returns every failed instance matching the criteria and
	// correlation id, both optional. Rows come back oldest recorded_on
	// first, id breaking ties.
	FindFailed(dbc dbctx.Context, criteria types.Criteria, sagaID string) ([]*types.SagaState, error)
	// Save upserts one instance keyed on id: insert when absent, otherwise
	// update saga_id, status and values in place. recorded_on keeps its
	// creation value either way.
	Save(dbc dbctx.Context, state *types.SagaState) error
	// EnsureSchema provisions the saga_state table when missing and
	// reports whether this call created it. Idempotent.
	EnsureSchema(dbc dbctx.Context) (bool, error)
}

type sagaStateRepo struct {
	db      *gorm.DB
	log     *logger.Logger
	dialect datadb.Dialect
}

// NewSagaStateRepo resolves the connection's dialect once, up front.
// Unsupported dialects fail here so a misconfigured store is never handed
// out.
func NewSagaStateRepo(gdb *gorm.DB, baseLog *logger.Logger) (SagaStateRepo, error) {
	dialect, err := datadb.ResolveDialect(gdb)
	if err != nil {
		return nil, err
	}
	return &sagaStateRepo{
		db:      gdb,
		log:     baseLog.With("repo", "SagaStateRepo"),
		dialect: dialect,
	}, nil
}

func (r *sagaStateRepo) FindOneBy(dbc dbctx.Context, criteria types.Criteria, sagaID string) (*types.SagaState, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).
		Model(&types.SagaState{}).
		Where("status = ?", types.StatusInProgress).
		Where("saga_id = ?", sagaID)
	q, err := r.applyCriteria(q, criteria)
	if err != nil {
		return nil, err
	}

	var rows []*types.SagaState
	if err := q.Limit(2).Find(&rows).Error; err != nil {
		r.log.Error("find saga state failed", "saga_id", sagaID, "error", err)
		return nil, apperrors.ClassifyRead("find saga state", err)
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	default:
		return nil, apperrors.AmbiguousState(fmt.Sprintf("more than one in-progress instance for saga %q", sagaID))
	}
}

func (r *sagaStateRepo) FindFailed(dbc dbctx.Context, criteria types.Criteria, sagaID string) ([]*types.SagaState, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	q := t.WithContext(dbc.Ctx).
		Model(&types.SagaState{}).
		Where("status = ?", types.StatusFailed)
	if sagaID != "" {
		q = q.Where("saga_id = ?", sagaID)
	}
	q, err := r.applyCriteria(q, criteria)
	if err != nil {
		return nil, err
	}

	var rows []*types.SagaState
	if err := q.Order("recorded_on ASC, id ASC").Find(&rows).Error; err != nil {
		r.log.Error("find failed saga states failed", "saga_id", sagaID, "error", err)
		return nil, apperrors.ClassifyRead("find failed saga states", err)
	}
	return rows, nil
}

func (r *sagaStateRepo) Save(dbc dbctx.Context, state *types.SagaState) error {
	if state == nil || state.ID == "" {
		return apperrors.Write("save saga state: missing instance id", nil)
	}
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	err := t.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"saga_id", "status", "values"}),
		}).
		Create(state).Error
	if err != nil {
		r.log.Error("save saga state failed", "saga_id", state.SagaID, "id", state.ID, "error", err)
		return apperrors.ClassifyWrite("save saga state", err)
	}
	return nil
}

func (r *sagaStateRepo) EnsureSchema(dbc dbctx.Context) (bool, error) {
	t := dbc.Tx
	if t == nil {
		t = r.db
	}
	m := t.WithContext(dbc.Ctx).Migrator()
	if m.HasTable(&types.SagaState{}) {
		return false, nil
	}
	if err := m.AutoMigrate(&types.SagaState{}); err != nil {
		r.log.Error("provision saga state schema failed", "error", err)
		return false, fmt.Errorf("provision saga state schema: %w", err)
	}
	r.log.Info("saga state schema created", "table", types.SagaState{}.TableName())
	return true, nil
}

func (r *sagaStateRepo) applyCriteria(q *gorm.DB, criteria types.Criteria) (*gorm.DB, error) {
	for _, cmp := range criteria.Comparisons() {
		frag, args, err := criterionClause(r.dialect, cmp)
		if err != nil {
			return nil, err
		}
		q = q.Where(frag, args...)
	}
	return q, nil
}
