package saga

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	datadb "github.com/temafey/micro-modules-saga-ext/internal/data/db"
	types "github.com/temafey/micro-modules-saga-ext/internal/domain"
	apperrors "github.com/temafey/micro-modules-saga-ext/internal/pkg/errors"
)

func TestCriterionClauseMySQL(t *testing.T) {
	frag, args, err := criterionClause(datadb.DialectMySQL, types.Comparison{Key: "order_id", Value: "o-1"})

	require.NoError(t, err)
	assert.Equal(t, "JSON_EXTRACT(`values`, ?) = ?", frag)
	require.Len(t, args, 2)
	assert.Equal(t, `$."order_id"`, args[0])
	assert.Equal(t, "o-1", args[1])
}

func TestCriterionClauseSQLite(t *testing.T) {
	frag, args, err := criterionClause(datadb.DialectSQLite, types.Comparison{Key: "retries", Value: 2})

	require.NoError(t, err)
	assert.Equal(t, `JSON_EXTRACT("values", ?) = ?`, frag)
	require.Len(t, args, 2)
	assert.Equal(t, `$."retries"`, args[0])
	assert.Equal(t, 2, args[1])
}

func TestCriterionClausePostgres(t *testing.T) {
	frag, args, err := criterionClause(datadb.DialectPostgres, types.Comparison{Key: "order_id", Value: "o-1"})

	require.NoError(t, err)
	assert.Equal(t, `"values" ->> ? = ?`, frag)
	require.Len(t, args, 2)
	assert.Equal(t, "order_id", args[0])
	assert.Equal(t, "o-1", args[1])
}

func TestCriterionClausePostgresEncodesScalars(t *testing.T) {
	for _, tc := range []struct {
		value any
		want  string
	}{
		{7, "7"},
		{int64(-3), "-3"},
		{uint16(9), "9"},
		{0.5, "0.5"},
		{float64(1), "1"},
		{true, "true"},
		{false, "false"},
		{"text", "text"},
	} {
		_, args, err := criterionClause(datadb.DialectPostgres, types.Comparison{Key: "k", Value: tc.value})
		require.NoError(t, err)
		require.Len(t, args, 2)
		assert.Equal(t, tc.want, args[1], "value %#v", tc.value)
	}
}

func TestCriterionClauseNilValue(t *testing.T) {
	for _, d := range []datadb.Dialect{datadb.DialectMySQL, datadb.DialectPostgres, datadb.DialectSQLite} {
		_, args, err := criterionClause(d, types.Comparison{Key: "k", Value: nil})
		require.NoError(t, err)
		require.Len(t, args, 2)
		assert.Nil(t, args[1], "dialect %s", d)
	}
}

func TestCriterionClauseUnknownDialect(t *testing.T) {
	_, _, err := criterionClause(datadb.Dialect("oracle"), types.Comparison{Key: "k", Value: 1})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConfiguration)
}

func TestValidateCriteriaKey(t *testing.T) {
	for _, key := range []string{
		"order_id",
		"a",
		"payment.step",
		"with space",
		"UPPER",
		"digits123",
		strings.Repeat("k", maxCriteriaKeyLen),
	} {
		assert.NoError(t, validateCriteriaKey(key), "key %q", key)
	}

	for _, key := range []string{
		"",
		strings.Repeat("k", maxCriteriaKeyLen+1),
		`a"b`,
		"a'b",
		"a`b",
		`a\b`,
		"a$b",
		"a[b",
		"a]b",
		"a*b",
		"a\nb",
		"a\x00b",
	} {
		err := validateCriteriaKey(key)
		require.Error(t, err, "key %q", key)
		assert.ErrorIs(t, err, apperrors.ErrConfiguration, "key %q", key)
	}
}
