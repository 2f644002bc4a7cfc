package saga

import (
	"testing"

	"github.com/stretchr/testify/assert"

	datadb "github.com/temafey/micro-modules-saga-ext/internal/data/db"
)

type namedStatus uint8

type namedFlag bool

func TestKindOf(t *testing.T) {
	for _, tc := range []struct {
		value any
		want  bindKind
	}{
		{nil, kindNull},
		{true, kindBool},
		{false, kindBool},
		{3, kindInt},
		{int64(-9), kindInt},
		{int8(1), kindInt},
		{uint(4), kindUint},
		{uint32(7), kindUint},
		{1.5, kindFloat},
		{float32(2), kindFloat},
		{"s", kindString},
		{namedStatus(2), kindUint},
		{namedFlag(true), kindBool},
		{struct{}{}, kindString},
		{[]int{1}, kindString},
	} {
		assert.Equal(t, tc.want, kindOf(tc.value), "value %#v", tc.value)
	}
}

func TestBindKinds(t *testing.T) {
	got := bindKinds([]any{nil, 1, "a", true, 0.5})

	assert.Equal(t, []bindKind{kindNull, kindInt, kindString, kindBool, kindFloat}, got)
}

func TestJSONText(t *testing.T) {
	for _, tc := range []struct {
		value any
		want  string
	}{
		{true, "true"},
		{false, "false"},
		{12, "12"},
		{int64(-7), "-7"},
		{uint8(255), "255"},
		{float64(1), "1"},
		{0.5, "0.5"},
		{-2.25, "-2.25"},
		{"plain", "plain"},
	} {
		assert.Equal(t, tc.want, jsonText(tc.value), "value %#v", tc.value)
	}
}

func TestBindValueByDialect(t *testing.T) {
	assert.Nil(t, bindValue(datadb.DialectPostgres, nil))
	assert.Nil(t, bindValue(datadb.DialectSQLite, nil))

	assert.Equal(t, "true", bindValue(datadb.DialectPostgres, true))
	assert.Equal(t, "42", bindValue(datadb.DialectPostgres, 42))

	assert.Equal(t, true, bindValue(datadb.DialectSQLite, true))
	assert.Equal(t, 42, bindValue(datadb.DialectMySQL, 42))
	assert.Equal(t, 0.5, bindValue(datadb.DialectSQLite, 0.5))

	assert.Equal(t, "s", bindValue(datadb.DialectMySQL, "s"))
}

func TestAsNumber(t *testing.T) {
	for _, tc := range []struct {
		value any
		want  float64
		ok    bool
	}{
		{3, 3, true},
		{int64(-2), -2, true},
		{uint16(8), 8, true},
		{2.5, 2.5, true},
		{namedStatus(5), 5, true},
		{"3", 0, false},
		{true, 0, false},
		{nil, 0, false},
	} {
		got, ok := asNumber(tc.value)
		assert.Equal(t, tc.ok, ok, "value %#v", tc.value)
		if tc.ok {
			assert.Equal(t, tc.want, got, "value %#v", tc.value)
		}
	}
}
