package saga

import (
	"fmt"
	"reflect"
	"strconv"

	datadb "github.com/temafey/micro-modules-saga-ext/internal/data/db"
)

// bindKind classifies a criteria value by runtime kind. The kind drives the
// dialect encoding below; anything unrecognized binds as a string.
type bindKind int

const (
	kindNull bindKind = iota
	kindBool
	kindInt
	kindUint
	kindFloat
	kindString
)

func kindOf(v any) bindKind {
	if v == nil {
		return kindNull
	}
	switch v.(type) {
	case bool:
		return kindBool
	case int, int8, int16, int32, int64:
		return kindInt
	case uint, uint8, uint16, uint32, uint64:
		return kindUint
	case float32, float64:
		return kindFloat
	case string:
		return kindString
	}

	// Named scalar types still classify by their underlying kind.
	switch reflect.ValueOf(v).Kind() {
	case reflect.Bool:
		return kindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return kindInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return kindUint
	case reflect.Float32, reflect.Float64:
		return kindFloat
	}
	return kindString
}

// bindKinds returns the bind classification for each value, in order.
func bindKinds(values []any) []bindKind {
	out := make([]bindKind, len(values))
	for i, v := range values {
		out[i] = kindOf(v)
	}
	return out
}

// bindValue prepares one criteria value for binding under the dialect.
// Postgres ->> yields text, so values are rendered to their JSON text form
// there; MySQL and SQLite compare native scalars against JSON_EXTRACT
// results and bind as-is.
func bindValue(d datadb.Dialect, v any) any {
	if v == nil {
		return nil
	}
	if d == datadb.DialectPostgres {
		return jsonText(v)
	}
	if kindOf(v) == kindString {
		return stringify(v)
	}
	return v
}

// jsonText renders a scalar the way the payload column's ->> operator
// renders it.
func jsonText(v any) string {
	switch kindOf(v) {
	case kindBool:
		if asBool(v) {
			return "true"
		}
		return "false"
	case kindInt:
		return strconv.FormatInt(asInt64(v), 10)
	case kindUint:
		return strconv.FormatUint(asUint64(v), 10)
	case kindFloat:
		return strconv.FormatFloat(asFloat64(v), 'f', -1, 64)
	default:
		return stringify(v)
	}
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(v)
}

func asBool(v any) bool { return reflect.ValueOf(v).Bool() }

func asInt64(v any) int64 { return reflect.ValueOf(v).Int() }

func asUint64(v any) uint64 { return reflect.ValueOf(v).Uint() }

func asFloat64(v any) float64 { return reflect.ValueOf(v).Float() }

// asNumber widens any numeric kind to float64, reporting whether v was
// numeric at all. JSON equality compares numbers by value, not by Go type.
func asNumber(v any) (float64, bool) {
	switch kindOf(v) {
	case kindInt:
		return float64(asInt64(v)), true
	case kindUint:
		return float64(asUint64(v)), true
	case kindFloat:
		return asFloat64(v), true
	}
	return 0, false
}
