package saga

import (
	"fmt"
	"strings"

	datadb "github.com/temafey/micro-modules-saga-ext/internal/data/db"
	types "github.com/temafey/micro-modules-saga-ext/internal/domain"
	apperrors "github.com/temafey/micro-modules-saga-ext/internal/pkg/errors"
)

const maxCriteriaKeyLen = 64

// criterionClause renders one payload comparison as a dialect-correct SQL
// fragment plus its bind arguments. Both the JSON path and the value are
// bound as parameters, never spliced into the fragment text. The payload
// column name collides with a reserved keyword, so every form quotes it.
func criterionClause(d datadb.Dialect, cmp types.Comparison) (string, []any, error) {
	if err := validateCriteriaKey(cmp.Key); err != nil {
		return "", nil, err
	}
	v := bindValue(d, cmp.Value)
	switch d {
	case datadb.DialectMySQL:
		return "JSON_EXTRACT(`values`, ?) = ?", []any{jsonMemberPath(cmp.Key), v}, nil
	case datadb.DialectSQLite:
		return `JSON_EXTRACT("values", ?) = ?`, []any{jsonMemberPath(cmp.Key), v}, nil
	case datadb.DialectPostgres:
		return `"values" ->> ? = ?`, []any{cmp.Key, v}, nil
	default:
		return "", nil, apperrors.Configuration(fmt.Sprintf("unsupported sql dialect %q", string(d)))
	}
}

// jsonMemberPath addresses one top-level payload member: $."<key>". The
// quoted form keeps dots and spaces inside the key as literal characters.
func jsonMemberPath(key string) string {
	return `$."` + key + `"`
}

// validateCriteriaKey rejects keys that could change JSON path semantics.
// Keys come from callers unchecked; even bound as parameters they must stay
// plain member names.
func validateCriteriaKey(key string) error {
	if key == "" {
		return apperrors.Configuration("criteria key must not be empty")
	}
	if len(key) > maxCriteriaKeyLen {
		return apperrors.Configuration(fmt.Sprintf("criteria key %q exceeds %d characters", key, maxCriteriaKeyLen))
	}
	if strings.ContainsAny(key, "\"'`\\$[]*") {
		return apperrors.Configuration(fmt.Sprintf("criteria key %q contains json path characters", key))
	}
	for _, r := range key {
		if r < 0x20 || r == 0x7f {
			return apperrors.Configuration(fmt.Sprintf("criteria key %q contains control characters", key))
		}
	}
	return nil
}
