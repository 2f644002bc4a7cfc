package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrConfiguration tags store misuse detected before any SQL runs:
	// unsupported dialects at construction, invalid criteria keys.
	ErrConfiguration = errors.New("saga store configuration")
	// ErrAmbiguousState tags a lookup that matched more than one active row.
	ErrAmbiguousState = errors.New("ambiguous saga state")
	// ErrWrite tags any failure while persisting saga state.
	ErrWrite = errors.New("saga state write")
	// ErrDecode tags a payload column that failed to parse as JSON.
	ErrDecode = errors.New("saga state decode")
	// ErrRetryable marks a failure as transient; callers may redeliver.
	ErrRetryable = errors.New("retryable storage failure")
)

// Configuration tags an error as a configuration failure.
func Configuration(msg string) error {
	return errors.Join(ErrConfiguration, errors.New(strings.TrimSpace(msg)))
}

// AmbiguousState tags an error as an ambiguous lookup result.
func AmbiguousState(msg string) error {
	return errors.Join(ErrAmbiguousState, errors.New(strings.TrimSpace(msg)))
}

// Write wraps a persistence failure, preserving the driver cause.
func Write(op string, cause error) error {
	if cause == nil {
		return errors.Join(ErrWrite, errors.New(op))
	}
	return errors.Join(ErrWrite, fmt.Errorf("%s: %w", op, cause))
}

// Decode wraps a payload decoding failure.
func Decode(op string, cause error) error {
	if cause == nil {
		return errors.Join(ErrDecode, errors.New(op))
	}
	return errors.Join(ErrDecode, fmt.Errorf("%s: %w", op, cause))
}

// ClassifyWrite wraps a write failure and additionally tags it retryable
// when the cause looks transient (serialization, deadlock, lock waits,
// cancelled contexts). Duplicate-key causes stay non-retryable: with
// upsert writes they signal a real consistency problem, not contention.
func ClassifyWrite(op string, cause error) error {
	if cause == nil {
		return nil
	}
	if retryableCause(cause) {
		return errors.Join(ErrWrite, ErrRetryable, fmt.Errorf("%s: %w", op, cause))
	}
	return Write(op, cause)
}

// ClassifyRead wraps a query failure, tagging payload JSON corruption as a
// decode failure.
func ClassifyRead(op string, cause error) error {
	if cause == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(cause, &syntaxErr) || errors.As(cause, &typeErr) {
		return Decode(op, cause)
	}
	return fmt.Errorf("%s: %w", op, cause)
}

// Retryable reports whether err carries the retryable tag.
func Retryable(err error) bool {
	return errors.Is(err, ErrRetryable)
}

func retryableCause(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "40001", "40P01", "55P03":
			// serialization_failure, deadlock_detected, lock_not_available
			return true
		}
		return false
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "duplicate key"),
		strings.Contains(msg, "unique constraint"),
		strings.Contains(msg, "already exists"):
		return false
	case strings.Contains(msg, "deadlock"),
		strings.Contains(msg, "serialization"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "temporar"):
		return true
	}
	return false
}
