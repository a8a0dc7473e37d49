package store

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates the requested workspace row does not exist.
var ErrNotFound = errors.New("blockly: workspace not found")

// ConstraintError wraps a database constraint violation.
type ConstraintError struct {
	Op    string // store operation that hit the constraint
	Cause error
}

// Error implements the error interface.
func (e *ConstraintError) Error() string {
	return fmt.Sprintf("blockly: constraint violation on %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying driver error.
func (e *ConstraintError) Unwrap() error {
	return e.Cause
}

// IsConstraintError reports whether the error is a ConstraintError.
func IsConstraintError(err error) bool {
	var e *ConstraintError
	return errors.As(err, &e)
}

// IsNotFound reports whether the error indicates a missing workspace.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func wrapConstraint(op string, err error) error {
	if isConstraintViolation(err) {
		return &ConstraintError{Op: op, Cause: err}
	}
	return err
}

// sqlStateError is implemented by drivers that expose SQLSTATE codes
// (pq, pgx, and some mysql drivers).
type sqlStateError interface {
	SQLState() string
}

// errorNumberer is implemented by mysql driver errors.
type errorNumberer interface {
	Number() uint16
}

// MySQL error numbers for constraint violations.
const (
	mysqlDuplicateEntry   = 1062
	mysqlForeignKeyParent = 1451
	mysqlForeignKeyChild  = 1452
	mysqlCheckViolation   = 3819
)

// isConstraintViolation reports whether err came from a database
// constraint, across the supported dialects.
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	// SQLSTATE class 23 covers every integrity constraint violation.
	if e, ok := asError[sqlStateError](err); ok && strings.HasPrefix(e.SQLState(), "23") {
		return true
	}
	if e, ok := asError[errorNumberer](err); ok {
		switch e.Number() {
		case mysqlDuplicateEntry, mysqlForeignKeyParent, mysqlForeignKeyChild, mysqlCheckViolation:
			return true
		}
	}
	// Fallback to string matching for drivers without either interface.
	return containsAny(err.Error(),
		"UNIQUE constraint failed",        // sqlite
		"FOREIGN KEY constraint failed",   // sqlite
		"CHECK constraint failed",         // sqlite
		"violates unique constraint",      // postgres
		"violates foreign key constraint", // postgres
		"violates check constraint",       // postgres
		"Error 1062",                      // mysql
		"Error 1451",
		"Error 1452",
		"Error 3819",
	)
}

// asError extracts an error implementing T from the chain.
func asError[T any](err error) (T, bool) {
	var target T
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	return target, false
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
