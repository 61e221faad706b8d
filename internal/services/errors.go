package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// ErrNotFound is returned by read operations when no row matches.
var ErrNotFound = errors.New("not found")

// Datastore error classes derived from the driver error.
const (
	CodeUnknown           = "unknown"
	CodeTimeout           = "timeout"
	CodeForeignKey        = "foreign_key_violation"
	CodeUniqueViolation   = "unique_violation"
	CodeInvalidText       = "invalid_text_representation"
	CodeConnectionFailure = "connection_failure"
	CodeCheckViolation    = "check_violation"
	CodeNotNullViolation  = "not_null_violation"
)

// DatastoreError wraps any failure of a datastore call. Detail stays in Err and is
// meant for logs only.
type DatastoreError struct {
	Op   string
	Code string
	Err  error
}

func (e *DatastoreError) Error() string {
	return fmt.Sprintf("datastore %s (%s): %v", e.Op, e.Code, e.Err)
}

func (e *DatastoreError) Unwrap() error { return e.Err }

func wrapDatastore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &DatastoreError{Op: op, Code: classify(err), Err: err}
}

func classify(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return CodeTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			return CodeForeignKey
		case "23505":
			return CodeUniqueViolation
		case "23502":
			return CodeNotNullViolation
		case "23514":
			return CodeCheckViolation
		case "22P02":
			return CodeInvalidText
		}
		if len(pgErr.Code) == 5 && pgErr.Code[:2] == "08" {
			return CodeConnectionFailure
		}
		return pgErr.Code
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return CodeConnectionFailure
	}
	return CodeUnknown
}
