// ABOUTME: Error taxonomy for the workout store and driver error classification.
// ABOUTME: Maps SQLite result codes and Postgres SQLSTATEs onto sentinel errors.
package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harperreed/workouts/internal/models"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound means the addressed row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConstraintViolation means a unique or not-null constraint was breached.
	ErrConstraintViolation = errors.New("constraint violation")
	// ErrInvalidEnumValue means a set type outside warmup/work.
	ErrInvalidEnumValue = errors.New("invalid enum value")
	// ErrReferentialIntegrity means a foreign key was violated on write or delete.
	ErrReferentialIntegrity = errors.New("referential integrity violation")
)

// ConstraintError is a classified constraint failure. A referential
// integrity failure also matches ErrConstraintViolation.
type ConstraintError struct {
	Kind   error
	Detail string
	Err    error
}

func (e *ConstraintError) Error() string {
	if e.Detail == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Detail)
}

func (e *ConstraintError) Unwrap() error { return e.Err }

// Is matches the error's kind.
func (e *ConstraintError) Is(target error) bool {
	if target == e.Kind {
		return true
	}
	return target == ErrConstraintViolation && e.Kind == ErrReferentialIntegrity
}

// OpError adds the operation and resource to a store error.
type OpError struct {
	Op       string
	Resource string
	ID       int64
	Err      error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	if e.ID > 0 {
		return fmt.Sprintf("%s %s %d: %v", e.Op, e.Resource, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

func wrapErr(op, resource string, id int64, err error) error {
	if err == nil {
		return nil
	}
	return &OpError{Op: op, Resource: resource, ID: id, Err: err}
}

// validationErr converts a model validation failure into the store taxonomy.
func validationErr(err error) error {
	if err == nil {
		return nil
	}
	var enumErr *models.EnumError
	if errors.As(err, &enumErr) {
		return &ConstraintError{Kind: ErrInvalidEnumValue, Detail: enumErr.Error(), Err: err}
	}
	return &ConstraintError{Kind: ErrConstraintViolation, Detail: err.Error(), Err: err}
}

// classify converts driver constraint errors into ConstraintErrors and
// passes everything else through.
func (d *DB) classify(err error) error {
	if err == nil {
		return nil
	}
	if d.dialect == DialectPostgres {
		return classifyPostgres(err)
	}
	return classifySQLite(err)
}

func classifySQLite(err error) error {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return err
	}

	detail := se.Error()
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
		return &ConstraintError{Kind: ErrConstraintViolation, Detail: detail, Err: err}
	case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
		return &ConstraintError{Kind: ErrReferentialIntegrity, Detail: detail, Err: err}
	case sqlite3.SQLITE_CONSTRAINT_CHECK:
		return &ConstraintError{Kind: ErrInvalidEnumValue, Detail: detail, Err: err}
	}

	// Primary result code only, when extended codes are off.
	if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
		switch {
		case strings.Contains(detail, "FOREIGN KEY"):
			return &ConstraintError{Kind: ErrReferentialIntegrity, Detail: detail, Err: err}
		case strings.Contains(detail, "CHECK"):
			return &ConstraintError{Kind: ErrInvalidEnumValue, Detail: detail, Err: err}
		default:
			return &ConstraintError{Kind: ErrConstraintViolation, Detail: detail, Err: err}
		}
	}
	return err
}

func classifyPostgres(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	detail := pgErr.Message
	if pgErr.ConstraintName != "" {
		detail = fmt.Sprintf("%s (%s)", pgErr.Message, pgErr.ConstraintName)
	}
	switch pgErr.Code {
	case "23505", "23502":
		return &ConstraintError{Kind: ErrConstraintViolation, Detail: detail, Err: err}
	case "23503", "23001":
		return &ConstraintError{Kind: ErrReferentialIntegrity, Detail: detail, Err: err}
	case "23514":
		return &ConstraintError{Kind: ErrInvalidEnumValue, Detail: detail, Err: err}
	}
	return err
}
