// Package dberr translates driver errors into the errs taxonomy. Repositories
// call it on every failed statement so callers never see raw driver errors.
package dberr

import (
	"context"
	"errors"
	"strings"

	"freight/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the repositories react to.
const (
	codeUniqueViolation      pq.ErrorCode = "23505"
	codeSerializationFailure pq.ErrorCode = "40001"
	codeDeadlockDetected     pq.ErrorCode = "40P01"
)

// IsDuplicate reports a unique constraint violation on PostgreSQL or SQLite.
func IsDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeUniqueViolation
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsSerialization reports a transaction the server aborted to keep it serializable.
func IsSerialization(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == codeSerializationFailure || pqErr.Code == codeDeadlockDetected
	}
	return false
}

// Wrap turns err into a retryable storage error, or a conflict for duplicate
// keys. A nil err stays nil.
func Wrap(operation string, entity string, err error) error {
	switch {
	case err == nil:
		return nil
	case IsDuplicate(err):
		return errs.NewConflictErrorWithCause(entity, "already exists", err)
	case IsSerialization(err):
		return errs.NewConcurrentModificationError(entity, operation, 0)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return errs.NewStorageError(operation, err)
	}
}
