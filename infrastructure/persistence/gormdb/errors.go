package gormdb

import (
	"context"
	"errors"
	"strings"

	"campodigital/domain/shared"
	apperrors "campodigital/pkg/errors"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry   = 1062
	mysqlRowIsReferenced  = 1451
	mysqlNoReferencedRow  = 1452
	mysqlLockWaitTimeout  = 1205
	mysqlDeadlock         = 1213
	mysqlQueryInterrupted = 1317
	mysqlStatementTimeout = 3024
)

func mysqlNumber(err error) uint16 {
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number
	}
	return 0
}

func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || mysqlNumber(err) == mysqlDuplicateEntry {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "Duplicate entry") ||
		strings.Contains(errStr, "UNIQUE constraint failed")
}

func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	switch mysqlNumber(err) {
	case mysqlRowIsReferenced, mysqlNoReferencedRow:
		return true
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// translateError maps driver failures onto pkg/errors codes. Domain errors
// pass through untouched.
func translateError(op string, err error) error {
	if err == nil {
		return nil
	}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) || isDomainError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.TimeoutError(op, err)
	}
	switch mysqlNumber(err) {
	case mysqlDeadlock, mysqlLockWaitTimeout:
		return apperrors.RetryableQueryError(op, err)
	case mysqlQueryInterrupted, mysqlStatementTimeout:
		return apperrors.TimeoutError(op, err)
	}
	if isDuplicateKeyError(err) {
		return apperrors.Wrap(err, apperrors.CodeConflict, "duplicate key").WithOp(op)
	}
	if isForeignKeyError(err) {
		return apperrors.Wrap(err, apperrors.CodeConflict, "foreign key violation").WithOp(op)
	}
	if strings.Contains(err.Error(), "database is locked") {
		return apperrors.RetryableQueryError(op, err)
	}
	return apperrors.QueryError(op, err)
}

func isDomainError(err error) bool {
	for _, sentinel := range []error{
		shared.ErrNotFound,
		shared.ErrConflict,
		shared.ErrInvalidInput,
		shared.ErrForbidden,
		shared.ErrInvalidState,
		shared.ErrConcurrentModification,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
