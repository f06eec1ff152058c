package gormdb

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"campodigital/infrastructure/persistence"
	apperrors "campodigital/pkg/errors"

	"gorm.io/gorm"
)

// Session is a pooled handle on the store. Repositories receive it by
// injection; when the context carries a transaction every call runs on it.
type Session struct {
	db               *gorm.DB
	statementTimeout time.Duration
	closeOnce        sync.Once
	closeErr         error
}

func NewSession(db *gorm.DB, statementTimeout time.Duration) *Session {
	return &Session{db: db, statementTimeout: statementTimeout}
}

// Result reports the effect of a mutating statement. LastInsertID is 0 when
// the statement inserted nothing.
type Result struct {
	RowsAffected int64
	LastInsertID uint64
}

// Row is one result row, columns in select order.
type Row struct {
	Columns []string
	Values  []any
}

// Get returns the value of column, or nil when the row has no such column.
func (r Row) Get(column string) any {
	for i, c := range r.Columns {
		if c == column {
			return r.Values[i]
		}
	}
	return nil
}

func (r Row) Map() map[string]any {
	m := make(map[string]any, len(r.Columns))
	for i, c := range r.Columns {
		m[c] = r.Values[i]
	}
	return m
}

// DB returns the context's transaction, or the pool bound to ctx.
func (s *Session) DB(ctx context.Context) *gorm.DB {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db.WithContext(ctx)
}

// Run calls fn with the context's transaction. Outside a transaction fn gets
// the pool, bounded by the statement timeout.
func (s *Session) Run(ctx context.Context, fn func(db *gorm.DB) error) error {
	if tx := persistence.TxFromContext(ctx); tx != nil {
		return fn(tx)
	}
	ctx, cancel := s.withStatementTimeout(ctx)
	defer cancel()
	return fn(s.db.WithContext(ctx))
}

// Transaction runs fn inside the context's transaction, or in a new one
// committed when fn returns nil.
func (s *Session) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if persistence.TxFromContext(ctx) != nil {
		return fn(ctx)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(persistence.ContextWithTx(ctx, tx))
	})
}

func (s *Session) withStatementTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.statementTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.statementTimeout)
}

// Exec runs a mutating statement. Outside a transaction it commits on its own.
func (s *Session) Exec(ctx context.Context, statement string, args ...any) (Result, error) {
	var res Result
	err := s.Run(ctx, func(db *gorm.DB) error {
		begin := time.Now()
		sqlResult, err := db.Statement.ConnPool.ExecContext(db.Statement.Context, statement, args...)
		var rows int64
		if err == nil {
			rows, _ = sqlResult.RowsAffected()
			if id, idErr := sqlResult.LastInsertId(); idErr == nil && id > 0 {
				res.LastInsertID = uint64(id)
			}
			res.RowsAffected = rows
		}
		db.Logger.Trace(db.Statement.Context, begin, func() (string, int64) {
			return db.Dialector.Explain(statement, args...), rows
		}, err)
		return err
	})
	if err != nil {
		return Result{}, translateError("exec", err)
	}
	return res, nil
}

// FetchAll returns every row of a query. No rows is an empty slice.
func (s *Session) FetchAll(ctx context.Context, statement string, args ...any) ([]Row, error) {
	var out []Row
	err := s.Run(ctx, func(db *gorm.DB) error {
		rows, err := db.Raw(statement, args...).Rows()
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = scanRows(rows)
		return err
	})
	if err != nil {
		return nil, translateError("fetch_all", err)
	}
	return out, nil
}

// FetchOne returns the first row of a query, or nil, nil when there is none.
func (s *Session) FetchOne(ctx context.Context, statement string, args ...any) (*Row, error) {
	rows, err := s.FetchAll(ctx, statement, args...)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	return &rows[0], nil
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	out := []Row{}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		out = append(out, Row{Columns: columns, Values: values})
	}
	return out, rows.Err()
}

// Ping checks that the pool can reach the store.
func (s *Session) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return apperrors.ConnectionError(err, "failed to get underlying sql.DB")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return apperrors.ConnectionError(err, "database unreachable")
	}
	return nil
}

// Close releases the pool. Later calls return the first call's result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		sqlDB, err := s.db.DB()
		if err != nil {
			s.closeErr = err
			return
		}
		s.closeErr = sqlDB.Close()
	})
	return s.closeErr
}
