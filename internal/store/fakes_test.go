package store

import (
	"context"
	"database/sql"
)

// fakeDB satisfies DB and Tx. Unset hooks succeed without touching dest.
type fakeDB struct {
	getFn    func(ctx context.Context, dest any, query string, args ...any) error
	selectFn func(ctx context.Context, dest any, query string, args ...any) error
	execFn   func(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (f fakeDB) GetContext(ctx context.Context, dest any, query string, args ...any) error {
	if f.getFn != nil {
		return f.getFn(ctx, dest, query, args...)
	}
	return nil
}

func (f fakeDB) SelectContext(ctx context.Context, dest any, query string, args ...any) error {
	if f.selectFn != nil {
		return f.selectFn(ctx, dest, query, args...)
	}
	return nil
}

func (f fakeDB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.execFn != nil {
		return f.execFn(ctx, query, args...)
	}
	return rowsAffected(1), nil
}

type rowsAffected int64

func (rowsAffected) LastInsertId() (int64, error) { return 0, nil }

func (r rowsAffected) RowsAffected() (int64, error) { return int64(r), nil }
