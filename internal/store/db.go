package store

import (
	"context"
	"database/sql"
	"fmt"
)

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}

// Tx is the subset of *sqlx.Tx the stores write through.
type Tx interface {
	Execer
	Getter
	Selecter
}

func placeholder(position int) string {
	return fmt.Sprintf("$%d", position)
}
