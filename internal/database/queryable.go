package database

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Queryable is the subset of sqlx functionality shared by both *sqlx.DB
// and *sqlx.Tx. Stores accept a Queryable so that the same store method
// can be executed standalone, or as part of a wider transaction.
type Queryable interface {
	sqlx.Ext
	sqlx.ExtContext

	Get(dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	Select(dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	NamedExec(query string, arg any) (sql.Result, error)
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

var (
	_ Queryable = (*sqlx.DB)(nil)
	_ Queryable = (*sqlx.Tx)(nil)
)
