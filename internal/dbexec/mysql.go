package dbexec

import (
	"context"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

// MySQLExecutor is the live Executor implementation over a single *sqlx.DB
// connection pool, grounded on tengo/instance.go's pooled-*sqlx.DB pattern
// (simplified here to a single pool per process, since this service connects
// to exactly one schema per spec.md §6's env-var contract, not many).
type MySQLExecutor struct {
	db *sqlx.DB
}

// Open establishes the process-wide connection pool for dsn.
func Open(dsn string) (*MySQLExecutor, error) {
	db, err := sqlx.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "opening mysql connection pool")
	}
	return &MySQLExecutor{db: db}, nil
}

func (e *MySQLExecutor) Close() error {
	return e.db.Close()
}

func (e *MySQLExecutor) Query(ctx context.Context, query string, args ...any) ([]string, []Row, error) {
	rows, err := e.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func (e *MySQLExecutor) Begin(ctx context.Context) (Tx, error) {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, errors.Wrap(err, "beginning transaction")
	}
	return &mysqlTx{tx: tx}, nil
}

type mysqlTx struct {
	tx *sqlx.Tx
}

func (t *mysqlTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *mysqlTx) Query(ctx context.Context, query string, args ...any) ([]string, []Row, error) {
	rows, err := t.tx.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()
	return scanRows(rows)
}

func (t *mysqlTx) Commit() error   { return t.tx.Commit() }
func (t *mysqlTx) Rollback() error { return t.tx.Rollback() }

func scanRows(rows *sqlx.Rows) ([]string, []Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading result columns")
	}
	var out []Row
	for rows.Next() {
		m := make(map[string]any, len(cols))
		if err := rows.MapScan(m); err != nil {
			return nil, nil, errors.Wrap(err, "scanning result row")
		}
		out = append(out, Row(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}
	return cols, out, nil
}
