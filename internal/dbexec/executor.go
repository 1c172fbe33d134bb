// Package dbexec defines the Executor contract (spec.md §5): an opaque
// collaborator that runs parameterized statements and returns rows or error
// codes, plus a mysql-backed implementation built on sqlx. Grounded on
// tengo/instance.go's connection-pool-by-DSN pattern.
package dbexec

import "context"

// Row is a single result row keyed by column name, as returned by Query.
type Row map[string]any

// Tx is a single transaction scope. Every statement issued through it
// participates in the same transaction; callers must call exactly one of
// Commit or Rollback.
type Tx interface {
	// Exec runs a statement with no expected result rows (DDL or DML),
	// returning the number of affected rows where applicable.
	Exec(ctx context.Context, query string, args ...any) (affectedRows int64, err error)
	// Query runs a statement expecting result rows.
	Query(ctx context.Context, query string, args ...any) (columns []string, rows []Row, err error)
	Commit() error
	Rollback() error
}

// Executor is the process-wide connection factory: the only shared mutable
// state per spec.md §5. Each request performs scoped acquisition of a
// connection (a Tx) with guaranteed release on every exit path.
type Executor interface {
	// Begin acquires a connection and starts a transaction scoped to ctx;
	// cancelling ctx rolls the transaction back.
	Begin(ctx context.Context) (Tx, error)
	// Query runs a single read-only statement outside of any transaction,
	// for introspection calls that don't need transactional scope.
	Query(ctx context.Context, query string, args ...any) (columns []string, rows []Row, err error)
	// Close releases the underlying connection pool.
	Close() error
}
