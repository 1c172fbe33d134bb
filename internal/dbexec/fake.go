package dbexec

import (
	"context"
	"fmt"
)

// FakeExecutor is an in-memory Executor for unit tests that don't require a
// real MySQL server, grounded on the teacher's general pattern of
// abstracting DB access behind an interface so tests can substitute a stub
// (tengo.Instance is itself swappable behind *sqlx.DB in the same way).
type FakeExecutor struct {
	Statements []string
	// FailOn, if set, causes Exec/Query to return this error when the
	// statement contains the given substring.
	FailOn map[string]error
	// QueryResponses, if set, returns canned columns/rows for a Query whose
	// statement contains the given substring, checked in slice order.
	QueryResponses []FakeQueryResponse
	closed         bool
}

// FakeQueryResponse is one canned result a FakeExecutor returns when a
// query statement matches Contains.
type FakeQueryResponse struct {
	Contains string
	Columns  []string
	Rows     []Row
}

// NewFakeExecutor returns an empty FakeExecutor.
func NewFakeExecutor() *FakeExecutor {
	return &FakeExecutor{FailOn: make(map[string]error)}
}

func (e *FakeExecutor) Close() error {
	e.closed = true
	return nil
}

func (e *FakeExecutor) Query(_ context.Context, query string, _ ...any) ([]string, []Row, error) {
	e.Statements = append(e.Statements, query)
	if err := e.matchFailure(query); err != nil {
		return nil, nil, err
	}
	for _, resp := range e.QueryResponses {
		if containsSubstring(query, resp.Contains) {
			return resp.Columns, resp.Rows, nil
		}
	}
	return nil, nil, nil
}

func (e *FakeExecutor) Begin(_ context.Context) (Tx, error) {
	return &fakeTx{exec: e}, nil
}

func (e *FakeExecutor) matchFailure(query string) error {
	for substr, err := range e.FailOn {
		if containsSubstring(query, substr) {
			return err
		}
	}
	return nil
}

func containsSubstring(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

type fakeTx struct {
	exec      *FakeExecutor
	committed bool
	rolled    bool
}

func (t *fakeTx) Exec(_ context.Context, query string, args ...any) (int64, error) {
	t.exec.Statements = append(t.exec.Statements, query)
	if err := t.exec.matchFailure(query); err != nil {
		return 0, err
	}
	return 1, nil
}

func (t *fakeTx) Query(_ context.Context, query string, args ...any) ([]string, []Row, error) {
	t.exec.Statements = append(t.exec.Statements, query)
	if err := t.exec.matchFailure(query); err != nil {
		return nil, nil, err
	}
	return nil, nil, nil
}

func (t *fakeTx) Commit() error {
	if t.rolled {
		return fmt.Errorf("tx already rolled back")
	}
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if t.committed {
		return nil // committing then rolling back on a deferred rollback is a no-op, not an error
	}
	t.rolled = true
	return nil
}
