package sqlbuild

import (
	"strings"
	"testing"
)

func TestBuildDML_Insert(t *testing.T) {
	frag, err := BuildDML(DMLRequest{
		Operation: "INSERT",
		Table:     "orders",
		Values:    map[string]any{"id": 1, "status": "open"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(frag.SQL, "INSERT INTO `orders`") {
		t.Fatalf("got %q", frag.SQL)
	}
	if len(frag.Params) != 2 {
		t.Fatalf("expected 2 params, got %v", frag.Params)
	}
}

func TestBuildDML_UpdateRejectsEmptyWhere(t *testing.T) {
	_, err := BuildDML(DMLRequest{
		Operation: "UPDATE",
		Table:     "orders",
		Set:       map[string]any{"status": "closed"},
	})
	if err == nil {
		t.Fatal("expected error: UPDATE with empty WHERE must be rejected")
	}
}

func TestBuildDML_DeleteRejectsEmptyWhere(t *testing.T) {
	_, err := BuildDML(DMLRequest{Operation: "DELETE", Table: "orders"})
	if err == nil {
		t.Fatal("expected error: DELETE with empty WHERE must be rejected")
	}
}

func TestBuildDML_UpdateWithWhere(t *testing.T) {
	frag, err := BuildDML(DMLRequest{
		Operation: "UPDATE",
		Table:     "orders",
		Set:       map[string]any{"status": "closed"},
		Where:     []WhereCondition{{ColumnRef: "id", Operator: "=", Value: 1}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(frag.SQL, "SET `status` = ?") || !strings.Contains(frag.SQL, "WHERE `id` = ?") {
		t.Fatalf("got %q", frag.SQL)
	}
	if len(frag.Params) != 2 {
		t.Fatalf("expected 2 params, got %v", frag.Params)
	}
}

func TestBuildDML_RejectsUnknownOperation(t *testing.T) {
	_, err := BuildDML(DMLRequest{Operation: "MERGE", Table: "orders"})
	if err == nil {
		t.Fatal("expected error for unsupported operation")
	}
}
