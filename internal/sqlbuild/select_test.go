package sqlbuild

import (
	"strings"
	"testing"

	"github.com/skeema/normalizeworkbench/internal/schema"
)

func TestBuildSelect_Simple(t *testing.T) {
	req := SelectRequest{
		Select: []SelectColumn{{Type: "column", Table: "orders", Column: "id"}},
		From:   []string{"orders"},
	}
	frag, err := BuildSelect(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(frag.SQL, "SELECT `orders`.`id` FROM `orders`") {
		t.Fatalf("got %q", frag.SQL)
	}
}

func TestBuildSelect_RejectsUnknownTable(t *testing.T) {
	req := SelectRequest{
		Select: []SelectColumn{{Type: "column", Table: "missing", Column: "id"}},
		From:   []string{"orders"},
	}
	_, err := BuildSelect(req)
	if err == nil {
		t.Fatal("expected error for table absent from FROM/JOIN")
	}
}

func TestBuildSelect_JoinAndWhere(t *testing.T) {
	req := SelectRequest{
		Select: []SelectColumn{{Type: "column", Table: "orders", Column: "id"}},
		From:   []string{"orders"},
		Joins: []Join{{
			Type: "LEFT", LeftTable: "orders", LeftCol: "customer_id",
			RightTable: "customers", RightCol: "id",
		}},
		Where: []schema.Condition{{ColumnRef: "customers.active", Operator: "=", Value: true}},
	}
	frag, err := BuildSelect(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(frag.SQL, "LEFT JOIN `customers` ON `orders`.`customer_id` = `customers`.`id`") {
		t.Fatalf("missing join clause: %q", frag.SQL)
	}
	if !strings.Contains(frag.SQL, "WHERE `customers`.`active` = ?") {
		t.Fatalf("missing where clause: %q", frag.SQL)
	}
	if len(frag.Params) != 1 {
		t.Fatalf("expected 1 param, got %v", frag.Params)
	}
}

func TestBuildSelect_AggregateRequiresGroupBy(t *testing.T) {
	req := SelectRequest{
		Select: []SelectColumn{
			{Type: "column", Table: "orders", Column: "customer_id"},
			{Type: "aggregate", Func: "COUNT", Column: "*"},
		},
		From: []string{"orders"},
	}
	_, err := BuildSelect(req)
	if err == nil {
		t.Fatal("expected error mixing aggregate and non-aggregated columns without GROUP BY")
	}
}

func TestBuildSelect_GroupByAndHaving(t *testing.T) {
	req := SelectRequest{
		Select: []SelectColumn{
			{Type: "column", Table: "orders", Column: "customer_id"},
			{Type: "aggregate", Func: "COUNT", Column: "*", Alias: "cnt"},
		},
		From:    []string{"orders"},
		GroupBy: []string{"orders.customer_id"},
		Having:  []schema.Condition{{ColumnRef: "cnt", Operator: ">", Value: 1}},
	}
	frag, err := BuildSelect(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(frag.SQL, "GROUP BY `orders`.`customer_id`") {
		t.Fatalf("missing group by: %q", frag.SQL)
	}
	if !strings.Contains(frag.SQL, "HAVING `cnt` > ?") {
		t.Fatalf("expected HAVING to emit the alias bare: %q", frag.SQL)
	}
}

func TestBuildSelect_OrderBy(t *testing.T) {
	req := SelectRequest{
		Select:  []SelectColumn{{Type: "column", Table: "orders", Column: "id"}},
		From:    []string{"orders"},
		OrderBy: []OrderTerm{{Term: "orders.id", Direction: "desc"}},
	}
	frag, err := BuildSelect(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasSuffix(frag.SQL, "ORDER BY `orders`.`id` DESC") {
		t.Fatalf("got %q", frag.SQL)
	}
}
