package sqlbuild

import (
	"strings"
	"testing"

	"github.com/skeema/normalizeworkbench/internal/schema"
)

func TestBuildCreateTable(t *testing.T) {
	r := schema.Relation{
		Name: "orders",
		Attributes: []schema.Attribute{
			{Name: "id", Type: schema.TypeInt, IsPK: true},
			{Name: "status", Type: schema.TypeVarchar, IsNotNull: true},
		},
		PrimaryKey: schema.NewAttrSet("id"),
	}
	sql, err := BuildCreateTable(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(sql, "CREATE TABLE `orders`") {
		t.Fatalf("got %q", sql)
	}
	if !strings.Contains(sql, "PRIMARY KEY (`id`)") {
		t.Fatalf("missing primary key clause: %q", sql)
	}
	if !strings.Contains(sql, "`status` VARCHAR(255) NOT NULL") {
		t.Fatalf("missing column definition: %q", sql)
	}
}

func TestBuildDropTable_IfExists(t *testing.T) {
	sql, err := BuildDropTable("orders", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sql != "DROP TABLE IF EXISTS `orders`" {
		t.Fatalf("got %q", sql)
	}
}

func TestBuildAddForeignKeyColumn(t *testing.T) {
	colSQL, fkSQL, err := BuildAddForeignKeyColumn("orders", "customers", "id", schema.TypeInt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(colSQL, "ADD COLUMN `customers_id` INT") {
		t.Fatalf("got %q", colSQL)
	}
	if !strings.Contains(fkSQL, "CONSTRAINT `fk_orders_customers_id`") || !strings.Contains(fkSQL, "REFERENCES `customers` (`id`)") {
		t.Fatalf("got %q", fkSQL)
	}
}
