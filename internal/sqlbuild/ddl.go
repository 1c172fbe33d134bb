package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/skeema/normalizeworkbench/internal/sanitize"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

// BuildCreateTable emits CREATE TABLE DDL for a relation, grounded on the
// column-definition assembly idiom of tengo/table.go (Column.Definition)
// adapted to a logical-type-only model (no storage engine/charset/collation
// concerns, since this service never introspects a live table's physical
// column attributes beyond the logical type facets of spec.md §3).
func BuildCreateTable(r schema.Relation) (string, error) {
	tableID, ok := sanitize.Sanitize(string(r.Name), sanitize.SchemaCreationContext)
	if !ok {
		return "", &ClauseError{Message: fmt.Sprintf("table name %q could not be sanitized", r.Name)}
	}

	var cols []string
	for _, a := range r.Attributes {
		colID, ok := sanitize.Sanitize(string(a.Name), sanitize.ColumnContext)
		if !ok {
			return "", &ClauseError{Message: fmt.Sprintf("column name %q could not be sanitized", a.Name)}
		}
		def := colID.Quoted() + " " + a.Type.SQLType()
		if a.IsNotNull || a.IsPK {
			def += " NOT NULL"
		}
		if a.IsUnique {
			def += " UNIQUE"
		}
		cols = append(cols, def)
	}
	if !r.PrimaryKey.IsEmpty() {
		var pkCols []string
		for _, name := range r.PrimaryKey.Sorted() {
			id, ok := sanitize.Sanitize(name, sanitize.ColumnContext)
			if !ok {
				return "", &ClauseError{Message: fmt.Sprintf("primary key column %q could not be sanitized", name)}
			}
			pkCols = append(pkCols, id.Quoted())
		}
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pkCols, ", ")))
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", tableID.Quoted(), strings.Join(cols, ", ")), nil
}

// BuildDropTable emits a DROP TABLE [IF EXISTS] statement.
func BuildDropTable(tableName string, ifExists bool) (string, error) {
	id, ok := sanitize.Sanitize(tableName, sanitize.SchemaCreationContext)
	if !ok {
		return "", &ClauseError{Message: fmt.Sprintf("table name %q could not be sanitized", tableName)}
	}
	if ifExists {
		return fmt.Sprintf("DROP TABLE IF EXISTS %s", id.Quoted()), nil
	}
	return fmt.Sprintf("DROP TABLE %s", id.Quoted()), nil
}

// BuildAddForeignKeyColumn emits the column-add + constraint-add pair used
// when materializing a relationship from the canvas UI (spec.md §4.6):
// ADD COLUMN <target>_<pk> of the target PK's type, plus a named FK
// constraint fk_<src>_<tgt>_<col>.
func BuildAddForeignKeyColumn(srcTable, tgtTable, tgtPKCol string, tgtPKType schema.LogicalType) (colSQL, fkSQL string, err error) {
	src, ok1 := sanitize.Sanitize(srcTable, sanitize.SchemaCreationContext)
	tgt, ok2 := sanitize.Sanitize(tgtTable, sanitize.SchemaCreationContext)
	pk, ok3 := sanitize.Sanitize(tgtPKCol, sanitize.ColumnContext)
	if !ok1 || !ok2 || !ok3 {
		return "", "", &ClauseError{Message: "foreign key identifiers could not be sanitized"}
	}
	colName := fmt.Sprintf("%s_%s", tgt, pk)
	colID, ok := sanitize.Sanitize(colName, sanitize.ColumnContext)
	if !ok {
		return "", "", &ClauseError{Message: fmt.Sprintf("derived FK column name %q could not be sanitized", colName)}
	}
	constraintName := fmt.Sprintf("fk_%s_%s_%s", src, tgt, pk)
	constraintID, ok := sanitize.Sanitize(constraintName, sanitize.ColumnContext)
	if !ok {
		return "", "", &ClauseError{Message: fmt.Sprintf("derived FK constraint name %q could not be sanitized", constraintName)}
	}

	colSQL = fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", src.Quoted(), colID.Quoted(), tgtPKType.SQLType())
	fkSQL = fmt.Sprintf(
		"ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s)",
		src.Quoted(), constraintID.Quoted(), colID.Quoted(), tgt.Quoted(), pk.Quoted(),
	)
	return colSQL, fkSQL, nil
}
