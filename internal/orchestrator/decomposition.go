package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/skeema/normalizeworkbench/internal/apierr"
	"github.com/skeema/normalizeworkbench/internal/dbexec"
	"github.com/skeema/normalizeworkbench/internal/sanitize"
	"github.com/skeema/normalizeworkbench/internal/schema"
	"github.com/skeema/normalizeworkbench/internal/sqlbuild"
)

// SubSchemaPlan is one new table to materialize from a decomposition,
// typed against the original table's attribute map.
type SubSchemaPlan struct {
	NewTableName string
	Attributes   []string
	PrimaryKey   []string
}

// DecompositionRequest is the apply input for spec.md §4.6's second flow.
type DecompositionRequest struct {
	OriginalTable string
	// AttributeTypes maps every attribute name appearing in any SubSchema to
	// its logical type; an attribute absent from this map defaults to TEXT.
	AttributeTypes map[string]schema.LogicalType
	SubSchemas     []SubSchemaPlan
}

// DecompositionResult reports what was created and migrated.
type DecompositionResult struct {
	CreatedTables        []string
	DataMigratedTo       []string
	OriginalTableDropped bool
}

// ApplyDecomposition implements spec.md §4.6's decomposition apply: for
// each sub-schema, drop any existing table of that name, create the table
// and migrate distinct projected rows from the original; then drop the
// original. All of these statements run in a single transaction; any
// failure rolls back the whole attempt.
func ApplyDecomposition(ctx context.Context, ex dbexec.Executor, req DecompositionRequest) (*DecompositionResult, error) {
	if len(req.SubSchemas) == 0 {
		return nil, apierr.New(apierr.KindInputValidation, "decomposition apply requires at least one sub-schema")
	}
	tx, err := ex.Begin(ctx)
	if err != nil {
		return nil, apierr.FromDatabaseError(err)
	}
	result := &DecompositionResult{}
	if err := applyDecomposition(ctx, tx, req, result); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apierr.FromDatabaseError(err)
	}
	return result, nil
}

func applyDecomposition(ctx context.Context, tx dbexec.Tx, req DecompositionRequest, result *DecompositionResult) error {
	for _, plan := range req.SubSchemas {
		relation, err := buildPlanRelation(plan, req.AttributeTypes)
		if err != nil {
			return apierr.Wrap(apierr.KindInputValidation, "building sub-schema relation", err)
		}

		dropStmt, err := sqlbuild.BuildDropTable(relation.Name.String(), true)
		if err != nil {
			return apierr.Wrap(apierr.KindInputValidation, "building drop statement", err)
		}
		if _, err := tx.Exec(ctx, dropStmt); err != nil {
			return apierr.FromDatabaseError(err)
		}

		createStmt, err := sqlbuild.BuildCreateTable(relation)
		if err != nil {
			return apierr.Wrap(apierr.KindInputValidation, "building create statement", err)
		}
		if _, err := tx.Exec(ctx, createStmt); err != nil {
			return apierr.FromDatabaseError(err)
		}
		result.CreatedTables = append(result.CreatedTables, relation.Name.String())

		insertStmt, err := buildMigrationInsert(relation, req.OriginalTable)
		if err != nil {
			return apierr.Wrap(apierr.KindInputValidation, "building migration insert", err)
		}
		if _, err := tx.Exec(ctx, insertStmt); err != nil {
			return apierr.FromDatabaseError(err)
		}
		result.DataMigratedTo = append(result.DataMigratedTo, relation.Name.String())
	}

	dropOriginal, err := sqlbuild.BuildDropTable(req.OriginalTable, false)
	if err != nil {
		return apierr.Wrap(apierr.KindInputValidation, "building original drop statement", err)
	}
	if _, err := tx.Exec(ctx, dropOriginal); err != nil {
		return apierr.FromDatabaseError(err)
	}
	result.OriginalTableDropped = true
	return nil
}

func buildPlanRelation(plan SubSchemaPlan, types map[string]schema.LogicalType) (schema.Relation, error) {
	if len(plan.Attributes) == 0 {
		return schema.Relation{}, fmt.Errorf("sub-schema %q has no attributes", plan.NewTableName)
	}
	pk := schema.NewAttrSet(plan.PrimaryKey...)
	attrs := make([]schema.Attribute, 0, len(plan.Attributes))
	for _, name := range plan.Attributes {
		t, ok := types[name]
		if !ok {
			t = schema.TypeText
		}
		attrs = append(attrs, schema.Attribute{
			Name:      schema.Identifier(name),
			Type:      t,
			IsPK:      pk.Contains(name),
			IsNotNull: pk.Contains(name),
		})
	}
	return schema.Relation{
		Name:       schema.Identifier(plan.NewTableName),
		Attributes: attrs,
		PrimaryKey: pk,
	}, nil
}

// buildMigrationInsert emits `INSERT INTO new SELECT DISTINCT cols FROM
// original`. Every identifier is re-run through sanitize.Sanitize with the
// same context BuildCreateTable/BuildDropTable use, so the INSERT targets
// exactly the table and columns those statements actually created rather
// than whatever name the caller happened to supply. The fixed INSERT shape
// itself is built by hand rather than through sqlbuild's clause builders,
// since there are no user-supplied operators or connectors to assemble.
func buildMigrationInsert(relation schema.Relation, originalTable string) (string, error) {
	tableID, ok := sanitize.Sanitize(relation.Name.String(), sanitize.SchemaCreationContext)
	if !ok {
		return "", fmt.Errorf("sub-schema table name %q sanitizes to empty", relation.Name)
	}
	cols := make([]string, len(relation.Attributes))
	for i, a := range relation.Attributes {
		colID, ok := sanitize.Sanitize(a.Name.String(), sanitize.ColumnContext)
		if !ok {
			return "", fmt.Errorf("column name %q sanitizes to empty", a.Name)
		}
		cols[i] = colID.Quoted()
	}
	origID, ok := sanitize.Sanitize(originalTable, sanitize.SchemaCreationContext)
	if !ok {
		return "", fmt.Errorf("original table name %q sanitizes to empty", originalTable)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s SELECT DISTINCT %s FROM %s",
		tableID.Quoted(), strings.Join(cols, ", "), origID.Quoted())
	return b.String(), nil
}
