package api

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/skeema/normalizeworkbench/internal/apierr"
	"github.com/skeema/normalizeworkbench/internal/dbexec"
)

// listTables returns the base table names in the connected schema,
// grounded on tengo/introspector.go's information_schema-driven approach
// to enumerating schema objects (simplified here to one query, since this
// service introspects exactly one already-selected database per spec.md
// §6's env-var contract rather than tengo's multi-schema sweep).
func listTables(ctx context.Context, ex dbexec.Executor) ([]string, error) {
	_, rows, err := ex.Query(ctx, "SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name")
	if err != nil {
		return nil, apierr.FromDatabaseError(err)
	}
	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, fmt.Sprintf("%v", r["table_name"]))
	}
	return names, nil
}

// tableAttributes introspects one table's columns via information_schema,
// reporting not-null/unique/primary-key facets alongside each column's
// declared type, grounded on the same information_schema.columns source
// tengo/table_introspect.go reads (simplified to the facets spec.md §3
// models, dropping charset/collation/default/extra).
func tableAttributes(ctx context.Context, ex dbexec.Executor, table string) ([]AttributeDTO, error) {
	_, rows, err := ex.Query(ctx, `
		SELECT column_name, column_type, is_nullable, column_key
		FROM   information_schema.columns
		WHERE  table_schema = DATABASE() AND table_name = ?
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, apierr.FromDatabaseError(err)
	}
	if len(rows) == 0 {
		return nil, apierr.NotFound(fmt.Sprintf("table %q does not exist", table))
	}
	attrs := make([]AttributeDTO, 0, len(rows))
	for _, r := range rows {
		key := fmt.Sprintf("%v", r["column_key"])
		attrs = append(attrs, AttributeDTO{
			Name:      fmt.Sprintf("%v", r["column_name"]),
			Type:      fmt.Sprintf("%v", r["column_type"]),
			IsPK:      key == "PRI",
			IsNotNull: fmt.Sprintf("%v", r["is_nullable"]) == "NO",
			IsUnique:  key == "UNI" || key == "PRI",
		})
	}
	return attrs, nil
}

// foreignKeyEdges lists every FK relationship in the connected schema,
// grounded on tengo/table_introspect.go's referential-constraint query
// shape (simplified to the source/target table pair spec.md §6's
// CurrentSchemaResponse needs).
func foreignKeyEdges(ctx context.Context, ex dbexec.Executor) ([]CurrentRelationshipDTO, error) {
	_, rows, err := ex.Query(ctx, `
		SELECT constraint_name, table_name, referenced_table_name
		FROM   information_schema.key_column_usage
		WHERE  table_schema = DATABASE() AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name`)
	if err != nil {
		return nil, apierr.FromDatabaseError(err)
	}
	out := make([]CurrentRelationshipDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, CurrentRelationshipDTO{
			ID:     fmt.Sprintf("%v", r["constraint_name"]),
			Source: fmt.Sprintf("%v", r["table_name"]),
			Target: fmt.Sprintf("%v", r["referenced_table_name"]),
		})
	}
	return out, nil
}

// currentSchema assembles GET /current_schema's full payload, fetching
// every table's attributes and the FK edge list concurrently: two
// independent introspection queries with no data dependency between them,
// grounded on tengo/instance.go's errgroup.WithContext fan-out over
// independent introspection subtasks.
func currentSchema(ctx context.Context, ex dbexec.Executor) (*CurrentSchemaResponse, error) {
	tableNames, err := listTables(ctx, ex)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	attrsByTable := make([]TableAttributesDTO, len(tableNames))
	var relationships []CurrentRelationshipDTO

	for i, name := range tableNames {
		i, name := i, name
		g.Go(func() error {
			attrs, err := tableAttributes(gctx, ex, name)
			if err != nil {
				return err
			}
			attrsByTable[i] = TableAttributesDTO{Attributes: attrs}
			return nil
		})
	}
	g.Go(func() error {
		edges, err := foreignKeyEdges(gctx, ex)
		if err != nil {
			return err
		}
		relationships = edges
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	tables := make(map[string]TableAttributesDTO, len(tableNames))
	for i, name := range tableNames {
		tables[name] = attrsByTable[i]
	}
	return &CurrentSchemaResponse{Tables: tables, Relationships: relationships}, nil
}
