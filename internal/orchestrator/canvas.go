// Package orchestrator sequences DDL and data-migration DML under a single
// transaction on behalf of the canvas UI and the decomposition flow
// (spec.md §4.6), grounded on tengo/diff.go's ordering discipline: plain
// table statements first, ADD FOREIGN KEY statements last, since FKs may
// reference tables created earlier in the same batch.
package orchestrator

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/skeema/normalizeworkbench/internal/apierr"
	"github.com/skeema/normalizeworkbench/internal/dbexec"
	"github.com/skeema/normalizeworkbench/internal/schema"
	"github.com/skeema/normalizeworkbench/internal/sqlbuild"
)

// CanvasRelationship is a source-table-to-target-table FK edge as drawn on
// the canvas, referencing tables by the name the canvas assigned them.
type CanvasRelationship struct {
	SourceTable string
	TargetTable string
}

// CanvasRequest is the apply input for the canvas diff flow.
type CanvasRequest struct {
	Tables        []schema.Relation
	Relationships []CanvasRelationship
}

// CanvasResult reports what happened, including per-FK errors that don't
// abort the whole request (the 207 partial-success shape of spec.md §6).
type CanvasResult struct {
	CreatedTables    []string
	DroppedTables    []string
	AddedForeignKeys []string
	Errors           []string
}

// ApplyCanvas implements spec.md §4.6's canvas diff apply: disable FK
// checks, drop tables no longer on the canvas, drop-and-recreate every
// table on the canvas, re-enable FK checks, then add FK columns and
// constraints for each relationship. Everything runs inside one
// transaction; a database error in a table drop/create step rolls the whole
// attempt back. In the FK step a tolerable error (duplicate column or
// constraint) is ignored and the relationship still counts as added; any
// other FK error is recorded in Errors, that relationship is skipped, and
// the request is not aborted.
func ApplyCanvas(ctx context.Context, ex dbexec.Executor, existingTables []string, req CanvasRequest, logger *log.Logger) (*CanvasResult, error) {
	tx, err := ex.Begin(ctx)
	if err != nil {
		return nil, apierr.FromDatabaseError(err)
	}
	result := &CanvasResult{}
	if err := applyCanvas(ctx, tx, existingTables, req, result, logger); err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, apierr.FromDatabaseError(err)
	}
	return result, nil
}

func applyCanvas(ctx context.Context, tx dbexec.Tx, existingTables []string, req CanvasRequest, result *CanvasResult, logger *log.Logger) error {
	canvasNames := make(map[string]bool, len(req.Tables))
	byName := make(map[string]schema.Relation, len(req.Tables))
	for _, t := range req.Tables {
		canvasNames[t.Name.String()] = true
		byName[t.Name.String()] = t
	}

	if _, err := tx.Exec(ctx, "SET FOREIGN_KEY_CHECKS=0"); err != nil {
		return apierr.FromDatabaseError(err)
	}

	for _, existing := range existingTables {
		if canvasNames[existing] {
			continue
		}
		stmt, err := sqlbuild.BuildDropTable(existing, true)
		if err != nil {
			return apierr.Wrap(apierr.KindInputValidation, "building drop statement", err)
		}
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return apierr.FromDatabaseError(err)
		}
		result.DroppedTables = append(result.DroppedTables, existing)
	}

	existingSet := make(map[string]bool, len(existingTables))
	for _, e := range existingTables {
		existingSet[e] = true
	}

	for _, t := range req.Tables {
		var previousCreate string
		if existingSet[t.Name.String()] {
			previousCreate = showCreateTable(ctx, tx, t.Name)
		}
		dropStmt, err := sqlbuild.BuildDropTable(t.Name.String(), true)
		if err != nil {
			return apierr.Wrap(apierr.KindInputValidation, "building drop statement", err)
		}
		if _, err := tx.Exec(ctx, dropStmt); err != nil {
			return apierr.FromDatabaseError(err)
		}
		createStmt, err := sqlbuild.BuildCreateTable(t)
		if err != nil {
			return apierr.Wrap(apierr.KindInputValidation, "building create statement", err)
		}
		if logger != nil && previousCreate != "" {
			if diff, dErr := createTableDiff(previousCreate, createStmt); dErr == nil {
				logger.WithField("table", t.Name.String()).Debug("recreating table:\n" + diff)
			}
		}
		if _, err := tx.Exec(ctx, createStmt); err != nil {
			return apierr.FromDatabaseError(err)
		}
		result.CreatedTables = append(result.CreatedTables, t.Name.String())
	}

	if _, err := tx.Exec(ctx, "SET FOREIGN_KEY_CHECKS=1"); err != nil {
		return apierr.FromDatabaseError(err)
	}

	if cycle := findRelationshipCycle(req.Relationships); cycle != nil && logger != nil {
		logger.WithField("cycle", cycle).Warn("foreign key relationships form a cycle")
	}

	for _, rel := range req.Relationships {
		src, ok := byName[rel.SourceTable]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("relationship references unknown source table %q", rel.SourceTable))
			continue
		}
		tgt, ok := byName[rel.TargetTable]
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("relationship references unknown target table %q", rel.TargetTable))
			continue
		}
		pkAttr, ok := targetPKAttribute(tgt)
		if !ok {
			result.Errors = append(result.Errors, fmt.Sprintf("target table %q has no primary key to reference", rel.TargetTable))
			continue
		}
		colSQL, fkSQL, err := sqlbuild.BuildAddForeignKeyColumn(src.Name.String(), tgt.Name.String(), pkAttr.Name.String(), pkAttr.Type)
		if err != nil {
			result.Errors = append(result.Errors, err.Error())
			continue
		}
		if _, err := tx.Exec(ctx, colSQL); err != nil {
			if !apierr.IsTolerable(err) {
				result.Errors = append(result.Errors, apierr.FromDatabaseError(err).Error())
				continue
			}
		}
		if _, err := tx.Exec(ctx, fkSQL); err != nil {
			if !apierr.IsTolerable(err) {
				result.Errors = append(result.Errors, apierr.FromDatabaseError(err).Error())
				continue
			}
		}
		result.AddedForeignKeys = append(result.AddedForeignKeys, fmt.Sprintf("%s -> %s", rel.SourceTable, rel.TargetTable))
	}

	return nil
}

// findRelationshipCycle reports the first cycle found in the canvas's FK
// graph, for operator visibility only: a cycle is legal (FK checks are
// disabled for the whole batch) but worth a log line since it means no
// single statement order could have satisfied every constraint up front.
func findRelationshipCycle(relationships []CanvasRelationship) []string {
	edges := make(map[string][]string)
	for _, rel := range relationships {
		edges[rel.SourceTable] = append(edges[rel.SourceTable], rel.TargetTable)
	}
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int)
	var path []string
	var cycle []string
	var visit func(node string) bool
	visit = func(node string) bool {
		switch state[node] {
		case done:
			return false
		case visiting:
			cycle = append(append([]string{}, path...), node)
			return true
		}
		state[node] = visiting
		path = append(path, node)
		for _, next := range edges[node] {
			if visit(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		state[node] = done
		return false
	}
	for node := range edges {
		if state[node] == unvisited && visit(node) {
			return cycle
		}
	}
	return nil
}

// showCreateTable fetches a table's current CREATE TABLE text for debug-log
// diffing ahead of a drop-and-recreate, grounded on tengo's use of SHOW
// CREATE TABLE for introspection (e.g. instance.go). Returns "" on any
// failure; this is best-effort logging, not load-bearing.
func showCreateTable(ctx context.Context, tx dbexec.Tx, name schema.Identifier) string {
	_, rows, err := tx.Query(ctx, "SHOW CREATE TABLE "+name.Quoted())
	if err != nil || len(rows) == 0 {
		return ""
	}
	create, _ := rows[0]["Create Table"].(string)
	return create
}

func targetPKAttribute(t schema.Relation) (schema.Attribute, bool) {
	if t.PrimaryKey.Len() != 1 {
		return schema.Attribute{}, false
	}
	name := t.PrimaryKey.Sorted()[0]
	return t.AttributeByName(name)
}
