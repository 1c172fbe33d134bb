package sqlbuild

import (
	"fmt"
	"sort"
	"strings"

	"github.com/skeema/normalizeworkbench/internal/sanitize"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

// DMLRequest is the structured form of the /execute_dml body (§6): a thin
// client of the WHERE builder, as spec.md §1 describes it.
type DMLRequest struct {
	Operation string // INSERT, UPDATE, DELETE
	Table     string
	Values    map[string]any // INSERT
	Set       map[string]any // UPDATE
	Where     []WhereCondition
}

// WhereCondition mirrors schema.Condition but is kept local to avoid an
// import cycle concern for callers that only need the DML builder.
type WhereCondition struct {
	ColumnRef string
	Operator  string
	Value     any
	Connector string
}

// BuildDML assembles a parameterized INSERT/UPDATE/DELETE statement.
// UPDATE and DELETE reject an empty WHERE fragment per spec.md §4.5.1.
func BuildDML(req DMLRequest) (Fragment, error) {
	table, ok := sanitize.Sanitize(req.Table, sanitize.ColumnContext)
	if !ok {
		return Fragment{}, &ClauseError{Message: fmt.Sprintf("table %q could not be sanitized", req.Table)}
	}

	switch strings.ToUpper(req.Operation) {
	case "INSERT":
		return buildInsert(table.Quoted(), req.Values)
	case "UPDATE":
		return buildUpdate(table.Quoted(), req.Set, req.Where)
	case "DELETE":
		return buildDelete(table.Quoted(), req.Where)
	default:
		return Fragment{}, &ClauseError{Message: fmt.Sprintf("operation %q is not permitted", req.Operation)}
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildInsert(table string, values map[string]any) (Fragment, error) {
	if len(values) == 0 {
		return Fragment{}, &ClauseError{Message: "INSERT requires at least one value"}
	}
	keys := sortedKeys(values)
	cols := make([]string, len(keys))
	placeholders := make([]string, len(keys))
	params := make([]any, len(keys))
	for i, k := range keys {
		id, ok := sanitize.Sanitize(k, sanitize.ColumnContext)
		if !ok {
			return Fragment{}, &ClauseError{Message: fmt.Sprintf("column %q could not be sanitized", k)}
		}
		cols[i] = id.Quoted()
		placeholders[i] = "?"
		params[i] = values[k]
	}
	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return Fragment{SQL: sql, Params: params}, nil
}

func buildUpdate(table string, set map[string]any, where []WhereCondition) (Fragment, error) {
	if len(set) == 0 {
		return Fragment{}, &ClauseError{Message: "UPDATE requires at least one SET value"}
	}
	whereFrag, err := buildWhereFromDML(where)
	if err != nil {
		return Fragment{}, err
	}
	if whereFrag.SQL == "" {
		return Fragment{}, &ClauseError{Message: "UPDATE requires a non-empty WHERE clause"}
	}

	keys := sortedKeys(set)
	assignments := make([]string, len(keys))
	params := make([]any, 0, len(keys)+len(whereFrag.Params))
	for i, k := range keys {
		id, ok := sanitize.Sanitize(k, sanitize.ColumnContext)
		if !ok {
			return Fragment{}, &ClauseError{Message: fmt.Sprintf("column %q could not be sanitized", k)}
		}
		assignments[i] = fmt.Sprintf("%s = ?", id.Quoted())
		params = append(params, set[k])
	}
	params = append(params, whereFrag.Params...)
	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(assignments, ", "), whereFrag.SQL)
	return Fragment{SQL: sql, Params: params}, nil
}

func buildDelete(table string, where []WhereCondition) (Fragment, error) {
	whereFrag, err := buildWhereFromDML(where)
	if err != nil {
		return Fragment{}, err
	}
	if whereFrag.SQL == "" {
		return Fragment{}, &ClauseError{Message: "DELETE requires a non-empty WHERE clause"}
	}
	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", table, whereFrag.SQL)
	return Fragment{SQL: sql, Params: whereFrag.Params}, nil
}

func buildWhereFromDML(where []WhereCondition) (Fragment, error) {
	conditions := make([]schema.Condition, len(where))
	for i, w := range where {
		conditions[i] = schema.Condition{
			ColumnRef: w.ColumnRef,
			Operator:  w.Operator,
			Value:     w.Value,
			Connector: w.Connector,
		}
	}
	return BuildWhere(conditions)
}
