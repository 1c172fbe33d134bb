// Package sqlbuild is the Safe SQL Construction Layer: it takes untrusted
// identifiers and structured condition lists and emits parameterized SQL
// fragments, never literal user values. Identifier safety is delegated
// entirely to internal/sanitize; this package never interpolates a raw user
// string into a SQL fragment.
package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/skeema/normalizeworkbench/internal/sanitize"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

// whitelistedOperators is the fixed operator set of spec.md §4.5.1.
var whitelistedOperators = map[string]bool{
	"=": true, "!=": true, ">": true, "<": true, ">=": true, "<=": true,
	"LIKE": true, "NOT LIKE": true, "IS NULL": true, "IS NOT NULL": true,
}

// IsWhitelistedOperator reports whether op (exact case) is one of the
// allowed comparison operators.
func IsWhitelistedOperator(op string) bool {
	return whitelistedOperators[op]
}

var aggregateFuncs = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true, "MAX": true,
}

// ClauseError is an InputValidation-class failure from a clause builder.
type ClauseError struct {
	Message string
}

func (e *ClauseError) Error() string { return e.Message }

// Fragment is the result of building a WHERE or HAVING clause list.
type Fragment struct {
	SQL    string
	Params []any
}

// BuildWhere translates an ordered list of Conditions into a parameterized
// WHERE fragment per spec.md §4.5.1. An empty conditions list yields an
// empty Fragment; callers decide whether that's acceptable (UPDATE/DELETE
// must reject it).
func BuildWhere(conditions []schema.Condition) (Fragment, error) {
	return buildConditionList(conditions, false)
}

// BuildHaving translates an ordered list of Conditions into a parameterized
// HAVING fragment per spec.md §4.5.2, additionally supporting an aggregate
// function per condition. selectAliases is the set of SELECT-list aliases
// the caller has established; a bare column reference matching an alias is
// emitted unqualified.
func BuildHaving(conditions []schema.Condition, selectAliases map[string]bool) (Fragment, error) {
	return buildConditionListWithAliases(conditions, true, selectAliases)
}

func buildConditionList(conditions []schema.Condition, having bool) (Fragment, error) {
	return buildConditionListWithAliases(conditions, having, nil)
}

func buildConditionListWithAliases(conditions []schema.Condition, having bool, selectAliases map[string]bool) (Fragment, error) {
	var sb strings.Builder
	var params []any

	for i, c := range conditions {
		op := strings.ToUpper(strings.TrimSpace(c.Operator))
		if !IsWhitelistedOperator(op) {
			return Fragment{}, &ClauseError{Message: fmt.Sprintf("operator %q is not permitted", c.Operator)}
		}

		var term string
		var err error
		if having {
			term, err = havingTerm(c, selectAliases)
		} else {
			term, err = whereTerm(c)
		}
		if err != nil {
			return Fragment{}, err
		}

		if i > 0 {
			connector := strings.ToUpper(strings.TrimSpace(c.Connector))
			if connector == "" {
				connector = "AND"
			}
			if connector != "AND" && connector != "OR" {
				return Fragment{}, &ClauseError{Message: fmt.Sprintf("connector %q is not permitted", c.Connector)}
			}
			sb.WriteString(" ")
			sb.WriteString(connector)
			sb.WriteString(" ")
		}

		if op == "IS NULL" || op == "IS NOT NULL" {
			sb.WriteString(fmt.Sprintf("%s %s", term, op))
			// Any supplied value is ignored for null-check operators; the
			// caller is not rejected, merely not given a placeholder.
			continue
		}

		sb.WriteString(fmt.Sprintf("%s %s ?", term, op))
		params = append(params, c.Value)
	}

	return Fragment{SQL: sb.String(), Params: params}, nil
}

// whereTerm sanitizes a column reference, quoting both sides independently
// if it is qualified with a single '.'.
func whereTerm(c schema.Condition) (string, error) {
	return quoteColumnRef(c.ColumnRef)
}

func quoteColumnRef(raw string) (string, error) {
	if idx := strings.IndexByte(raw, '.'); idx >= 0 {
		qualifier, rest := raw[:idx], raw[idx+1:]
		q, ok1 := sanitize.Sanitize(qualifier, sanitize.ColumnContext)
		l, ok2 := sanitize.Sanitize(rest, sanitize.ColumnContext)
		if !ok1 || !ok2 {
			return "", &ClauseError{Message: fmt.Sprintf("column reference %q could not be sanitized", raw)}
		}
		return q.Quoted() + "." + l.Quoted(), nil
	}
	id, ok := sanitize.Sanitize(raw, sanitize.ColumnContext)
	if !ok {
		return "", &ClauseError{Message: fmt.Sprintf("column reference %q could not be sanitized", raw)}
	}
	return id.Quoted(), nil
}

// havingTerm handles the §4.5.2 aggregate-function extension.
func havingTerm(c schema.Condition, selectAliases map[string]bool) (string, error) {
	fn := strings.ToUpper(strings.TrimSpace(c.Func))
	if fn == "" {
		if selectAliases != nil && selectAliases[c.ColumnRef] {
			id, ok := sanitize.Sanitize(c.ColumnRef, sanitize.ColumnContext)
			if !ok {
				return "", &ClauseError{Message: fmt.Sprintf("alias %q could not be sanitized", c.ColumnRef)}
			}
			return id.Quoted(), nil
		}
		return quoteColumnRef(c.ColumnRef)
	}
	if !aggregateFuncs[fn] {
		return "", &ClauseError{Message: fmt.Sprintf("aggregate function %q is not permitted", c.Func)}
	}
	if c.ColumnRef == "*" {
		if fn != "COUNT" {
			return "", &ClauseError{Message: "column '*' is only legal with COUNT"}
		}
		return fmt.Sprintf("%s(*)", fn), nil
	}
	target, err := quoteColumnRef(c.ColumnRef)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s(%s)", fn, target), nil
}
