package sqlbuild

import (
	"fmt"
	"strings"

	"github.com/skeema/normalizeworkbench/internal/sanitize"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

// SelectColumn is one entry of the §6 /execute_select request's "select" list.
type SelectColumn struct {
	Type   string // "column" or "aggregate"
	Table  string
	Column string
	Func   string
	Alias  string
}

// Join describes one JOIN clause of the SELECT builder.
type Join struct {
	Type       string // INNER, LEFT, RIGHT
	LeftTable  string
	LeftCol    string
	RightTable string
	RightCol   string
}

// OrderTerm is one ORDER BY entry.
type OrderTerm struct {
	Term      string
	Direction string // ASC or DESC
}

// SelectRequest is the fully structured form of the /execute_select body.
type SelectRequest struct {
	Select  []SelectColumn
	From    []string
	Joins   []Join
	Where   []schema.Condition
	GroupBy []string
	Having  []schema.Condition
	OrderBy []OrderTerm
}

var joinTypes = map[string]bool{"INNER": true, "LEFT": true, "RIGHT": true}

// BuildSelect assembles a parameterized multi-table SELECT statement from a
// SelectRequest, validating table references per spec.md §7 InputValidation
// rules. A SELECT that mixes aggregate and non-aggregated columns is rejected
// when GROUP BY is empty; the GROUP BY terms are not compared against the
// non-aggregated columns. Named in spec.md §1 as
// excluded-but-present plumbing ("a straightforward state machine"); this is
// that state machine, built entirely on the Sanitizer and clause builders.
func BuildSelect(req SelectRequest) (Fragment, error) {
	if len(req.From) == 0 {
		return Fragment{}, &ClauseError{Message: "SELECT requires at least one FROM table"}
	}
	knownTables := make(map[string]bool, len(req.From)+len(req.Joins))
	for _, t := range req.From {
		knownTables[t] = true
	}
	for _, j := range req.Joins {
		knownTables[j.LeftTable] = true
		knownTables[j.RightTable] = true
	}

	selectAliases := make(map[string]bool)
	selectCols := make([]string, 0, len(req.Select))
	hasAggregate := false
	nonAggregatedCols := 0
	for _, sc := range req.Select {
		if sc.Table != "" && !knownTables[sc.Table] {
			return Fragment{}, &ClauseError{Message: fmt.Sprintf("SELECT references table %q absent from FROM/JOIN", sc.Table)}
		}
		var term string
		var err error
		ref := sc.Column
		if sc.Table != "" {
			ref = sc.Table + "." + sc.Column
		}
		if sc.Type == "aggregate" {
			hasAggregate = true
			term, err = havingTerm(schema.Condition{ColumnRef: ref, Func: sc.Func}, nil)
		} else {
			nonAggregatedCols++
			term, err = quoteColumnRef(ref)
		}
		if err != nil {
			return Fragment{}, err
		}
		if sc.Alias != "" {
			alias, ok := sanitize.Sanitize(sc.Alias, sanitize.ColumnContext)
			if !ok {
				return Fragment{}, &ClauseError{Message: fmt.Sprintf("alias %q could not be sanitized", sc.Alias)}
			}
			term += " AS " + alias.Quoted()
			selectAliases[sc.Alias] = true
		}
		selectCols = append(selectCols, term)
	}

	if hasAggregate && nonAggregatedCols > 0 && len(req.GroupBy) == 0 {
		return Fragment{}, &ClauseError{Message: "SELECT mixes aggregate and non-aggregated columns without a GROUP BY"}
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(selectCols, ", "))
	sb.WriteString(" FROM ")
	fromTables := make([]string, len(req.From))
	for i, t := range req.From {
		id, ok := sanitize.Sanitize(t, sanitize.ColumnContext)
		if !ok {
			return Fragment{}, &ClauseError{Message: fmt.Sprintf("table %q could not be sanitized", t)}
		}
		fromTables[i] = id.Quoted()
	}
	sb.WriteString(strings.Join(fromTables, ", "))

	var params []any
	for _, j := range req.Joins {
		jt := strings.ToUpper(strings.TrimSpace(j.Type))
		if jt == "" {
			jt = "INNER"
		}
		if !joinTypes[jt] {
			return Fragment{}, &ClauseError{Message: fmt.Sprintf("join type %q is not permitted", j.Type)}
		}
		rightID, ok := sanitize.Sanitize(j.RightTable, sanitize.ColumnContext)
		if !ok {
			return Fragment{}, &ClauseError{Message: fmt.Sprintf("table %q could not be sanitized", j.RightTable)}
		}
		leftRef, err := quoteColumnRef(j.LeftTable + "." + j.LeftCol)
		if err != nil {
			return Fragment{}, err
		}
		rightRef, err := quoteColumnRef(j.RightTable + "." + j.RightCol)
		if err != nil {
			return Fragment{}, err
		}
		sb.WriteString(fmt.Sprintf(" %s JOIN %s ON %s = %s", jt, rightID.Quoted(), leftRef, rightRef))
	}

	if len(req.Where) > 0 {
		whereFrag, err := BuildWhere(req.Where)
		if err != nil {
			return Fragment{}, err
		}
		if whereFrag.SQL != "" {
			sb.WriteString(" WHERE ")
			sb.WriteString(whereFrag.SQL)
			params = append(params, whereFrag.Params...)
		}
	}

	if len(req.GroupBy) > 0 {
		groupTerms := make([]string, len(req.GroupBy))
		for i, g := range req.GroupBy {
			term, err := quoteColumnRef(g)
			if err != nil {
				return Fragment{}, err
			}
			groupTerms[i] = term
		}
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(groupTerms, ", "))
	} else if hasAggregate && nonAggregatedCols > 0 {
		return Fragment{}, &ClauseError{Message: "GROUP BY required when mixing aggregate and non-aggregated columns"}
	}

	if len(req.Having) > 0 {
		havingFrag, err := BuildHaving(req.Having, selectAliases)
		if err != nil {
			return Fragment{}, err
		}
		if havingFrag.SQL != "" {
			sb.WriteString(" HAVING ")
			sb.WriteString(havingFrag.SQL)
			params = append(params, havingFrag.Params...)
		}
	}

	if len(req.OrderBy) > 0 {
		orderTerms := make([]string, len(req.OrderBy))
		for i, o := range req.OrderBy {
			term, err := quoteColumnRef(o.Term)
			if err != nil {
				return Fragment{}, err
			}
			dir := strings.ToUpper(strings.TrimSpace(o.Direction))
			if dir != "DESC" {
				dir = "ASC"
			}
			orderTerms[i] = term + " " + dir
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(orderTerms, ", "))
	}

	return Fragment{SQL: sb.String(), Params: params}, nil
}
