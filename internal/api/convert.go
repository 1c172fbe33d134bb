package api

import (
	"github.com/skeema/normalizeworkbench/internal/normalize"
	"github.com/skeema/normalizeworkbench/internal/schema"
	"github.com/skeema/normalizeworkbench/internal/sqlbuild"
)

func conditionsFromDTO(cs []ConditionDTO) []schema.Condition {
	out := make([]schema.Condition, len(cs))
	for i, c := range cs {
		out[i] = schema.Condition{
			ColumnRef: c.Column,
			Operator:  c.Op,
			Value:     c.Value,
			HasValue:  c.Value != nil,
			Connector: c.Connector,
			Func:      c.Func,
		}
	}
	return out
}

func selectColumnsFromDTO(cs []SelectColumnDTO) []sqlbuild.SelectColumn {
	out := make([]sqlbuild.SelectColumn, len(cs))
	for i, c := range cs {
		out[i] = sqlbuild.SelectColumn{
			Type:   c.Type,
			Table:  c.Table,
			Column: c.Column,
			Func:   c.Func,
			Alias:  c.Alias,
		}
	}
	return out
}

func joinsFromDTO(js []JoinDTO) []sqlbuild.Join {
	out := make([]sqlbuild.Join, len(js))
	for i, j := range js {
		out[i] = sqlbuild.Join{
			Type:       j.Type,
			LeftTable:  j.LeftTable,
			LeftCol:    j.LeftCol,
			RightTable: j.RightTable,
			RightCol:   j.RightCol,
		}
	}
	return out
}

func orderTermsFromDTO(ts []OrderTermDTO) []sqlbuild.OrderTerm {
	out := make([]sqlbuild.OrderTerm, len(ts))
	for i, t := range ts {
		out[i] = sqlbuild.OrderTerm{Term: t.Term, Direction: t.Direction}
	}
	return out
}

func dmlWhereFromDTO(cs []ConditionDTO) []sqlbuild.WhereCondition {
	out := make([]sqlbuild.WhereCondition, len(cs))
	for i, c := range cs {
		out[i] = sqlbuild.WhereCondition{
			ColumnRef: c.Column,
			Operator:  c.Op,
			Value:     c.Value,
			Connector: c.Connector,
		}
	}
	return out
}

func attrSetFromNames(names []string) schema.AttrSet {
	return schema.NewAttrSet(names...)
}

func fdSetFromDTO(fds []FDDTo) schema.FDSet {
	set := schema.NewFDSet()
	for _, f := range fds {
		set.Add(attrSetFromNames(f.Determinants), attrSetFromNames(f.Dependents))
	}
	return set
}

func fdsToDTO(fds []schema.FD) []FDDTo {
	out := make([]FDDTo, len(fds))
	for i, f := range fds {
		out[i] = FDDTo{Determinants: f.Determinants.Sorted(), Dependents: f.Dependents.Sorted()}
	}
	return out
}

func candidateKeysToDTO(keys []schema.AttrSet) [][]string {
	out := make([][]string, len(keys))
	for i, k := range keys {
		out[i] = k.Sorted()
	}
	return out
}

func violationsToDTO(vs []normalize.Violation) []ViolationDTO {
	out := make([]ViolationDTO, len(vs))
	for i, v := range vs {
		out[i] = ViolationDTO{
			Determinants: v.Determinants.Sorted(),
			Dependents:   v.Dependents.Sorted(),
			Description:  v.Description,
		}
	}
	return out
}

func formResultToDTO(r normalize.FormResult) FormResultDTO {
	return FormResultDTO{
		Status:     string(r.Status),
		Message:    r.Message,
		Violations: violationsToDTO(r.Violations),
	}
}

func decompositionToDTO(kind, originalTable string, d schema.Decomposition) DecomposeResponse {
	tables := make([]SubSchemaDTO, len(d.Tables))
	for i, t := range d.Tables {
		tables[i] = SubSchemaDTO{
			Name:       t.Name.String(),
			Attributes: t.Attributes.Sorted(),
			PrimaryKey: t.PrimaryKey.Sorted(),
		}
	}
	return DecomposeResponse{
		DecompositionType: kind,
		OriginalTable:     originalTable,
		DecomposedTables:  tables,
		LostFDs:           fdsToDTO(d.LostFDs),
	}
}
