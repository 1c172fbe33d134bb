package api

import (
	"net/http"
	"strings"

	"github.com/skeema/normalizeworkbench/internal/apierr"
	"github.com/skeema/normalizeworkbench/internal/orchestrator"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

func (s *Server) handleSchemaApply(w http.ResponseWriter, r *http.Request) {
	var req SchemaApplyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	byID := make(map[string]schema.Relation, len(req.Tables))
	tables := make([]schema.Relation, 0, len(req.Tables))
	for _, t := range req.Tables {
		relation, err := tableDTOToRelation(t)
		if err != nil {
			writeError(w, err)
			return
		}
		byID[t.ID] = relation
		tables = append(tables, relation)
	}

	relationships := make([]orchestrator.CanvasRelationship, 0, len(req.Relationships))
	for _, rel := range req.Relationships {
		src, ok1 := byID[rel.SourceTableID]
		tgt, ok2 := byID[rel.TargetTableID]
		if !ok1 || !ok2 {
			writeError(w, apierr.New(apierr.KindInputValidation, "relationship references a table ID not present in tables"))
			return
		}
		relationships = append(relationships, orchestrator.CanvasRelationship{
			SourceTable: src.Name.String(),
			TargetTable: tgt.Name.String(),
		})
	}

	existing, err := listTables(r.Context(), s.Executor)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := orchestrator.ApplyCanvas(r.Context(), s.Executor, existing, orchestrator.CanvasRequest{
		Tables:        tables,
		Relationships: relationships,
	}, s.Log)
	if err != nil {
		writeError(w, err)
		return
	}

	status := http.StatusOK
	if len(result.Errors) > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, SchemaApplyResponse{
		CreatedTables:    result.CreatedTables,
		DroppedTables:    result.DroppedTables,
		AddedForeignKeys: result.AddedForeignKeys,
		Errors:           result.Errors,
	})
}

func tableDTOToRelation(t TableDTO) (schema.Relation, error) {
	if strings.TrimSpace(t.Name) == "" {
		return schema.Relation{}, apierr.New(apierr.KindInputValidation, "table name is required")
	}
	attrs := make([]schema.Attribute, len(t.Attributes))
	var pkNames []string
	for i, a := range t.Attributes {
		attrs[i] = schema.Attribute{
			Name:      schema.Identifier(a.Name),
			Type:      schema.ParseLogicalType(a.Type),
			IsPK:      a.IsPK,
			IsNotNull: a.IsNotNull,
			IsUnique:  a.IsUnique,
		}
		if a.IsPK {
			pkNames = append(pkNames, a.Name)
		}
	}
	return schema.Relation{
		Name:       schema.Identifier(t.Name),
		Attributes: attrs,
		PrimaryKey: schema.NewAttrSet(pkNames...),
	}, nil
}

func (s *Server) handleCurrentSchema(w http.ResponseWriter, r *http.Request) {
	resp, err := currentSchema(r.Context(), s.Executor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTables(w http.ResponseWriter, r *http.Request) {
	names, err := listTables(r.Context(), s.Executor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TablesResponse{Tables: names})
}

func (s *Server) handleTableDetails(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	attrs, err := tableAttributes(r.Context(), s.Executor, name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, TableDetailsResponse{TableName: name, Attributes: attrs})
}
