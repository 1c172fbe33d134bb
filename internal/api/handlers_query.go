package api

import (
	"net/http"

	"github.com/skeema/normalizeworkbench/internal/apierr"
	"github.com/skeema/normalizeworkbench/internal/sqlbuild"
)

func (s *Server) handleExecuteSelect(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	frag, err := sqlbuild.BuildSelect(sqlbuild.SelectRequest{
		Select:  selectColumnsFromDTO(req.Select),
		From:    req.From,
		Joins:   joinsFromDTO(req.Joins),
		Where:   conditionsFromDTO(req.Where),
		GroupBy: req.GroupBy,
		Having:  conditionsFromDTO(req.Having),
		OrderBy: orderTermsFromDTO(req.OrderBy),
	})
	if err != nil {
		writeError(w, apierr.Wrap(apierr.KindInputValidation, err.Error(), err))
		return
	}

	cols, rows, err := s.Executor.Query(r.Context(), frag.SQL, frag.Params...)
	if err != nil {
		writeError(w, apierr.FromDatabaseError(err))
		return
	}

	outRows := make([]map[string]any, len(rows))
	for i, row := range rows {
		outRows[i] = row
	}
	writeJSON(w, http.StatusOK, SelectResponse{Columns: cols, Rows: outRows})
}

func (s *Server) handleExecuteDML(w http.ResponseWriter, r *http.Request) {
	var req DMLRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	frag, err := sqlbuild.BuildDML(sqlbuild.DMLRequest{
		Operation: req.Operation,
		Table:     req.Table,
		Values:    req.Values,
		Set:       req.Set,
		Where:     dmlWhereFromDTO(req.Where),
	})
	if err != nil {
		writeError(w, apierr.Wrap(apierr.KindInputValidation, err.Error(), err))
		return
	}

	tx, err := s.Executor.Begin(r.Context())
	if err != nil {
		writeError(w, apierr.FromDatabaseError(err))
		return
	}
	affected, err := tx.Exec(r.Context(), frag.SQL, frag.Params...)
	if err != nil {
		tx.Rollback()
		writeError(w, apierr.FromDatabaseError(err))
		return
	}
	if err := tx.Commit(); err != nil {
		writeError(w, apierr.FromDatabaseError(err))
		return
	}

	writeJSON(w, http.StatusOK, DMLResponse{
		Message:      req.Operation + " succeeded",
		AffectedRows: affected,
	})
}
