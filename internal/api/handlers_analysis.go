package api

import (
	"net/http"

	"github.com/skeema/normalizeworkbench/internal/apierr"
	"github.com/skeema/normalizeworkbench/internal/decompose"
	"github.com/skeema/normalizeworkbench/internal/normalize"
	"github.com/skeema/normalizeworkbench/internal/orchestrator"
	"github.com/skeema/normalizeworkbench/internal/schema"
)

func (s *Server) handleAnalyzeNormalization(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeNormalizationRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	attrs, err := tableAttributes(r.Context(), s.Executor, req.Table)
	if err != nil {
		writeError(w, err)
		return
	}
	relation, err := tableDTOToRelation(TableDTO{Name: req.Table, Attributes: attrs})
	if err != nil {
		writeError(w, err)
		return
	}

	userFDs := fdSetFromDTO(req.FDs)
	for _, f := range userFDs.List() {
		if !f.Determinants.IsSubsetOf(relation.Universe()) || !f.Dependents.IsSubsetOf(relation.Universe()) {
			writeError(w, apierr.New(apierr.KindFDInconsistency, "functional dependency references an attribute outside the table"))
			return
		}
		if !f.Determinants.Intersect(f.Dependents).IsEmpty() {
			writeError(w, apierr.New(apierr.KindFDInconsistency, "dependent overlaps determinant"))
			return
		}
	}

	report := normalize.Analyze(relation, userFDs)
	writeJSON(w, http.StatusOK, AnalyzeNormalizationResponse{
		OneNF:         formResultToDTO(report.OneNF),
		TwoNF:         formResultToDTO(report.TwoNF),
		ThreeNF:       formResultToDTO(report.ThreeNF),
		BCNF:          formResultToDTO(report.BCNF),
		CandidateKeys: candidateKeysToDTO(report.CandidateKeys),
		Dependencies:  fdsToDTO(report.Dependencies.List()),
	})
}

func decomposeRequestToInputs(req DecomposeRequest) (schema.AttrSet, schema.FDSet) {
	u := attrSetFromNames(req.Attributes)
	f := fdSetFromDTO(req.ProcessedFDs)
	return u, f
}

func (s *Server) handleDecompose3NF(w http.ResponseWriter, r *http.Request) {
	var req DecomposeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, f := decomposeRequestToInputs(req)
	d := decompose.Synthesize3NF(req.TableName, u, f)
	writeJSON(w, http.StatusOK, decompositionToDTO("3NF", req.TableName, d))
}

func (s *Server) handleDecomposeBCNF(w http.ResponseWriter, r *http.Request) {
	var req DecomposeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	u, f := decomposeRequestToInputs(req)
	d, err := decompose.AnalyzeBCNF(req.TableName, u, f)
	if err != nil {
		if bcnfErr, ok := err.(*decompose.BCNFAnalysisError); ok {
			writeError(w, apierr.Wrap(apierr.KindDecompositionInvariant, bcnfErr.Error(), bcnfErr))
			return
		}
		writeError(w, apierr.Wrap(apierr.KindDecompositionInvariant, err.Error(), err))
		return
	}
	writeJSON(w, http.StatusOK, decompositionToDTO("BCNF", req.TableName, d))
}

func (s *Server) handleSaveDecomposition(w http.ResponseWriter, r *http.Request) {
	var req SaveDecompositionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if len(req.DecomposedTables) == 0 {
		writeError(w, apierr.New(apierr.KindInputValidation, "save_decomposition requires at least one decomposed table"))
		return
	}

	attrs, err := tableAttributes(r.Context(), s.Executor, req.OriginalTable)
	if err != nil {
		writeError(w, err)
		return
	}
	types := make(map[string]schema.LogicalType, len(attrs))
	for _, a := range attrs {
		types[a.Name] = schema.ParseLogicalType(a.Type)
	}

	plans := make([]orchestrator.SubSchemaPlan, len(req.DecomposedTables))
	for i, t := range req.DecomposedTables {
		plans[i] = orchestrator.SubSchemaPlan{
			NewTableName: t.NewTableName,
			Attributes:   t.Attributes,
			PrimaryKey:   t.PrimaryKey,
		}
	}

	result, err := orchestrator.ApplyDecomposition(r.Context(), s.Executor, orchestrator.DecompositionRequest{
		OriginalTable:  req.OriginalTable,
		AttributeTypes: types,
		SubSchemas:     plans,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SaveDecompositionResponse{
		Message:              "decomposition applied",
		CreatedTables:        result.CreatedTables,
		DataMigratedTo:       result.DataMigratedTo,
		OriginalTableDropped: result.OriginalTableDropped,
	})
}
