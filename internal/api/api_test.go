package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/skeema/normalizeworkbench/internal/dbexec"
)

func newTestServer(ex *dbexec.FakeExecutor) http.Handler {
	return NewServer(ex, nil)
}

func doRequest(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandleTables(t *testing.T) {
	ex := dbexec.NewFakeExecutor()
	ex.QueryResponses = []dbexec.FakeQueryResponse{
		{Contains: "information_schema.tables", Columns: []string{"table_name"}, Rows: []dbexec.Row{
			{"table_name": "students"}, {"table_name": "courses"},
		}},
	}
	rec := doRequest(t, newTestServer(ex), http.MethodGet, "/tables", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp TablesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Tables) != 2 || resp.Tables[0] != "students" {
		t.Fatalf("unexpected tables: %v", resp.Tables)
	}
}

func TestHandleTableDetails_NotFound(t *testing.T) {
	ex := dbexec.NewFakeExecutor()
	rec := doRequest(t, newTestServer(ex), http.MethodGet, "/table_details/ghost", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleExecuteSelect_InvalidOperatorIs400(t *testing.T) {
	ex := dbexec.NewFakeExecutor()
	req := SelectRequest{
		Select: []SelectColumnDTO{{Type: "column", Table: "students", Column: "name"}},
		From:   []string{"students"},
		Where:  []ConditionDTO{{Column: "id", Op: "DROP TABLE"}},
	}
	rec := doRequest(t, newTestServer(ex), http.MethodPost, "/execute_select", req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for disallowed operator, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleExecuteSelect_Success(t *testing.T) {
	ex := dbexec.NewFakeExecutor()
	ex.QueryResponses = []dbexec.FakeQueryResponse{
		{Contains: "SELECT", Columns: []string{"name"}, Rows: []dbexec.Row{{"name": "Ada"}}},
	}
	req := SelectRequest{
		Select: []SelectColumnDTO{{Type: "column", Table: "students", Column: "name"}},
		From:   []string{"students"},
		Where:  []ConditionDTO{{Column: "id", Op: "=", Value: 1}},
	}
	rec := doRequest(t, newTestServer(ex), http.MethodPost, "/execute_select", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp SelectResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if len(resp.Rows) != 1 || resp.Rows[0]["name"] != "Ada" {
		t.Fatalf("unexpected rows: %v", resp.Rows)
	}
}

func TestHandleExecuteDML_EmptyWhereOnUpdateIs400(t *testing.T) {
	ex := dbexec.NewFakeExecutor()
	req := DMLRequest{Operation: "UPDATE", Table: "students", Set: map[string]any{"name": "Bea"}}
	rec := doRequest(t, newTestServer(ex), http.MethodPost, "/execute_dml", req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for UPDATE with empty WHERE, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleSchemaApply_UnknownRelationshipTableIdIs400(t *testing.T) {
	ex := dbexec.NewFakeExecutor()
	req := SchemaApplyRequest{
		Tables: []TableDTO{
			{ID: "1", Name: "students", Attributes: []AttributeDTO{{Name: "id", Type: "INT", IsPK: true}}},
		},
		Relationships: []RelationshipDTO{
			{SourceTableID: "1", TargetTableID: "missing"},
		},
	}
	rec := doRequest(t, newTestServer(ex), http.MethodPost, "/schema", req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for a relationship referencing an unknown table ID, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleAnalyzeNormalization_UnknownTableIs404(t *testing.T) {
	ex := dbexec.NewFakeExecutor()
	req := AnalyzeNormalizationRequest{Table: "ghost"}
	rec := doRequest(t, newTestServer(ex), http.MethodPost, "/analyze_normalization", req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleDecompose3NF(t *testing.T) {
	ex := dbexec.NewFakeExecutor()
	req := DecomposeRequest{
		TableName:  "enroll",
		Attributes: []string{"student", "course", "room"},
		ProcessedFDs: []FDDTo{
			{Determinants: []string{"course"}, Dependents: []string{"room"}},
		},
	}
	rec := doRequest(t, newTestServer(ex), http.MethodPost, "/decompose/3nf", req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp DecomposeResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.DecompositionType != "3NF" {
		t.Fatalf("expected 3NF decomposition type, got %q", resp.DecompositionType)
	}
	if len(resp.DecomposedTables) == 0 {
		t.Fatalf("expected at least one decomposed table")
	}
}

func TestCORSPreflight(t *testing.T) {
	ex := dbexec.NewFakeExecutor()
	req := httptest.NewRequest(http.MethodOptions, "/tables", nil)
	rec := httptest.NewRecorder()
	newTestServer(ex).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for CORS preflight, got %d", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Origin"), "*") {
		t.Fatalf("expected CORS header, got %v", rec.Header())
	}
}
