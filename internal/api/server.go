package api

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/skeema/normalizeworkbench/internal/apierr"
	"github.com/skeema/normalizeworkbench/internal/dbexec"
)

// Server holds the dependencies every handler needs: the connection
// factory and a logger, grounded on the teacher's general pattern of a
// single long-lived Instance/connection pool handed to every operation
// (tengo/instance.go), adapted here to an HTTP handler receiver instead of
// a CLI command.
type Server struct {
	Executor dbexec.Executor
	Log      *log.Logger
}

// NewServer wires the nine endpoints of spec.md §6 onto a ServeMux using
// Go 1.22's method+pattern routing, with a CORS wrapper around the whole
// mux since the canvas UI is served from a different origin.
func NewServer(ex dbexec.Executor, logger *log.Logger) http.Handler {
	s := &Server{Executor: ex, Log: logger}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /schema", s.handleSchemaApply)
	mux.HandleFunc("GET /current_schema", s.handleCurrentSchema)
	mux.HandleFunc("GET /tables", s.handleTables)
	mux.HandleFunc("GET /table_details/{name}", s.handleTableDetails)
	mux.HandleFunc("POST /execute_select", s.handleExecuteSelect)
	mux.HandleFunc("POST /execute_dml", s.handleExecuteDML)
	mux.HandleFunc("POST /analyze_normalization", s.handleAnalyzeNormalization)
	mux.HandleFunc("POST /decompose/3nf", s.handleDecompose3NF)
	mux.HandleFunc("POST /decompose/bcnf", s.handleDecomposeBCNF)
	mux.HandleFunc("POST /save_decomposition", s.handleSaveDecomposition)

	return withCORS(withRequestLog(mux, logger))
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func withRequestLog(next http.Handler, logger *log.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if logger != nil {
			logger.WithField("method", r.Method).WithField("path", r.URL.Path).Debug("handling request")
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// writeError renders err as the uniform {error, kind?} envelope of
// spec.md §6, choosing the status code from apierr.Error.HTTPStatus when
// err classifies as one, or 500 otherwise.
func writeError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*apierr.Error); ok {
		writeJSON(w, apiErr.HTTPStatus(), errorEnvelope{Error: apiErr.Error(), Kind: string(apiErr.Kind)})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorEnvelope{Error: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apierr.Wrap(apierr.KindInputValidation, "malformed request body", err)
	}
	return nil
}
