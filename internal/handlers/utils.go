package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"asset-library/internal/assettypes"
	"asset-library/internal/library"
	"asset-library/internal/logging"
)

// maxJSONBody bounds request bodies that carry paths and names.
const maxJSONBody = 1 << 20

// writeJSON encodes v as JSON and writes it to the response writer.
// Any encoding or write errors are logged since we typically cannot
// recover from them in an HTTP handler context.
func writeJSON(w http.ResponseWriter, v interface{}) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error("failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes an error response as JSON with the given status code.
func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, map[string]string{"error": message})
}

// writeJSONStatus writes v with the given status code.
func writeJSONStatus(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	writeJSON(w, v)
}

// writeResult writes a structured result. Failures get 422 so that clients
// which only look at the status line still notice them.
func writeResult(w http.ResponseWriter, res library.Result, v interface{}) {
	status := http.StatusOK
	if !res.Success && !res.Canceled {
		status = http.StatusUnprocessableEntity
	}
	writeJSONStatus(w, status, v)
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeJSONError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// kindVar parses the {kind} route variable, writing 404 for unknown kinds.
func kindVar(w http.ResponseWriter, r *http.Request) (assettypes.Kind, bool) {
	kind, err := assettypes.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusNotFound)
		return "", false
	}
	return kind, true
}

// errorStatus maps a library error onto an HTTP status.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, assettypes.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, assettypes.ErrCanceled):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}
