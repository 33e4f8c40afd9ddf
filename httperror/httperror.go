// Package httperror simplifies returning a lint error as JSON from an HTTP handler
package httperror

import (
	"encoding/json"
	"net/http"
)

type jsonError struct {
	Error string `json:"error"`
	Path  string `json:"path,omitempty"`
}

// Send writes err, and the ledger path it relates to, with the given status.
func Send(w http.ResponseWriter, status int, path string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	m := jsonError{Error: err.Error(), Path: path}
	_ = json.NewEncoder(w).Encode(m)
}
