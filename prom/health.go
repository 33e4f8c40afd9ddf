package prom

import (
	"net/http"

	"github.com/helpcomp/ledger-xml-lint/httperror"
)

// HealthHandler reports whether the latest lint run of s succeeded.
func HealthHandler(s *Status) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.Err(); err != nil {
			httperror.Send(w, http.StatusServiceUnavailable, s.path, err)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("OK"))
	}
}
