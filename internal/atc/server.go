// ABOUTME: HTTP server wiring the auth middleware chain around the API mux
// ABOUTME: Serves the event stream endpoint and the session probe endpoint

package atc

import (
	"encoding/json"
	"net/http"

	"github.com/calculi-corp/concourse/internal/api"
	"github.com/calculi-corp/concourse/internal/atc/auth"
	"github.com/calculi-corp/concourse/internal/eventstream"
	"github.com/calculi-corp/concourse/internal/logger"
)

type Server struct {
	mux *http.ServeMux
}

// NewHandler builds the handler chain: cookie decompression outermost, then
// CSRF validation, then the API mux.
func NewHandler(csrfToken string, stream *eventstream.Server) http.Handler {
	s := &Server{mux: http.NewServeMux()}

	s.mux.Handle("/api/v1/events", stream)
	s.mux.HandleFunc("/api/v1/user", s.handleUser)

	return auth.CookieSetHandler{
		Handler: auth.CSRFValidationHandler{
			Handler: s.mux,
			Token:   func(*http.Request) string { return csrfToken },
		},
	}
}

// handleUser answers the session probe: 401 when no credential made it
// through the middleware, a stub identity otherwise.
func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	if r.Header.Get("Authorization") == "" {
		http.Error(w, "not authorized", http.StatusUnauthorized)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(api.User{
		ID:       "local",
		UserName: "local",
		Name:     "local user",
		Teams:    map[string][]string{"main": {"owner"}},
	})
	if err != nil {
		logger.Error("failed to encode user: %v", err)
	}
}
