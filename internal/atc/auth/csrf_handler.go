// ABOUTME: CSRF validation middleware layered above the cookie handler
// ABOUTME: Mutating requests must present the token minted at login

package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/calculi-corp/concourse/internal/logger"
)

// TokenSource yields the CSRF token a request must present. It is a function
// so the server can rotate tokens without re-wiring handlers.
type TokenSource func(r *http.Request) string

// CSRFValidationHandler rejects mutating requests whose token header does not
// match the expected token. Requests the cookie handler tagged as safe pass
// through untouched.
type CSRFValidationHandler struct {
	Handler http.Handler
	Token   TokenSource
}

func (h CSRFValidationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if IsCSRFRequired(r) {
		expected := h.Token(r)
		presented := r.Header.Get(CSRFTokenHeader)
		if expected == "" || subtle.ConstantTimeCompare([]byte(expected), []byte(presented)) != 1 {
			logger.Warn("rejecting %s %s: bad CSRF token", r.Method, r.URL.Path)
			http.Error(w, "invalid CSRF token", http.StatusForbidden)
			return
		}
	}

	h.Handler.ServeHTTP(w, r)
}
