// ABOUTME: Middleware turning the auth cookie into an Authorization header
// ABOUTME: Cookie values are gzip-compressed then base64-encoded on the wire

package auth

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/calculi-corp/concourse/internal/logger"
)

const AuthCookieName = "ATC-Authorization"

// CSRFTokenHeader carries the token the client obtained at login.
const CSRFTokenHeader = "X-Csrf-Token"

type contextKey int

const csrfRequiredKey contextKey = iota

// CookieSetHandler recovers the bearer token from the auth cookie and injects
// it as the Authorization header, unless one is already present. A cookie
// that fails to decode fails the request; it is never forwarded bare.
type CookieSetHandler struct {
	Handler http.Handler
}

func (h CookieSetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(AuthCookieName)
	if err == nil {
		ctx := context.WithValue(r.Context(), csrfRequiredKey, isCSRFRequired(r))
		r = r.WithContext(ctx)

		if r.Header.Get("Authorization") == "" {
			token, err := decompress(cookie.Value)
			if err != nil {
				logger.Warn("rejecting request with malformed auth cookie: %v", err)
				http.Error(w, "malformed auth cookie", http.StatusBadRequest)
				return
			}
			r.Header.Set("Authorization", token)
		}
	}

	h.Handler.ServeHTTP(w, r)
}

func decompress(value string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return "", fmt.Errorf("failed to decode cookie: %w", err)
	}

	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decompress cookie: %w", err)
	}
	defer func() { _ = gz.Close() }()

	token, err := io.ReadAll(gz)
	if err != nil {
		return "", fmt.Errorf("failed to decompress cookie: %w", err)
	}
	return string(token), nil
}

// Compress is the inverse of the cookie decoding: gzip then base64. The
// client uses it when writing the cookie.
func Compress(token string) (string, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(token)); err != nil {
		return "", fmt.Errorf("failed to compress token: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("failed to compress token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// CSRF tokens are not validated for GET/HEAD/OPTIONS since those do not
// change state.
func isCSRFRequired(r *http.Request) bool {
	return r.Method != http.MethodGet && r.Method != http.MethodHead && r.Method != http.MethodOptions
}

// IsCSRFRequired reports whether the middleware tagged this request as
// needing CSRF validation.
func IsCSRFRequired(r *http.Request) bool {
	required, ok := r.Context().Value(csrfRequiredKey).(bool)
	return ok && required
}
