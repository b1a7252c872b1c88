// ABOUTME: Unit tests for the auth cookie and CSRF middleware
// ABOUTME: Uses httptest to drive the full handler chain

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCookieRoundTrip(t *testing.T) {
	encoded, err := Compress("Bearer some-token")
	require.NoError(t, err)

	var seen string
	handler := CookieSetHandler{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	})}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: encoded})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Bearer some-token", seen)
}

func TestCookieDoesNotOverrideExistingAuthorization(t *testing.T) {
	encoded, err := Compress("Bearer from-cookie")
	require.NoError(t, err)

	var seen string
	handler := CookieSetHandler{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Get("Authorization")
	})}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
	r.Header.Set("Authorization", "Bearer explicit")
	r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: encoded})
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.Equal(t, "Bearer explicit", seen)
}

func TestMalformedCookieFailsTheRequest(t *testing.T) {
	cases := map[string]string{
		"not base64":         "!!!not-base64!!!",
		"base64 but no gzip": "aGVsbG8gd29ybGQ=",
	}
	for name, value := range cases {
		t.Run(name, func(t *testing.T) {
			var reached bool
			handler := CookieSetHandler{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
			})}

			r := httptest.NewRequest(http.MethodGet, "/api/v1/user", nil)
			r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: value})
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.False(t, reached, "a malformed cookie must never be forwarded")
		})
	}
}

func TestNoCookiePassesThrough(t *testing.T) {
	var reached bool
	handler := CookieSetHandler{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.False(t, IsCSRFRequired(r))
	})}

	r := httptest.NewRequest(http.MethodPost, "/api/v1/builds", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, r)

	assert.True(t, reached)
}

func TestCSRFRequiredByMethod(t *testing.T) {
	encoded, err := Compress("Bearer t")
	require.NoError(t, err)

	expectations := map[string]bool{
		http.MethodGet:     false,
		http.MethodHead:    false,
		http.MethodOptions: false,
		http.MethodPost:    true,
		http.MethodPut:     true,
		http.MethodDelete:  true,
		http.MethodPatch:   true,
	}

	for method, want := range expectations {
		t.Run(method, func(t *testing.T) {
			var got bool
			handler := CookieSetHandler{Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = IsCSRFRequired(r)
			})}

			r := httptest.NewRequest(method, "/api/v1/pipelines", nil)
			r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: encoded})
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, want, got)
		})
	}
}

func TestCSRFValidation(t *testing.T) {
	encoded, err := Compress("Bearer t")
	require.NoError(t, err)

	var reached bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	})
	handler := CookieSetHandler{Handler: CSRFValidationHandler{
		Handler: inner,
		Token:   func(*http.Request) string { return "expected-token" },
	}}

	send := func(method, token string) *httptest.ResponseRecorder {
		reached = false
		r := httptest.NewRequest(method, "/api/v1/teams/main/pipelines/p/pause", nil)
		r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: encoded})
		if token != "" {
			r.Header.Set(CSRFTokenHeader, token)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w
	}

	w := send(http.MethodPut, "expected-token")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)

	w = send(http.MethodPut, "wrong-token")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, reached)

	w = send(http.MethodPut, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// safe methods skip validation entirely
	w = send(http.MethodGet, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, reached)
}
