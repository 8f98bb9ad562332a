package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestCSRF() *CSRFProtection {
	return NewCSRFProtection([]byte("a-very-secure-32-byte-long-key-must-be-32b"))
}

func csrfProtectedOK(p *CSRFProtection) http.Handler {
	return p.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func TestCSRFMiddlewareAllowsGET(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfProtectedOK(newTestCSRF()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFMiddlewareRejectsPOSTWithoutToken(t *testing.T) {
	rec := httptest.NewRecorder()
	csrfProtectedOK(newTestCSRF()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFMiddlewareAcceptsMatchingSignedTokens(t *testing.T) {
	p := newTestCSRF()
	token := p.signToken("tok-123")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-CSRF-Token", token)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})

	rec := httptest.NewRecorder()
	csrfProtectedOK(p).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCSRFMiddlewareRejectsMismatchedTokens(t *testing.T) {
	p := newTestCSRF()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-CSRF-Token", p.signToken("tok-123"))
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: p.signToken("different")})

	rec := httptest.NewRecorder()
	csrfProtectedOK(p).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFMiddlewareRejectsForgedSignature(t *testing.T) {
	p := newTestCSRF()

	// Header and cookie agree, but the signature was not minted with the
	// server's key.
	forged := "tok-123.deadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeefdeadbeef"
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-CSRF-Token", forged)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: forged})

	rec := httptest.NewRecorder()
	csrfProtectedOK(p).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCSRFMiddlewareRejectsTokenSignedWithOtherKey(t *testing.T) {
	p := newTestCSRF()
	other := NewCSRFProtection([]byte("another-32-byte-key-for-a-second-instance!"))
	token := other.signToken("tok-123")

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-CSRF-Token", token)
	req.AddCookie(&http.Cookie{Name: csrfCookieName, Value: token})

	rec := httptest.NewRecorder()
	csrfProtectedOK(p).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestIssueTokenSetsCookieAndHeader(t *testing.T) {
	p := newTestCSRF()
	rec := httptest.NewRecorder()
	p.IssueToken(rec, httptest.NewRequest(http.MethodGet, "/api/auth/csrf", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	issued := rec.Header().Get("X-CSRF-Token")
	assert.NotEmpty(t, issued)
	assert.True(t, p.validToken(issued), "issued tokens must carry a valid signature")

	cookies := rec.Result().Cookies()
	var found bool
	for _, c := range cookies {
		if c.Name == csrfCookieName {
			found = true
			assert.Equal(t, issued, c.Value)
		}
	}
	assert.True(t, found, "CSRF cookie must be set")
}
