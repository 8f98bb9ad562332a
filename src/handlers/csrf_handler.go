package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/username/finwise/backend/src/logger"
	"github.com/username/finwise/backend/src/utils"
)

const csrfCookieName = "_csrf_token"

// CSRFProtection implements the double-submit pattern with signed
// tokens. Issued tokens carry an HMAC over their random part keyed with
// the server's auth key, so a token forged by a subdomain or injected
// cookie fails validation even when header and cookie agree.
type CSRFProtection struct {
	authKey []byte
}

func NewCSRFProtection(authKey []byte) *CSRFProtection {
	return &CSRFProtection{authKey: authKey}
}

// IssueToken hands out a fresh signed token as both a cookie and a
// response header; clients echo it back in the X-CSRF-Token header on
// mutating requests.
func (p *CSRFProtection) IssueToken(w http.ResponseWriter, r *http.Request) {
	token := p.signToken(generateRandomToken())

	http.SetCookie(w, &http.Cookie{
		Name:     csrfCookieName,
		Value:    token,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
		HttpOnly: true,
		Secure:   false, // behind TLS termination in production
		MaxAge:   3600,
	})

	w.Header().Set("X-CSRF-Token", token)
	utils.SendJSON(w, http.StatusOK, map[string]string{"csrfToken": token})
}

// signToken appends the hex HMAC of the random value. The random part is
// base64 and never contains '.', so the signature split is unambiguous.
func (p *CSRFProtection) signToken(value string) string {
	mac := hmac.New(sha256.New, p.authKey)
	mac.Write([]byte(value))
	return value + "." + hex.EncodeToString(mac.Sum(nil))
}

func (p *CSRFProtection) validToken(token string) bool {
	value, _, found := strings.Cut(token, ".")
	if !found {
		return false
	}
	return hmac.Equal([]byte(p.signToken(value)), []byte(token))
}

// Middleware compares the token from the X-CSRF-Token header with the
// one in the cookie and checks its signature. GET, HEAD and OPTIONS
// requests pass through.
func (p *CSRFProtection) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}

		headerToken := r.Header.Get("X-CSRF-Token")
		cookie, err := r.Cookie(csrfCookieName)

		if headerToken != "" && err == nil && headerToken == cookie.Value && p.validToken(headerToken) {
			next.ServeHTTP(w, r)
			return
		}

		logger.L.Warn("CSRF token validation failed",
			"method", r.Method,
			"path", r.URL.Path,
			"origin", r.Header.Get("Origin"))
		utils.SendJSONError(w, "CSRF token validation failed", http.StatusForbidden)
	})
}
