package auth

import (
	"crypto/subtle"
	"net/http"
)

// SafeMethod reports whether method cannot change state and so needs no
// CSRF check.
func SafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// CSRFValid is the double-submit check: the X-CSRF-Token header must equal
// the csrf claim of the cookie-borne token.
func CSRFValid(r *http.Request, claim string) bool {
	header := r.Header.Get(CSRFHeader)
	if header == "" || claim == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(claim)) == 1
}

// TokenFromRequest returns the bearer token if present, otherwise the
// value of the named cookie. fromCookie tells the caller whether the CSRF
// check applies.
func TokenFromRequest(r *http.Request, cookieName string) (token string, fromCookie bool) {
	if h := r.Header.Get("Authorization"); len(h) > 7 && (h[:7] == "Bearer " || h[:7] == "bearer ") {
		return h[7:], false
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}
