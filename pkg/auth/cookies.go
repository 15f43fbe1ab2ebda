package auth

import (
	"net/http"
	"time"

	"github.com/shashiranjanraj/marketplace/config"
)

// Cookie names.
const (
	AccessCookie   = "access_token"
	RefreshCookie  = "refresh_token"
	CSRFCookie     = "csrf_access_token"
	LoggedInCookie = "logged_in"

	CSRFHeader = "X-CSRF-Token"
)

// SetSessionCookies writes the token cookies for pair under policy p.
// Token cookies are HttpOnly; the CSRF and logged_in cookies are readable
// by scripts so a frontend can echo and inspect them.
func SetSessionCookies(w http.ResponseWriter, p config.SecurityPolicy, pair TokenPair) {
	http.SetCookie(w, cookie(p, AccessCookie, pair.AccessToken, pair.AccessTTL, true))
	http.SetCookie(w, cookie(p, RefreshCookie, pair.RefreshToken, pair.RefreshTTL, true))
	if p.CSRFEnabled {
		http.SetCookie(w, cookie(p, CSRFCookie, pair.CSRF, pair.AccessTTL, false))
	}
	http.SetCookie(w, cookie(p, LoggedInCookie, "true", time.Hour, false))
}

// ClearSessionCookies expires every session cookie.
func ClearSessionCookies(w http.ResponseWriter, p config.SecurityPolicy) {
	for _, name := range []string{AccessCookie, RefreshCookie, CSRFCookie, LoggedInCookie} {
		c := cookie(p, name, "", 0, name == AccessCookie || name == RefreshCookie)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func cookie(p config.SecurityPolicy, name, value string, ttl time.Duration, httpOnly bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		Secure:   p.CookieSecure,
		HttpOnly: httpOnly,
		SameSite: p.CookieSameSite,
	}
}
