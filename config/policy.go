package config

import "net/http"

// SecurityPolicy is every DEV/PROD-dependent security knob, resolved once.
// Components consume it as data instead of branching on DEBUG themselves.
type SecurityPolicy struct {
	CookieSecure     bool
	CookieSameSite   http.SameSite
	CSRFEnabled      bool
	AutoCreateSchema bool
}

// PolicyFor returns the DEV policy when debug is true, PROD otherwise.
func PolicyFor(debug bool) SecurityPolicy {
	if debug {
		return SecurityPolicy{
			CookieSecure:     false,
			CookieSameSite:   http.SameSiteLaxMode,
			CSRFEnabled:      false,
			AutoCreateSchema: true,
		}
	}
	return SecurityPolicy{
		CookieSecure:     true,
		CookieSameSite:   http.SameSiteStrictMode,
		CSRFEnabled:      true,
		AutoCreateSchema: false,
	}
}

// Mode names the policy for logs.
func (p SecurityPolicy) Mode() string {
	if p.AutoCreateSchema {
		return "dev"
	}
	return "prod"
}
