package middleware

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/marketplace/config"
	"github.com/shashiranjanraj/marketplace/pkg/auth"
	"github.com/shashiranjanraj/marketplace/pkg/logger"
	"github.com/shashiranjanraj/marketplace/pkg/response"
)

// IdentityResolver turns verified claims into the caller's identity, e.g.
// by checking that the user still exists and is active.
type IdentityResolver interface {
	Resolve(ctx context.Context, claims *auth.Claims) (auth.Identity, error)
}

// Auth verifies the access token from the Authorization header or the
// access_token cookie and stores the resolved identity in the request
// context. Cookie-borne tokens on unsafe methods must also pass the CSRF
// double-submit check when the policy enables it.
func Auth(tokens *auth.Issuer, policy config.SecurityPolicy, resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, fromCookie := auth.TokenFromRequest(r, auth.AccessCookie)
			if raw == "" {
				response.Unauthorized(w, "Not authenticated")
				return
			}

			claims, err := tokens.Verify(raw, auth.TypeAccess)
			if err != nil {
				logger.WithCtx(r.Context()).Debug("token rejected", "error", err.Error())
				response.Unauthorized(w, "Invalid or expired token")
				return
			}

			if fromCookie && policy.CSRFEnabled && !auth.SafeMethod(r.Method) && !auth.CSRFValid(r, claims.CSRF) {
				response.Unauthorized(w, "CSRF token missing or invalid")
				return
			}

			id, err := resolver.Resolve(r.Context(), claims)
			if err != nil {
				response.Fail(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	}
}
