package middleware

import (
	"log"
	"net/http"
	"strings"

	"github.com/indieprop/homestead/config"
	"github.com/indieprop/homestead/server/auth"
	"github.com/indieprop/homestead/server/resp"
	"github.com/indieprop/homestead/server/util"
)

// RequireAuth wraps a downstream handler. At execution time it extracts a
// Bearer token from the Authorization header and verifies it against the
// configured signing secret. The resulting principal and a request-scoped
// logger are attached to the request context for downstream handlers.
func RequireAuth(cfg *config.Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(auth.ExtractBearerToken(r.Header.Get("Authorization")))
		if token == "" {
			resp.WriteUnauthorized(w, "an access token is required")
			return
		}

		principal, err := auth.VerifyAccessToken(cfg, token)
		if err != nil {
			if cfg.Debug {
				log.Printf("debug: token failed validation: %v", err)
			}

			resp.WriteForbidden(w, "token validation failed")
			return
		}

		rl := util.WithRequest(log.Default(), r, principal.Subject)
		ctx := util.ContextWithLogger(r.Context(), rl)
		next.ServeHTTP(w, r.WithContext(auth.AddPrincipal(ctx, principal)))
	})
}

// WithRequestLog attaches a request-scoped logger for unauthenticated routes.
func WithRequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rl := util.WithRequest(log.Default(), r, "")
		next.ServeHTTP(w, r.WithContext(util.ContextWithLogger(r.Context(), rl)))
	})
}
