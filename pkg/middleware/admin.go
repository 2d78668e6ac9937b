package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/shashiranjanraj/bazaar/pkg/logger"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// AdminHeader carries the shared secret on catalog-mutating requests.
const AdminHeader = "X-Admin-Secret"

// AdminOnly guards admin routes with a static shared secret.
//
// Fail closed: when no secret is configured every admin request is rejected
// with 503 and a warning is logged per denial. A configured secret is
// compared in constant time; mismatch is 401.
func AdminOnly(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				logger.WithCtx(r.Context()).Warn("admin request denied: no admin secret configured",
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Unavailable(w, "Admin interface is not configured")
				return
			}

			supplied := r.Header.Get(AdminHeader)
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
				response.Unauthorized(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
