package middleware

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/care-roster/internal"
)

// RequirePermissions allows the request through when the principal holds any
// of the listed permission keys. Services still re-check: route guards are
// coarse, record-level decisions live in the service layer.
func RequirePermissions(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := internal.UserFromContext(r.Context())
			if !ok || user == nil {
				writeUnauthorized(w, "authentication required")
				return
			}

			if !user.HasAnyPermission(permissions...) {
				slog.Warn("access denied: missing permission",
					"user_id", user.ID,
					"required", permissions)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				w.Write([]byte(`{"code":403,"message":"insufficient permissions"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
