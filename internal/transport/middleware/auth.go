package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/care-roster/internal"
	"github.com/frahmantamala/care-roster/internal/auth"
	"github.com/frahmantamala/care-roster/pkg/logger"
)

// Authenticate validates the bearer token and attaches the resolved
// principal (user, roles, effective permissions) to the request context.
// Everything behind this middleware can assume internal.UserFromContext
// succeeds.
func Authenticate(svc auth.ServiceAPI, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeUnauthorized(w, "authentication required")
				return
			}

			claims, err := svc.ValidateAccessToken(token)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			userID, err := strconv.ParseInt(claims.UserID, 10, 64)
			if err != nil {
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			user, err := svc.GetUserWithPermissions(userID)
			if err != nil {
				log.Warn("token valid but principal lookup failed", "user_id", userID, "error", err)
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := internal.ContextWithUser(r.Context(), user)
			ctx = logger.With(ctx, "user_id", user.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return header[len(prefix):]
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	w.Write([]byte(`{"code":401,"message":"` + message + `"}`))
}
