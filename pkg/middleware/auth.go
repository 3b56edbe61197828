package middleware

import (
	"net/http"

	"court-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Identity is resolved upstream by the auth gateway, which strips and rewrites
// these headers on every request. The core only consumes the result.
const (
	HeaderUserID = "X-User-ID"
	HeaderRole   = "X-User-Role"
)

// Auth requires a resolved user identity on the request.
func Auth(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get(HeaderUserID)
			if rawID == "" {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			userID, err := uuid.Parse(rawID)
			if err != nil {
				logger.Warn("Malformed identity header",
					zap.String("user_id", rawID),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseUnauthorized(w, "Invalid user identity")
				return
			}

			role := r.Header.Get(HeaderRole)
			if role == "" {
				role = "customer"
			}

			ctx := utils.SetUserContext(r.Context(), userID, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Admin requires the admin role on top of Auth.
func Admin(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			if !utils.IsAdminFromContext(r.Context()) {
				logger.Warn("Admin check: non-admin access attempt",
					zap.String("user_id", userID.String()),
					zap.String("path", r.URL.Path),
				)
				utils.ResponseForbidden(w, "Admin access required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
