package middleware

import (
	"net/http"
	"strings"

	"keepsake-backend/pkg/auth"
	"keepsake-backend/pkg/common"

	"go.uber.org/zap"
)

// RequireEditor gates mutating routes behind a bearer token when an
// editor secret is configured. With no secret the scrapbook stays open
// for writing.
func RequireEditor(secret, issuer string, logger *zap.Logger) func(next http.Handler) http.Handler {
	if secret == "" {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	validator, err := auth.NewJWTValidator(auth.JWTConfig{
		SecretKey: secret,
		Issuer:    issuer,
	})
	if err != nil {
		logger.Error("Failed to create editor token validator", zap.Error(err))
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				common.RespondError(w, http.StatusUnauthorized, "Authentication system error")
			})
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				common.RespondError(w, http.StatusUnauthorized, "Missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				common.RespondError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			if _, err := validator.Validate(parts[1]); err != nil {
				logger.Debug("Rejected editor token", zap.Error(err))
				common.RespondError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
