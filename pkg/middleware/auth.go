package middleware

import (
	"net/http"
	"strings"

	"account-service/internal/data/repository"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

// Auth validates the bearer token and resolves it to a live user record.
// The user row is re-fetched on every request so a deleted account is locked
// out even while its token is still unexpired.
func Auth(tokens *utils.TokenManager, userRepo repository.UserRepository, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Not authorized, no token")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			claims, err := tokens.Parse(parts[1])
			if err != nil {
				logger.Warn("Token verification failed", zap.Error(err))
				utils.ResponseUnauthorized(w, "Not authorized, token failed")
				return
			}

			userID, err := utils.ParseUUID(claims.ID)
			if err != nil {
				logger.Warn("Token carries malformed user id", zap.String("id", claims.ID))
				utils.ResponseUnauthorized(w, "Not authorized, token failed")
				return
			}

			user, err := userRepo.FindByID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to resolve token user",
					zap.Error(err), zap.String("user_id", userID.String()))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}
			if user == nil {
				utils.ResponseUnauthorized(w, "Not authorized, user not found")
				return
			}

			ctx := utils.SetUserContext(r.Context(), user.ID, user.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
