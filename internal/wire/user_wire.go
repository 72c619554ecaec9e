package wire

import (
	"account-service/internal/adaptor"
	"account-service/internal/data/repository"
	"account-service/pkg/middleware"
	"account-service/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// wireUser configures the protected /users/me surface
func wireUser(
	r chi.Router,
	handler *adaptor.Handler,
	repo *repository.Repository,
	rdb *redis.Client,
	tokens *utils.TokenManager,
	config *utils.Config,
	log *zap.Logger,
) {
	rateLimited := middleware.RateLimit(rdb, config.RateLimit, log)

	r.Route("/users/me", func(r chi.Router) {
		// Every route below resolves the bearer token to a live user
		r.Use(middleware.Auth(tokens, repo.User, log))

		r.Get("/", handler.User.GetMe)
		r.Put("/", handler.User.UpdateMe)
		r.Post("/change-password", handler.Auth.ChangePassword)

		// Starting a change sends an OTP out of band, so it is rate-limited;
		// verifying is bounded by the code TTL instead
		r.With(rateLimited).Post("/email/change/start", handler.User.StartEmailChange)
		r.Post("/email/change/verify", handler.User.VerifyEmailChange)
		r.With(rateLimited).Post("/phone/change/start", handler.User.StartPhoneChange)
		r.Post("/phone/change/verify", handler.User.VerifyPhoneChange)

		r.Post("/terms/consent", handler.User.RecordTermsConsent)
	})
}
