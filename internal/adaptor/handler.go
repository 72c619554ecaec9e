package adaptor

import (
	"errors"
	"net/http"

	"account-service/internal/usecase"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

type Handler struct {
	Auth *AuthHandler
	User *UserHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Auth: NewAuthHandler(service.Auth, log),
		User: NewUserHandler(service.User, service.Change, log),
	}
}

// respondError is the single translation point from service errors to HTTP.
// Typed AppErrors carry their own status and safe message; everything else
// becomes a generic 500 so internals never leak to clients.
func respondError(w http.ResponseWriter, log *zap.Logger, operation string, err error) {
	var appErr *utils.AppError
	if errors.As(err, &appErr) {
		log.Warn("Request failed: "+operation,
			zap.Int("status", appErr.Status),
			zap.String("message", appErr.Message))
		utils.ResponseJSON(w, appErr.Status, false, appErr.Message, nil, nil)
		return
	}

	log.Error("Failed to "+operation, zap.Error(err))
	utils.ResponseInternalError(w, "Internal server error")
}
