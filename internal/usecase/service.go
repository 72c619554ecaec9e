package usecase

import (
	"account-service/internal/data/repository"
	"account-service/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth   AuthService
	User   UserService
	Change ChangeService
}

func NewService(repo *repository.Repository, tokens *utils.TokenManager, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth:   NewAuthService(repo.User, repo.Consent, tokens, config, log),
		User:   NewUserService(repo.User, repo.Consent, log),
		Change: NewChangeService(repo.User, repo.Challenge, config, log),
	}
}
