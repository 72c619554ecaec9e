package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"account-service/internal/data/entity"
	"account-service/internal/data/repository"
	"account-service/internal/dto/request"
	"account-service/internal/dto/response"
	"account-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
	ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error
}

type authService struct {
	userRepo    repository.UserRepository
	consentRepo repository.ConsentRepository
	tokens      *utils.TokenManager
	config      *utils.Config
	log         *zap.Logger
}

func NewAuthService(
	userRepo repository.UserRepository,
	consentRepo repository.ConsentRepository,
	tokens *utils.TokenManager,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		consentRepo: consentRepo,
		tokens:      tokens,
		config:      config,
		log:         log,
	}
}

func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) (*response.AuthResponse, error) {
	// 1. Check email not taken
	existingUser, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existingUser != nil {
		return nil, utils.NewConflict("An account with this email already exists")
	}

	// 2. Hash password
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 3. Create user entity
	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:           req.Email,
		Name:            req.Name,
		PasswordHash:    hashedPassword,
		IsEmailVerified: false,
		IsPhoneVerified: false,
	}

	// 4. Save user. The unique constraint backstops the pre-check above:
	// a concurrent register with the same email surfaces as Conflict, not 500.
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, utils.NewConflict("An account with this email already exists")
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("create user: %w", err)
	}

	// 5. Issue token
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return response.AuthToResponse(user, token, nil), nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Find user by email
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user for login", zap.Error(err), zap.String("email", req.Email))
		return nil, fmt.Errorf("find user: %w", err)
	}

	// 2. Unknown email and wrong password answer identically, so the endpoint
	// cannot be used to probe which emails have accounts
	if user == nil {
		s.log.Warn("Login for unknown email", zap.String("email", req.Email))
		return nil, utils.NewUnauthorized("Invalid email or password")
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Login with wrong password", zap.String("user_id", user.ID.String()))
		return nil, utils.NewUnauthorized("Invalid email or password")
	}

	// 3. Update last login
	now := time.Now()
	if err := s.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn("Failed to update last login",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		// Login still succeeds
	} else {
		user.LastLogin = &now
	}

	// 4. Check consent for the current terms version
	hasConsent, err := s.consentRepo.HasConsent(ctx, user.ID, s.config.Terms.CurrentVersion)
	if err != nil {
		s.log.Error("Failed to check terms consent",
			zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("check terms consent: %w", err)
	}
	needsConsent := !hasConsent

	// 5. Issue token
	token, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.Bool("needs_consent", needsConsent))

	return response.AuthToResponse(user, token, &needsConsent), nil
}

func (s *authService) ChangePassword(ctx context.Context, userID uuid.UUID, req *request.ChangePasswordRequest) error {
	// 1. Re-fetch user; rare, but the account may have vanished since auth
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.log.Error("Failed to find user for password change",
			zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return utils.NewNotFound("User not found")
	}

	// 2. Verify old password
	if !utils.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		s.log.Warn("Password change with wrong old password", zap.String("user_id", userID.String()))
		return utils.NewBadRequest("Incorrect old password")
	}

	// 3. Hash and store new password
	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		s.log.Error("Failed to hash new password", zap.Error(err))
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
		s.log.Error("Failed to update password",
			zap.Error(err), zap.String("user_id", userID.String()))
		return fmt.Errorf("update password: %w", err)
	}

	s.log.Info("Password changed", zap.String("user_id", userID.String()))
	return nil
}
