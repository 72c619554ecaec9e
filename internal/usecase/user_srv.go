package usecase

import (
	"context"
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

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error)
	RecordTermsConsent(ctx context.Context, userID uuid.UUID, version string) error
}

type userService struct {
	userRepo    repository.UserRepository
	consentRepo repository.ConsentRepository
	log         *zap.Logger
}

func NewUserService(
	userRepo repository.UserRepository,
	consentRepo repository.ConsentRepository,
	log *zap.Logger,
) UserService {
	return &userService{
		userRepo:    userRepo,
		consentRepo: consentRepo,
		log:         log,
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, utils.NewNotFound("User not found")
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (us *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *request.UpdateProfileRequest) (*response.UserResponse, error) {
	// 1. Fetch current record
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		us.log.Error("Failed to find user for update", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, utils.NewNotFound("User not found")
	}

	// 2. Apply editable fields. Email and phone are not editable here; those
	// only move through the OTP change flow.
	if req.Name != nil {
		user.Name = *req.Name
	}
	user.UpdatedAt = time.Now()

	if err := us.userRepo.Update(ctx, user); err != nil {
		us.log.Error("Failed to update profile", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("update profile: %w", err)
	}

	us.log.Info("Profile updated", zap.String("user_id", userID.String()))

	resp := response.UserToResponse(user)
	return &resp, nil
}

// RecordTermsConsent appends unconditionally; re-consenting to the same
// version just adds another harmless row.
func (us *userService) RecordTermsConsent(ctx context.Context, userID uuid.UUID, version string) error {
	consent := &entity.TermsConsent{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: time.Now(),
		},
		UserID:  userID,
		Version: version,
	}

	if err := us.consentRepo.Create(ctx, consent); err != nil {
		us.log.Error("Failed to record terms consent",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("version", version))
		return fmt.Errorf("record terms consent: %w", err)
	}

	us.log.Info("Terms consent recorded",
		zap.String("user_id", userID.String()),
		zap.String("version", version))

	return nil
}
