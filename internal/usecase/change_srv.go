package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"account-service/internal/data/entity"
	"account-service/internal/data/repository"
	"account-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ChangeService runs the OTP flow for changing a user's email or phone.
// A change only lands after the user proves receipt of a one-time code sent
// to the new address.
type ChangeService interface {
	StartEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) error
	VerifyEmailChange(ctx context.Context, userID uuid.UUID, otp string) error
	StartPhoneChange(ctx context.Context, userID uuid.UUID, newPhone string) error
	VerifyPhoneChange(ctx context.Context, userID uuid.UUID, otp string) error
}

type changeService struct {
	userRepo   repository.UserRepository
	challenges repository.ChallengeStore
	config     *utils.Config
	log        *zap.Logger
}

func NewChangeService(
	userRepo repository.UserRepository,
	challenges repository.ChallengeStore,
	config *utils.Config,
	log *zap.Logger,
) ChangeService {
	return &changeService{
		userRepo:   userRepo,
		challenges: challenges,
		config:     config,
		log:        log,
	}
}

func (s *changeService) StartEmailChange(ctx context.Context, userID uuid.UUID, newEmail string) error {
	return s.startChange(ctx, userID, entity.ChangeKindEmail, newEmail)
}

func (s *changeService) VerifyEmailChange(ctx context.Context, userID uuid.UUID, otp string) error {
	return s.verifyChange(ctx, userID, entity.ChangeKindEmail, otp)
}

func (s *changeService) StartPhoneChange(ctx context.Context, userID uuid.UUID, newPhone string) error {
	return s.startChange(ctx, userID, entity.ChangeKindPhone, newPhone)
}

func (s *changeService) VerifyPhoneChange(ctx context.Context, userID uuid.UUID, otp string) error {
	return s.verifyChange(ctx, userID, entity.ChangeKindPhone, otp)
}

func (s *changeService) startChange(ctx context.Context, userID uuid.UUID, kind entity.ChangeKind, newValue string) error {
	// 1. The new value must not belong to anyone, the requester included
	taken, err := s.valueTaken(ctx, kind, newValue)
	if err != nil {
		s.log.Error("Failed to check value uniqueness",
			zap.Error(err),
			zap.String("kind", string(kind)),
			zap.String("user_id", userID.String()))
		return fmt.Errorf("check %s uniqueness: %w", kind, err)
	}
	if taken {
		if kind == entity.ChangeKindPhone {
			return utils.NewConflict("This phone number is already in use")
		}
		return utils.NewConflict("This email is already in use")
	}

	// 2. Generate code
	otp := utils.GenerateOTP()

	// 3. Store challenge. Save overwrites any earlier challenge of the same
	// kind, so an unconsumed prior code stops working here.
	challenge := &entity.Challenge{OTP: otp}
	if kind == entity.ChangeKindPhone {
		challenge.NewPhone = newValue
	} else {
		challenge.NewEmail = newValue
	}

	ttl := time.Duration(s.config.OTP.ExpiryMinutes) * time.Minute
	if err := s.challenges.Save(ctx, userID, kind, challenge, ttl); err != nil {
		return fmt.Errorf("save challenge: %w", err)
	}

	// 4. Deliver out of band. No email/SMS provider is wired up, so the log
	// line is the delivery channel; the code never appears in the response.
	s.log.Info("OTP issued",
		zap.String("user_id", userID.String()),
		zap.String("kind", string(kind)),
		zap.String("otp", otp),
		zap.Duration("ttl", ttl))

	return nil
}

func (s *changeService) verifyChange(ctx context.Context, userID uuid.UUID, kind entity.ChangeKind, otp string) error {
	// 1. Fetch the challenge. Missing and expired look identical here, and the
	// mismatch below answers with the same message; a caller learns nothing
	// about whether a code exists.
	challenge, err := s.challenges.Get(ctx, userID, kind)
	if err != nil {
		return fmt.Errorf("get challenge: %w", err)
	}
	if challenge == nil {
		s.log.Warn("Verify without live challenge",
			zap.String("user_id", userID.String()),
			zap.String("kind", string(kind)))
		return utils.NewBadRequest("Invalid or expired OTP")
	}

	// 2. Compare codes. A mismatch keeps the challenge alive so the user can
	// retry until it expires or is replaced.
	if challenge.OTP != otp {
		s.log.Warn("OTP mismatch",
			zap.String("user_id", userID.String()),
			zap.String("kind", string(kind)))
		return utils.NewBadRequest("Invalid or expired OTP")
	}

	// 3. Apply the pending value and its verified flag in one write
	newValue := challenge.NewValue(kind)
	if kind == entity.ChangeKindPhone {
		err = s.userRepo.UpdateVerifiedPhone(ctx, userID, newValue)
	} else {
		err = s.userRepo.UpdateVerifiedEmail(ctx, userID, newValue)
	}
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Someone claimed the value between start and verify
			if kind == entity.ChangeKindPhone {
				return utils.NewConflict("This phone number is already in use")
			}
			return utils.NewConflict("This email is already in use")
		}
		s.log.Error("Failed to apply verified change",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("kind", string(kind)))
		return fmt.Errorf("apply %s change: %w", kind, err)
	}

	// 4. Consume the challenge. The delete is not transactional with the
	// update above; two concurrent verifies with the correct code can both
	// pass step 2 and write the same value.
	if err := s.challenges.Delete(ctx, userID, kind); err != nil {
		s.log.Warn("Failed to delete consumed challenge",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("kind", string(kind)))
		// The change already landed; the leftover key expires on its own
	}

	s.log.Info("Contact change verified",
		zap.String("user_id", userID.String()),
		zap.String("kind", string(kind)))

	return nil
}

// valueTaken reports whether any user already holds the value for the field
func (s *changeService) valueTaken(ctx context.Context, kind entity.ChangeKind, value string) (bool, error) {
	var user *entity.User
	var err error

	if kind == entity.ChangeKindPhone {
		user, err = s.userRepo.FindByPhone(ctx, value)
	} else {
		user, err = s.userRepo.FindByEmail(ctx, value)
	}
	if err != nil {
		return false, err
	}

	return user != nil, nil
}
