package repository

import (
	"context"
	"fmt"

	"account-service/internal/data/entity"
	"account-service/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ConsentRepository interface {
	Create(ctx context.Context, consent *entity.TermsConsent) error
	HasConsent(ctx context.Context, userID uuid.UUID, version string) (bool, error)
}

type consentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewConsentRepository(db database.PgxIface, log *zap.Logger) ConsentRepository {
	return &consentRepository{
		db:  db,
		log: log.With(zap.String("repository", "consent")),
	}
}

// Create appends a consent row. No uniqueness is enforced; a duplicate consent
// for the same version is a harmless no-op semantically.
func (cr *consentRepository) Create(ctx context.Context, consent *entity.TermsConsent) error {
	query := `
		INSERT INTO terms_consents (id, user_id, version, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := cr.db.Exec(ctx, query,
		consent.ID,
		consent.UserID,
		consent.Version,
		consent.CreatedAt,
	)

	if err != nil {
		cr.log.Error("Failed to create terms consent",
			zap.Error(err),
			zap.String("user_id", consent.UserID.String()),
			zap.String("version", consent.Version),
		)
		return fmt.Errorf("create terms consent for %s: %w", consent.UserID.String(), err)
	}

	return nil
}

func (cr *consentRepository) HasConsent(ctx context.Context, userID uuid.UUID, version string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM terms_consents
			WHERE user_id = $1 AND version = $2
		)
	`

	var exists bool
	err := cr.db.QueryRow(ctx, query, userID, version).Scan(&exists)
	if err != nil {
		cr.log.Error("Failed to check terms consent",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("version", version),
		)
		return false, fmt.Errorf("check terms consent for %s: %w", userID.String(), err)
	}

	return exists, nil
}
