package repository

import (
	"account-service/pkg/database"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Repository struct {
	User      UserRepository
	Consent   ConsentRepository
	Challenge ChallengeStore
}

func NewRepository(db database.PgxIface, rdb *redis.Client, log *zap.Logger) *Repository {
	return &Repository{
		User:      NewUserRepository(db, log),
		Consent:   NewConsentRepository(db, log),
		Challenge: NewChallengeStore(rdb, log),
	}
}
