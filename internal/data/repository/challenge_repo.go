package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"account-service/internal/data/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// ChallengeStore holds transient OTP challenges in the ephemeral key-value
// store. At most one live challenge exists per (user, kind): Save overwrites.
// Get returns (nil, nil) for a missing key, whether it expired or was never
// written; callers cannot tell the two apart.
type ChallengeStore interface {
	Save(ctx context.Context, userID uuid.UUID, kind entity.ChangeKind, challenge *entity.Challenge, ttl time.Duration) error
	Get(ctx context.Context, userID uuid.UUID, kind entity.ChangeKind) (*entity.Challenge, error)
	Delete(ctx context.Context, userID uuid.UUID, kind entity.ChangeKind) error
}

type challengeStore struct {
	client *redis.Client
	log    *zap.Logger
}

func NewChallengeStore(client *redis.Client, log *zap.Logger) ChallengeStore {
	return &challengeStore{
		client: client,
		log:    log.With(zap.String("repository", "challenge")),
	}
}

func challengeKey(userID uuid.UUID, kind entity.ChangeKind) string {
	return fmt.Sprintf("otp:%s:%s", kind, userID.String())
}

func (cs *challengeStore) Save(ctx context.Context, userID uuid.UUID, kind entity.ChangeKind, challenge *entity.Challenge, ttl time.Duration) error {
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("marshal challenge: %w", err)
	}

	key := challengeKey(userID, kind)
	if err := cs.client.Set(ctx, key, payload, ttl).Err(); err != nil {
		cs.log.Error("Failed to save challenge",
			zap.Error(err),
			zap.String("key", key),
		)
		return fmt.Errorf("save challenge %s: %w", key, err)
	}

	return nil
}

func (cs *challengeStore) Get(ctx context.Context, userID uuid.UUID, kind entity.ChangeKind) (*entity.Challenge, error) {
	key := challengeKey(userID, kind)

	payload, err := cs.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		cs.log.Error("Failed to get challenge",
			zap.Error(err),
			zap.String("key", key),
		)
		return nil, fmt.Errorf("get challenge %s: %w", key, err)
	}

	var challenge entity.Challenge
	if err := json.Unmarshal([]byte(payload), &challenge); err != nil {
		cs.log.Error("Failed to decode challenge",
			zap.Error(err),
			zap.String("key", key),
		)
		return nil, fmt.Errorf("decode challenge %s: %w", key, err)
	}

	return &challenge, nil
}

func (cs *challengeStore) Delete(ctx context.Context, userID uuid.UUID, kind entity.ChangeKind) error {
	key := challengeKey(userID, kind)

	if err := cs.client.Del(ctx, key).Err(); err != nil {
		cs.log.Error("Failed to delete challenge",
			zap.Error(err),
			zap.String("key", key),
		)
		return fmt.Errorf("delete challenge %s: %w", key, err)
	}

	return nil
}
