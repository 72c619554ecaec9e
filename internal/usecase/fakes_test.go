package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"account-service/internal/data/entity"
	"account-service/internal/data/repository"

	"github.com/google/uuid"
)

// ---------- fake user repository ----------

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
		if u.Phone != nil && user.Phone != nil && *u.Phone == *user.Phone {
			return repository.ErrDuplicate
		}
	}

	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	clone := *user
	return &clone, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByPhone(_ context.Context, phone string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Phone != nil && *u.Phone == phone {
			clone := *u
			return &clone, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[user.ID]; !ok {
		return fmt.Errorf("user %s not found", user.ID.String())
	}
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(_ context.Context, id uuid.UUID, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	user.LastLogin = &at
	return nil
}

func (f *fakeUserRepo) UpdateVerifiedEmail(_ context.Context, id uuid.UUID, email string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ID != id && u.Email == email {
			return repository.ErrDuplicate
		}
	}

	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	user.Email = email
	user.IsEmailVerified = true
	user.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUserRepo) UpdateVerifiedPhone(_ context.Context, id uuid.UUID, phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.ID != id && u.Phone != nil && *u.Phone == phone {
			return repository.ErrDuplicate
		}
	}

	user, ok := f.users[id]
	if !ok {
		return fmt.Errorf("user %s not found", id.String())
	}
	user.Phone = &phone
	user.IsPhoneVerified = true
	user.UpdatedAt = time.Now()
	return nil
}

// ---------- fake consent repository ----------

type fakeConsentRepo struct {
	mu       sync.Mutex
	consents []*entity.TermsConsent
}

func newFakeConsentRepo() *fakeConsentRepo {
	return &fakeConsentRepo{}
}

func (f *fakeConsentRepo) Create(_ context.Context, consent *entity.TermsConsent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	clone := *consent
	f.consents = append(f.consents, &clone)
	return nil
}

func (f *fakeConsentRepo) HasConsent(_ context.Context, userID uuid.UUID, version string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, c := range f.consents {
		if c.UserID == userID && c.Version == version {
			return true, nil
		}
	}
	return false, nil
}

// ---------- fake challenge store ----------

type storedChallenge struct {
	challenge entity.Challenge
	expiresAt time.Time
}

type fakeChallengeStore struct {
	mu      sync.Mutex
	entries map[string]storedChallenge
}

func newFakeChallengeStore() *fakeChallengeStore {
	return &fakeChallengeStore{entries: make(map[string]storedChallenge)}
}

func (f *fakeChallengeStore) key(userID uuid.UUID, kind entity.ChangeKind) string {
	return fmt.Sprintf("otp:%s:%s", kind, userID.String())
}

func (f *fakeChallengeStore) Save(_ context.Context, userID uuid.UUID, kind entity.ChangeKind, challenge *entity.Challenge, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.entries[f.key(userID, kind)] = storedChallenge{
		challenge: *challenge,
		expiresAt: time.Now().Add(ttl),
	}
	return nil
}

func (f *fakeChallengeStore) Get(_ context.Context, userID uuid.UUID, kind entity.ChangeKind) (*entity.Challenge, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entry, ok := f.entries[f.key(userID, kind)]
	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		delete(f.entries, f.key(userID, kind))
		return nil, nil
	}
	clone := entry.challenge
	return &clone, nil
}

func (f *fakeChallengeStore) Delete(_ context.Context, userID uuid.UUID, kind entity.ChangeKind) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.entries, f.key(userID, kind))
	return nil
}

// expire pushes an entry's deadline into the past
func (f *fakeChallengeStore) expire(userID uuid.UUID, kind entity.ChangeKind) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := f.key(userID, kind)
	if entry, ok := f.entries[key]; ok {
		entry.expiresAt = time.Now().Add(-time.Second)
		f.entries[key] = entry
	}
}

func (f *fakeChallengeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}
