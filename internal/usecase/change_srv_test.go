package usecase

import (
	"context"
	"net/http"
	"testing"
	"time"

	"account-service/internal/data/entity"
	"account-service/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() *utils.Config {
	return &utils.Config{
		JWT:   utils.JWTConfig{Secret: "test-secret", ExpiryHours: 1},
		OTP:   utils.OTPConfig{ExpiryMinutes: 10, Length: 6},
		Terms: utils.TermsConfig{CurrentVersion: "1.0"},
	}
}

func seedUser(t *testing.T, repo *fakeUserRepo, email string, phone *string) *entity.User {
	t.Helper()

	now := time.Now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		Name:         "Test User",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Phone:        phone,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func newChangeFixture(t *testing.T) (ChangeService, *fakeUserRepo, *fakeChallengeStore) {
	t.Helper()

	users := newFakeUserRepo()
	challenges := newFakeChallengeStore()
	svc := NewChangeService(users, challenges, testConfig(), zap.NewNop())
	return svc, users, challenges
}

func requireAppError(t *testing.T, err error, status int) *utils.AppError {
	t.Helper()

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	require.Equal(t, status, appErr.Status)
	return appErr
}

func TestStartEmailChange_CreatesChallenge(t *testing.T) {
	svc, users, challenges := newChangeFixture(t)
	user := seedUser(t, users, "old@example.com", nil)

	err := svc.StartEmailChange(context.Background(), user.ID, "new@example.com")
	require.NoError(t, err)

	challenge, err := challenges.Get(context.Background(), user.ID, entity.ChangeKindEmail)
	require.NoError(t, err)
	require.NotNil(t, challenge)
	assert.Len(t, challenge.OTP, 6)
	assert.Equal(t, "new@example.com", challenge.NewEmail)
	assert.Empty(t, challenge.NewPhone)

	// Nothing changed on the user yet
	stored, err := users.FindByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "old@example.com", stored.Email)
	assert.False(t, stored.IsEmailVerified)
}

func TestStartEmailChange_ConflictLeavesNoChallenge(t *testing.T) {
	svc, users, challenges := newChangeFixture(t)
	user := seedUser(t, users, "me@example.com", nil)
	seedUser(t, users, "taken@example.com", nil)

	err := svc.StartEmailChange(context.Background(), user.ID, "taken@example.com")
	requireAppError(t, err, http.StatusConflict)
	assert.Zero(t, challenges.count())

	// With no challenge, any verify attempt fails the same way
	err = svc.VerifyEmailChange(context.Background(), user.ID, "123456")
	requireAppError(t, err, http.StatusBadRequest)
}

func TestVerifyEmailChange_WrongCodeThenCorrect(t *testing.T) {
	svc, users, challenges := newChangeFixture(t)
	user := seedUser(t, users, "old@example.com", nil)

	require.NoError(t, svc.StartEmailChange(context.Background(), user.ID, "new@example.com"))

	challenge, err := challenges.Get(context.Background(), user.ID, entity.ChangeKindEmail)
	require.NoError(t, err)
	require.NotNil(t, challenge)

	wrongCode := "000000"
	if challenge.OTP == wrongCode {
		wrongCode = "111111"
	}

	// Wrong code fails and leaves everything in place
	err = svc.VerifyEmailChange(context.Background(), user.ID, wrongCode)
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, "Invalid or expired OTP", appErr.Message)

	stored, _ := users.FindByID(context.Background(), user.ID)
	assert.Equal(t, "old@example.com", stored.Email)
	assert.Equal(t, 1, challenges.count(), "challenge must survive a mismatch")

	// Correct code now succeeds
	require.NoError(t, svc.VerifyEmailChange(context.Background(), user.ID, challenge.OTP))

	stored, _ = users.FindByID(context.Background(), user.ID)
	assert.Equal(t, "new@example.com", stored.Email)
	assert.True(t, stored.IsEmailVerified)
	assert.Zero(t, challenges.count(), "challenge is single-use on success")
}

func TestVerifyEmailChange_NoChallengeAndExpiredLookIdentical(t *testing.T) {
	svc, users, challenges := newChangeFixture(t)
	user := seedUser(t, users, "old@example.com", nil)

	// Never started
	err := svc.VerifyEmailChange(context.Background(), user.ID, "123456")
	neverStarted := requireAppError(t, err, http.StatusBadRequest)

	// Started but expired
	require.NoError(t, svc.StartEmailChange(context.Background(), user.ID, "new@example.com"))
	challenge, _ := challenges.Get(context.Background(), user.ID, entity.ChangeKindEmail)
	challenges.expire(user.ID, entity.ChangeKindEmail)

	err = svc.VerifyEmailChange(context.Background(), user.ID, challenge.OTP)
	expired := requireAppError(t, err, http.StatusBadRequest)

	assert.Equal(t, neverStarted.Message, expired.Message)

	stored, _ := users.FindByID(context.Background(), user.ID)
	assert.Equal(t, "old@example.com", stored.Email)
}

func TestStartEmailChange_SecondStartInvalidatesFirstCode(t *testing.T) {
	svc, users, challenges := newChangeFixture(t)
	user := seedUser(t, users, "old@example.com", nil)

	require.NoError(t, svc.StartEmailChange(context.Background(), user.ID, "first@example.com"))
	first, _ := challenges.Get(context.Background(), user.ID, entity.ChangeKindEmail)
	require.NotNil(t, first)

	require.NoError(t, svc.StartEmailChange(context.Background(), user.ID, "second@example.com"))
	second, _ := challenges.Get(context.Background(), user.ID, entity.ChangeKindEmail)
	require.NotNil(t, second)

	assert.Equal(t, 1, challenges.count(), "restart overwrites, never stacks")
	assert.Equal(t, "second@example.com", second.NewEmail)

	// The first code is dead unless the generator happened to repeat it
	if first.OTP != second.OTP {
		err := svc.VerifyEmailChange(context.Background(), user.ID, first.OTP)
		requireAppError(t, err, http.StatusBadRequest)
	}

	require.NoError(t, svc.VerifyEmailChange(context.Background(), user.ID, second.OTP))

	stored, _ := users.FindByID(context.Background(), user.ID)
	assert.Equal(t, "second@example.com", stored.Email)
}

func TestPhoneChange_FullFlow(t *testing.T) {
	svc, users, challenges := newChangeFixture(t)
	user := seedUser(t, users, "me@example.com", nil)

	require.NoError(t, svc.StartPhoneChange(context.Background(), user.ID, "+6281234567890"))

	challenge, err := challenges.Get(context.Background(), user.ID, entity.ChangeKindPhone)
	require.NoError(t, err)
	require.NotNil(t, challenge)
	assert.Equal(t, "+6281234567890", challenge.NewPhone)
	assert.Empty(t, challenge.NewEmail)

	require.NoError(t, svc.VerifyPhoneChange(context.Background(), user.ID, challenge.OTP))

	stored, _ := users.FindByID(context.Background(), user.ID)
	require.NotNil(t, stored.Phone)
	assert.Equal(t, "+6281234567890", *stored.Phone)
	assert.True(t, stored.IsPhoneVerified)
}

func TestStartPhoneChange_ConflictWithExistingPhone(t *testing.T) {
	svc, users, _ := newChangeFixture(t)
	user := seedUser(t, users, "me@example.com", nil)
	otherPhone := "+6280000000000"
	seedUser(t, users, "other@example.com", &otherPhone)

	err := svc.StartPhoneChange(context.Background(), user.ID, otherPhone)
	requireAppError(t, err, http.StatusConflict)
}

func TestEmailAndPhoneChallenges_AreIndependent(t *testing.T) {
	svc, users, challenges := newChangeFixture(t)
	user := seedUser(t, users, "me@example.com", nil)

	require.NoError(t, svc.StartEmailChange(context.Background(), user.ID, "new@example.com"))
	require.NoError(t, svc.StartPhoneChange(context.Background(), user.ID, "+6281234567890"))

	assert.Equal(t, 2, challenges.count())

	phoneChallenge, _ := challenges.Get(context.Background(), user.ID, entity.ChangeKindPhone)
	require.NoError(t, svc.VerifyPhoneChange(context.Background(), user.ID, phoneChallenge.OTP))

	// Email challenge untouched by the phone verify
	emailChallenge, _ := challenges.Get(context.Background(), user.ID, entity.ChangeKindEmail)
	require.NotNil(t, emailChallenge)
}

func TestVerifyEmailChange_ValueClaimedBetweenStartAndVerify(t *testing.T) {
	svc, users, challenges := newChangeFixture(t)
	user := seedUser(t, users, "me@example.com", nil)

	require.NoError(t, svc.StartEmailChange(context.Background(), user.ID, "disputed@example.com"))
	challenge, _ := challenges.Get(context.Background(), user.ID, entity.ChangeKindEmail)

	// Another account grabs the address while the code is in flight
	seedUser(t, users, "disputed@example.com", nil)

	err := svc.VerifyEmailChange(context.Background(), user.ID, challenge.OTP)
	requireAppError(t, err, http.StatusConflict)

	stored, _ := users.FindByID(context.Background(), user.ID)
	assert.Equal(t, "me@example.com", stored.Email)
}
