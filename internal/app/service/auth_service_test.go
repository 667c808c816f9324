package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ddrozdov/storefront-backend/internal/app/repository"
	"github.com/ddrozdov/storefront-backend/internal/db"
	"github.com/ddrozdov/storefront-backend/internal/notification"
	"github.com/ddrozdov/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key"

// captureNotifier records events on a channel so tests can wait for the
// asynchronous dispatch.
type captureNotifier struct {
	events chan notification.Event
	err    error
}

func newCaptureNotifier() *captureNotifier {
	return &captureNotifier{events: make(chan notification.Event, 8)}
}

func (n *captureNotifier) Notify(_ context.Context, event notification.Event) error {
	if n.err != nil {
		return n.err
	}
	n.events <- event
	return nil
}

func (n *captureNotifier) Close() error { return nil }

func setupAuthServiceTest(t *testing.T) (AuthService, *captureNotifier) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	notifier := newCaptureNotifier()
	authService := NewAuthService(userRepo, notifier, testJWTSecret, 15*time.Minute, 7*24*time.Hour)

	return authService, notifier
}

func TestAuthService_Register_Success(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, tokens, err := authService.Register("alice", "alice@example.com", "password123")
	assert.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "alice@example.com", user.Email)

	// The password is stored hashed, never verbatim
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "password123"))

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = authService.Register("bob", "alice@example.com", "password456")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Register_DuplicateUsername(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = authService.Register("alice", "other@example.com", "password456")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAuthService_Register_RequiredFields(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("", "alice@example.com", "password123")
	assert.ErrorIs(t, err, ErrUsernameRequired)

	_, _, err = authService.Register("alice", "", "password123")
	assert.ErrorIs(t, err, ErrEmailRequired)

	_, _, err = authService.Register("alice", "alice@example.com", "")
	assert.ErrorIs(t, err, ErrPasswordRequired)
}

func TestAuthService_Login_Success(t *testing.T) {
	authService, notifier := setupAuthServiceTest(t)

	registered, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	user, tokens, err := authService.Login("alice@example.com", "password123")
	assert.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// The notification is dispatched asynchronously
	select {
	case event := <-notifier.events:
		assert.Equal(t, "login", event.Type)
		assert.Equal(t, registered.ID, event.UserID)
		assert.Contains(t, event.Message, "alice")
	case <-time.After(2 * time.Second):
		t.Fatal("expected a login notification")
	}
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	_, _, err = authService.Login("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	// Unknown email and wrong password yield the same indistinguishable error
	_, _, err := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_NotifierFailureIgnored(t *testing.T) {
	authService, notifier := setupAuthServiceTest(t)

	_, _, err := authService.Register("alice", "alice@example.com", "password123")
	require.NoError(t, err)

	notifier.err = errors.New("broker unavailable")

	user, tokens, err := authService.Login("alice@example.com", "password123")
	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.NotNil(t, tokens)
}
