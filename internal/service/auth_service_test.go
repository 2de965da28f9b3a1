package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/encenape/event-service/internal/auth"
	"github.com/encenape/event-service/internal/clock"
	"github.com/encenape/event-service/internal/config"
	"github.com/encenape/event-service/internal/domain"
	"github.com/encenape/event-service/internal/events"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

func newAuthServiceForTest(t *testing.T, users *fakeUserRepo, resets *fakeResetRepo, clk clock.Clock) (*AuthService, *[]string) {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher()

	var issuedTokens []string
	dispatcher.Subscribe(events.EventPasswordResetRequested, func(_ context.Context, e events.Event) error {
		if payload, ok := e.Payload.(events.PasswordResetRequestedPayload); ok {
			issuedTokens = append(issuedTokens, payload.Token)
		}
		return nil
	})

	svc := NewAuthService(AuthDependencies{
		UserRepo:   users,
		ResetRepo:  resets,
		Tokens:     auth.NewTokenManager("test-secret", 60),
		Dispatcher: dispatcher,
		Clock:      clk,
		Config: config.AuthConfig{
			JWTSecret:               "test-secret",
			AccessTokenTTLMinutes:   60,
			PasswordResetTTLMinutes: 60,
			BcryptCost:              4,
		},
		Logger: zap.NewNop(),
	})
	return svc, &issuedTokens
}

func registeredUser(t *testing.T, svc *AuthService) *domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), "Maria", "maria@example.com", "senha123")
	require.NoError(t, err)
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, newFakeUserRepo(), newFakeResetRepo(), clock.NewFixed(testNow))
	user := registeredUser(t, svc)

	assert.Equal(t, []domain.Role{domain.RoleUser}, user.Roles)
	assert.True(t, user.Active)
	assert.NotEqual(t, "senha123", user.PasswordHash)

	result, err := svc.Login(context.Background(), "Maria@Example.com", "senha123")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, user.ID, result.User.ID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, newFakeUserRepo(), newFakeResetRepo(), clock.NewFixed(testNow))
	registeredUser(t, svc)

	_, err := svc.Register(context.Background(), "Outro", "maria@example.com", "outrasenha")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, newFakeUserRepo(), newFakeResetRepo(), clock.NewFixed(testNow))
	registeredUser(t, svc)

	_, err := svc.Login(context.Background(), "maria@example.com", "errada")
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", apperrors.ToDomainError(err).Code)
}

func TestLoginUnknownEmailSameErrorAsWrongPassword(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, newFakeUserRepo(), newFakeResetRepo(), clock.NewFixed(testNow))

	_, err := svc.Login(context.Background(), "ninguem@example.com", "qualquer")
	require.Error(t, err)
	assert.Equal(t, "INVALID_CREDENTIALS", apperrors.ToDomainError(err).Code)
}

func TestForgotPasswordUnknownEmailSucceedsSilently(t *testing.T) {
	svc, issued := newAuthServiceForTest(t, newFakeUserRepo(), newFakeResetRepo(), clock.NewFixed(testNow))

	err := svc.ForgotPassword(context.Background(), "ninguem@example.com")
	require.NoError(t, err)
	assert.Empty(t, *issued)
}

func TestResetPasswordLifecycle(t *testing.T) {
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	svc, issued := newAuthServiceForTest(t, users, resets, clock.NewFixed(testNow))
	user := registeredUser(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
	require.Len(t, *issued, 1)
	token := (*issued)[0]

	err := svc.ResetPassword(context.Background(), user.Email, token, "novasenha")
	require.NoError(t, err)

	// The new password logs in, the old one does not.
	_, err = svc.Login(context.Background(), user.Email, "novasenha")
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), user.Email, "senha123")
	require.Error(t, err)
}

func TestResetTokenSingleUse(t *testing.T) {
	svc, issued := newAuthServiceForTest(t, newFakeUserRepo(), newFakeResetRepo(), clock.NewFixed(testNow))
	user := registeredUser(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
	token := (*issued)[0]

	require.NoError(t, svc.ResetPassword(context.Background(), user.Email, token, "novasenha"))

	err := svc.ResetPassword(context.Background(), user.Email, token, "outranovasenha")
	require.Error(t, err)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", apperrors.ToDomainError(err).Code)
}

func TestSecondIssueInvalidatesFirstToken(t *testing.T) {
	svc, issued := newAuthServiceForTest(t, newFakeUserRepo(), newFakeResetRepo(), clock.NewFixed(testNow))
	user := registeredUser(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
	require.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
	require.Len(t, *issued, 2)

	first, second := (*issued)[0], (*issued)[1]

	err := svc.ResetPassword(context.Background(), user.Email, first, "novasenha")
	require.Error(t, err)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", apperrors.ToDomainError(err).Code)

	require.NoError(t, svc.ResetPassword(context.Background(), user.Email, second, "novasenha"))
}

func TestResetPasswordExpiredToken(t *testing.T) {
	users := newFakeUserRepo()
	resets := newFakeResetRepo()
	issueClock := clock.NewFixed(testNow)
	svc, issued := newAuthServiceForTest(t, users, resets, issueClock)
	user := registeredUser(t, svc)

	require.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
	token := (*issued)[0]

	// Redeem two hours later, past the one-hour TTL.
	lateSvc, _ := newAuthServiceForTest(t, users, resets, clock.NewFixed(testNow.Add(2*time.Hour)))
	err := lateSvc.ResetPassword(context.Background(), user.Email, token, "novasenha")
	require.Error(t, err)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", apperrors.ToDomainError(err).Code)
}

func TestResetPasswordWrongOwner(t *testing.T) {
	svc, issued := newAuthServiceForTest(t, newFakeUserRepo(), newFakeResetRepo(), clock.NewFixed(testNow))
	user := registeredUser(t, svc)
	_, err := svc.Register(context.Background(), "João", "joao@example.com", "senha456")
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(context.Background(), user.Email))
	token := (*issued)[0]

	err = svc.ResetPassword(context.Background(), "joao@example.com", token, "novasenha")
	require.Error(t, err)
	assert.Equal(t, "INVALID_OR_EXPIRED_TOKEN", apperrors.ToDomainError(err).Code)
}

func TestChangePassword(t *testing.T) {
	svc, _ := newAuthServiceForTest(t, newFakeUserRepo(), newFakeResetRepo(), clock.NewFixed(testNow))
	user := registeredUser(t, svc)

	err := svc.ChangePassword(context.Background(), user, "errada", "novasenha")
	require.Error(t, err)

	err = svc.ChangePassword(context.Background(), user, "senha123", "novasenha")
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), user.Email, "novasenha")
	require.NoError(t, err)
}
