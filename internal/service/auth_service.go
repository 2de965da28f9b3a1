package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/encenape/event-service/internal/auth"
	"github.com/encenape/event-service/internal/clock"
	"github.com/encenape/event-service/internal/config"
	"github.com/encenape/event-service/internal/domain"
	"github.com/encenape/event-service/internal/events"
	"github.com/encenape/event-service/internal/repository"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// AuthService implements registration, login and the password recovery flow.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	clock      clock.Clock
	cfg        config.AuthConfig
	logger     *zap.Logger
}

// AuthDependencies bundles collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	ResetRepo  repository.PasswordResetRepository
	Tokens     *auth.TokenManager
	Dispatcher events.Dispatcher
	Clock      clock.Clock
	Config     config.AuthConfig
	Logger     *zap.Logger
}

// NewAuthService constructs the service.
func NewAuthService(deps AuthDependencies) *AuthService {
	clk := deps.Clock
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.ResetRepo,
		tokens:     deps.Tokens,
		dispatcher: deps.Dispatcher,
		clock:      clk,
		cfg:        deps.Config,
		logger:     deps.Logger,
	}
}

// LoginResult carries the issued token and its subject.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// Register creates a new account with the default role. Email addresses are
// unique across all accounts regardless of status.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	email = normalizeEmail(email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if exists {
		return nil, apperrors.NewConflict("e-mail já cadastrado", nil)
	}

	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Roles:        []domain.Role{domain.RoleUser},
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Login verifies credentials and issues a signed access token. Unknown
// address, wrong password and deactivated account all produce the same
// error so the response never reveals which accounts exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetActiveByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewInvalidCredentials()
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewInvalidCredentials()
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, user.Roles)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ForgotPassword issues a fresh recovery token and mails it to the account
// holder. To avoid account enumeration, an unknown address succeeds silently.
// Issuing a new token invalidates all earlier ones for the same user.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetActiveByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil
		}
		return apperrors.MapError(err)
	}

	plaintext, tokenHash, err := auth.GenerateResetToken()
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	token := &domain.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: s.clock.Now().Add(s.cfg.ResetTokenTTL()),
	}

	err = s.resets.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.resets.InvalidateByUser(txCtx, user.ID); err != nil {
			return err
		}
		return s.resets.Create(txCtx, token)
	})
	if err != nil {
		return apperrors.MapError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type: events.EventPasswordResetRequested,
		Payload: events.PasswordResetRequestedPayload{
			UserName:  user.Name,
			UserEmail: user.Email,
			Token:     plaintext,
		},
	})
	return nil
}

// ResetPassword redeems a recovery token and replaces the password. The
// token must belong to the account named by the email. A token can be
// redeemed at most once; expired and already-used tokens are
// indistinguishable to the caller.
func (s *AuthService) ResetPassword(ctx context.Context, email, plaintext, newPassword string) error {
	user, err := s.users.GetActiveByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("usuário", nil)
		}
		return apperrors.MapError(err)
	}

	record, err := s.resets.GetByTokenHash(ctx, auth.HashResetToken(plaintext))
	if err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewInvalidOrExpiredToken("token inválido")
		}
		return apperrors.MapError(err)
	}
	if record.UserID != user.ID {
		return apperrors.NewInvalidOrExpiredToken("token inválido")
	}
	if !record.Valid(s.clock.Now()) {
		return apperrors.NewInvalidOrExpiredToken("token expirado ou já utilizado")
	}

	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash

	err = s.resets.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.resets.MarkUsed(txCtx, record.ID); err != nil {
			return err
		}
		return s.users.Update(txCtx, user)
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

// ChangePassword replaces the password for an authenticated user after
// verifying the current one.
func (s *AuthService) ChangePassword(ctx context.Context, user *domain.User, currentPassword, newPassword string) error {
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return apperrors.NewValidationError("senha atual incorreta", nil)
	}
	hash, err := auth.HashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *AuthService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.clock.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
