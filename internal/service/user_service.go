package service

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/encenape/event-service/internal/domain"
	"github.com/encenape/event-service/internal/repository"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// UserService handles profile reads and updates for authenticated users.
type UserService struct {
	repo repository.UserRepository
}

// NewUserService constructs the service.
func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// ProfileInput carries the profile fields a user may change. Roles are not
// among them.
type ProfileInput struct {
	Name      string
	Email     string
	Phone     string
	AvatarURL string
	Bio       string
}

// GetByID resolves a user by id.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("usuário", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateProfile replaces the user's editable profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, user *domain.User, input ProfileInput) (*domain.User, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("nome é obrigatório", nil)
	}
	if email := strings.ToLower(strings.TrimSpace(input.Email)); email != "" && email != user.Email {
		exists, err := s.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return nil, apperrors.MapError(err)
		}
		if exists {
			return nil, apperrors.NewConflict("e-mail já cadastrado", nil)
		}
		user.Email = email
	}
	user.Name = name
	user.Phone = strings.TrimSpace(input.Phone)
	user.AvatarURL = strings.TrimSpace(input.AvatarURL)
	user.Bio = strings.TrimSpace(input.Bio)

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Deactivate soft-deletes the account. Tokens already issued stop working
// at the next request since the auth middleware rejects inactive users.
func (s *UserService) Deactivate(ctx context.Context, user *domain.User) error {
	user.Active = false
	if err := s.repo.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
