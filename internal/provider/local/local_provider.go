package local

import (
	"context"

	"github.com/google/uuid"

	"github.com/aras-services/weave/internal/domain"
	"github.com/aras-services/weave/pkg/password"
	"github.com/aras-services/weave/pkg/weave/apperror"
)

// LocalProvider authenticates against credentials stored in this
// service's own user table, as opposed to an external identity system.
type LocalProvider struct {
	userRepo domain.UserRepository
}

func NewLocalProvider(userRepo domain.UserRepository) domain.IdentityProvider {
	return &LocalProvider{
		userRepo: userRepo,
	}
}

func (p *LocalProvider) Authenticate(ctx context.Context, username, pwd string) (*domain.User, error) {
	user, err := p.userRepo.GetByEmail(ctx, username)
	if err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if err := password.VerifyPassword(user.PasswordHash, pwd); err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	if user.Status != domain.UserStatusActive {
		return nil, apperror.Forbidden("account is not active")
	}

	return user, nil
}

func (p *LocalProvider) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return p.userRepo.GetByID(ctx, id)
}

func (p *LocalProvider) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return p.userRepo.GetByEmail(ctx, email)
}

// CreateUser persists user. The caller is responsible for setting
// PasswordHash via password.HashPassword before calling this; an empty
// hash here means no password was supplied, which is a caller error.
func (p *LocalProvider) CreateUser(ctx context.Context, user *domain.User) error {
	if user.PasswordHash == "" {
		return apperror.BadRequest("password hash is required")
	}

	if user.Status == "" {
		user.Status = domain.UserStatusPending
	}

	return p.userRepo.Create(ctx, user)
}

func (p *LocalProvider) UpdateUser(ctx context.Context, user *domain.User) error {
	return p.userRepo.Update(ctx, user)
}

func (p *LocalProvider) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return p.userRepo.Delete(ctx, id)
}

func (p *LocalProvider) ChangePassword(ctx context.Context, userID uuid.UUID, newPassword string) error {
	if !password.IsValidPassword(newPassword) {
		return apperror.BadRequest("password does not meet requirements")
	}

	hashedPassword, err := password.HashPassword(newPassword)
	if err != nil {
		return apperror.Internal("failed to hash password")
	}

	return p.userRepo.UpdatePassword(ctx, userID, hashedPassword)
}

func (p *LocalProvider) VerifyPassword(ctx context.Context, userID uuid.UUID, pwd string) (bool, error) {
	user, err := p.userRepo.GetByID(ctx, userID)
	if err != nil {
		return false, err
	}

	return password.VerifyPassword(user.PasswordHash, pwd) == nil, nil
}

func (p *LocalProvider) GetProviderName() string {
	return "local"
}

func (p *LocalProvider) IsEnabled() bool {
	return true
}
