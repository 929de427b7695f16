package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aras-services/weave/internal/domain"
	"github.com/aras-services/weave/pkg/password"
	"github.com/aras-services/weave/pkg/weave/apperror"
)

type AuthUseCase struct {
	providerRegistry domain.ProviderRegistry
	tokenService     domain.TokenService
	userRepo         domain.UserRepository
}

func NewAuthUseCase(providerRegistry domain.ProviderRegistry, tokenService domain.TokenService, userRepo domain.UserRepository) *AuthUseCase {
	return &AuthUseCase{
		providerRegistry: providerRegistry,
		tokenService:     tokenService,
		userRepo:         userRepo,
	}
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	TokenType    string       `json:"token_type"`
	User         *domain.User `json:"user"`
}

type RegisterResponse struct {
	User    *domain.User `json:"user"`
	Message string       `json:"message"`
}

func (uc *AuthUseCase) Register(ctx context.Context, req *domain.CreateUserRequest) (*RegisterResponse, error) {
	if existingUser, err := uc.userRepo.GetByEmail(ctx, req.Email); err == nil && existingUser != nil {
		return nil, apperror.Conflict("user with this email already exists")
	}

	if !password.IsValidPassword(req.Password) {
		return nil, apperror.BadRequest("password does not meet requirements")
	}

	hashedPassword, err := password.HashPassword(req.Password)
	if err != nil {
		return nil, apperror.Internal("failed to hash password")
	}

	user := &domain.User{
		ID:            uuid.New(),
		Email:         req.Email,
		PasswordHash:  hashedPassword,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Status:        domain.UserStatusPending,
		EmailVerified: false,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}

	provider := uc.providerRegistry.GetDefaultProvider()
	if provider == nil {
		return nil, apperror.Internal("no identity provider available")
	}

	if err := provider.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	return &RegisterResponse{
		User:    user,
		Message: "User registered successfully. Please verify your email.",
	}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, req *domain.LoginRequest) (*LoginResponse, error) {
	provider := uc.providerRegistry.GetDefaultProvider()
	if provider == nil {
		return nil, apperror.Internal("no identity provider available")
	}

	user, err := provider.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, apperror.Unauthorized("invalid credentials")
	}

	accessToken, err := uc.tokenService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperror.Internal("failed to generate access token")
	}

	refreshToken, err := uc.tokenService.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, apperror.Internal("failed to generate refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    900,
		TokenType:    "Bearer",
		User:         user,
	}, nil
}

func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (*LoginResponse, error) {
	claims, err := uc.tokenService.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("invalid refresh token")
	}

	user, err := uc.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}

	if user.Status != domain.UserStatusActive {
		return nil, apperror.Forbidden("user account is not active")
	}

	accessToken, err := uc.tokenService.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperror.Internal("failed to generate access token")
	}

	// Rotate: issue a new refresh token before revoking the old one.
	newRefreshToken, err := uc.tokenService.GenerateRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, apperror.Internal("failed to generate refresh token")
	}

	if err := uc.tokenService.RevokeRefreshToken(ctx, refreshToken); err != nil {
		slog.WarnContext(ctx, "failed to revoke rotated refresh token", "error", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		ExpiresIn:    900,
		TokenType:    "Bearer",
		User:         user,
	}, nil
}

func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.tokenService.RevokeRefreshToken(ctx, refreshToken)
}

func (uc *AuthUseCase) ChangePassword(ctx context.Context, userID uuid.UUID, req *domain.ChangePasswordRequest) error {
	provider := uc.providerRegistry.GetDefaultProvider()
	if provider == nil {
		return apperror.Internal("no identity provider available")
	}

	valid, err := provider.VerifyPassword(ctx, userID, req.CurrentPassword)
	if err != nil || !valid {
		return apperror.Unauthorized("current password is incorrect")
	}

	if !password.IsValidPassword(req.NewPassword) {
		return apperror.BadRequest("new password does not meet requirements")
	}

	return provider.ChangePassword(ctx, userID, req.NewPassword)
}

func (uc *AuthUseCase) VerifyEmail(ctx context.Context, userID uuid.UUID) error {
	return uc.userRepo.UpdateEmailVerified(ctx, userID, true)
}

func (uc *AuthUseCase) IntrospectToken(ctx context.Context, token string) (*domain.TokenIntrospection, error) {
	return uc.tokenService.IntrospectToken(ctx, token)
}
