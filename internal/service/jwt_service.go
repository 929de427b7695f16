package service

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aras-services/weave/internal/domain"
	"github.com/aras-services/weave/pkg/jwt"
	"github.com/aras-services/weave/pkg/weave/apperror"
)

type JWTService struct {
	jwtService *jwt.JWTService
	tokenRepo  domain.RefreshTokenRepository
}

func NewJWTService(secretKey string, accessExpiry, refreshExpiry time.Duration, tokenRepo domain.RefreshTokenRepository) domain.TokenService {
	return &JWTService{
		jwtService: jwt.NewJWTService(secretKey, accessExpiry, refreshExpiry),
		tokenRepo:  tokenRepo,
	}
}

func (s *JWTService) GenerateAccessToken(userID uuid.UUID, email string) (string, error) {
	return s.jwtService.GenerateAccessToken(userID, email)
}

func (s *JWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	tokenString, err := s.jwtService.GenerateRefreshToken(userID)
	if err != nil {
		return "", err
	}

	refreshToken := &domain.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: s.hashToken(tokenString),
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
		CreatedAt: time.Now(),
	}

	if err := s.tokenRepo.Create(ctx, refreshToken); err != nil {
		return "", fmt.Errorf("failed to create refresh token: %w", err)
	}

	return tokenString, nil
}

func (s *JWTService) ValidateAccessToken(token string) (*domain.TokenClaims, error) {
	claims, err := s.jwtService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.TokenClaims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Unix(),
		IssuedAt:  claims.IssuedAt.Unix(),
		Issuer:    claims.Issuer,
	}, nil
}

func (s *JWTService) ValidateRefreshToken(ctx context.Context, token string) (*domain.RefreshTokenClaims, error) {
	claims, err := s.jwtService.ValidateRefreshToken(token)
	if err != nil {
		return nil, err
	}

	tokenHash := s.hashToken(token)
	if _, err := s.tokenRepo.GetByTokenHash(ctx, tokenHash); err != nil {
		return nil, apperror.Unauthorized("refresh token not found or expired")
	}

	return &domain.RefreshTokenClaims{
		UserID:    claims.UserID,
		TokenID:   claims.TokenID,
		ExpiresAt: claims.ExpiresAt.Unix(),
		IssuedAt:  claims.IssuedAt.Unix(),
		Issuer:    claims.Issuer,
	}, nil
}

func (s *JWTService) RevokeRefreshToken(ctx context.Context, token string) error {
	claims, err := s.jwtService.ValidateRefreshToken(token)
	if err != nil {
		return err
	}
	return s.tokenRepo.Delete(ctx, claims.TokenID)
}

func (s *JWTService) IntrospectToken(ctx context.Context, token string) (*domain.TokenIntrospection, error) {
	claims, err := s.ValidateAccessToken(token)
	if err != nil {
		return &domain.TokenIntrospection{Active: false}, nil
	}

	return &domain.TokenIntrospection{
		Active:    true,
		UserID:    claims.UserID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt,
		Scope:     "read write",
	}, nil
}

func (s *JWTService) hashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", hash)
}

// CleanupExpiredTokens removes expired refresh tokens from the database.
func (s *JWTService) CleanupExpiredTokens(ctx context.Context) (int, error) {
	return s.tokenRepo.CleanupExpiredTokens(ctx)
}

// RevokeAllUserTokens revokes every refresh token issued to userID.
func (s *JWTService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.DeleteByUserID(ctx, userID)
}
