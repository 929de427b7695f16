package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aras-services/weave/internal/domain"
	"github.com/aras-services/weave/pkg/weave/apperror"
)

// TokenRepository is the pgx-backed domain.RefreshTokenRepository:
// refresh tokens are stored hashed, never in cleartext.
type TokenRepository struct {
	db *pgxpool.Pool
}

func NewTokenRepository(db *pgxpool.Pool) domain.RefreshTokenRepository {
	return &TokenRepository{db: db}
}

const tokenColumns = `id, user_id, token_hash, expires_at, created_at`

func scanToken(row pgx.Row) (*domain.RefreshToken, error) {
	var token domain.RefreshToken
	err := row.Scan(&token.ID, &token.UserID, &token.TokenHash, &token.ExpiresAt, &token.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperror.NotFound("refresh token not found")
		}
		return nil, err
	}
	return &token, nil
}

func (r *TokenRepository) Create(ctx context.Context, token *domain.RefreshToken) error {
	query := `INSERT INTO refresh_tokens (id, user_id, token_hash, expires_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.Exec(ctx, query, token.ID, token.UserID, token.TokenHash, token.ExpiresAt)
	return err
}

func (r *TokenRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.RefreshToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM refresh_tokens WHERE id = $1`
	return scanToken(r.db.QueryRow(ctx, query, id))
}

func (r *TokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM refresh_tokens WHERE token_hash = $1 AND expires_at > NOW()`
	token, err := scanToken(r.db.QueryRow(ctx, query, tokenHash))
	if err != nil {
		if e := apperror.As(err); e.Kind() == apperror.KindNotFound {
			return nil, apperror.NotFound("refresh token not found or expired")
		}
		return nil, err
	}
	return token, nil
}

func (r *TokenRepository) GetByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.RefreshToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM refresh_tokens WHERE user_id = $1 AND expires_at > NOW() ORDER BY created_at DESC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []*domain.RefreshToken
	for rows.Next() {
		token, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	return tokens, rows.Err()
}

func (r *TokenRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return apperror.NotFound("refresh token not found")
	}
	return nil
}

func (r *TokenRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	return err
}

func (r *TokenRepository) DeleteExpired(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	return err
}

func (r *TokenRepository) CleanupExpiredTokens(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT cleanup_expired_tokens()`).Scan(&count)
	return count, err
}
