package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/iliyamo/travel-api/internal/model"
)

// TokenRepo persists personal access tokens.  Only a hash of each token is
// stored.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Create inserts a token row without its hash and returns the new id.  The
// id is embedded in the signed token, so the hash is written afterwards by
// SetHash.
func (r *TokenRepo) Create(ctx context.Context, userID uint64, name string, expiresAt *time.Time) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO personal_access_tokens (user_id, name, token, expires_at, created_at, updated_at)
		 VALUES (?, ?, '', ?, UTC_TIMESTAMP(), UTC_TIMESTAMP())`,
		userID, name, expiresAt)
	if err != nil {
		return 0, fmt.Errorf("insert token: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// SetHash stores the SHA-256 hash of the issued token.
func (r *TokenRepo) SetHash(ctx context.Context, id uint64, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE personal_access_tokens SET token = ?, updated_at = UTC_TIMESTAMP() WHERE id = ?",
		tokenHash, id)
	if err != nil {
		return fmt.Errorf("store token hash: %w", err)
	}
	return nil
}

// GetByID loads a token row.
func (r *TokenRepo) GetByID(ctx context.Context, id uint64) (model.AccessToken, error) {
	var (
		t         model.AccessToken
		lastUsed  sql.NullTime
		expiresAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, name, token, last_used_at, expires_at, created_at
		 FROM personal_access_tokens WHERE id = ? LIMIT 1`, id).
		Scan(&t.ID, &t.UserID, &t.Name, &t.TokenHash, &lastUsed, &expiresAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.AccessToken{}, ErrTokenNotFound
		}
		return model.AccessToken{}, fmt.Errorf("get token: %w", err)
	}
	if lastUsed.Valid {
		t.LastUsedAt = &lastUsed.Time
	}
	if expiresAt.Valid {
		t.ExpiresAt = &expiresAt.Time
	}
	return t, nil
}

// Touch records that the token just authenticated a request.
func (r *TokenRepo) Touch(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE personal_access_tokens SET last_used_at = UTC_TIMESTAMP() WHERE id = ?", id)
	return err
}
