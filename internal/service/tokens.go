// Package service holds logic shared by handlers and middleware that does
// not belong to a single repository: bearer token issuance and verification
// and publishing catalog change events.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/iliyamo/travel-api/internal/model"
	"github.com/iliyamo/travel-api/internal/repository"
	"github.com/iliyamo/travel-api/internal/utils"
)

// TokenStore is the subset of repository.TokenRepo the service needs.
type TokenStore interface {
	Create(ctx context.Context, userID uint64, name string, expiresAt *time.Time) (uint64, error)
	SetHash(ctx context.Context, id uint64, tokenHash string) error
	GetByID(ctx context.Context, id uint64) (model.AccessToken, error)
	Touch(ctx context.Context, id uint64) error
}

// UserLookup loads the user a token belongs to.
type UserLookup interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenService issues bearer tokens at login and resolves them back to
// users on later requests.
type TokenService struct {
	secret string
	ttl    time.Duration
	tokens TokenStore
	users  UserLookup
	log    *zap.Logger
	now    func() time.Time
}

// NewTokenService builds a TokenService.  ttl <= 0 issues tokens that never
// expire.
func NewTokenService(secret string, ttl time.Duration, tokens TokenStore, users UserLookup, log *zap.Logger) *TokenService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TokenService{secret: secret, ttl: ttl, tokens: tokens, users: users, log: log, now: time.Now}
}

// Issue creates a token row labelled with device and returns the raw token
// for the client.
func (s *TokenService) Issue(ctx context.Context, userID uint64, device string) (string, error) {
	now := s.now().UTC()
	var expiresAt *time.Time
	if s.ttl > 0 {
		exp := now.Add(s.ttl)
		expiresAt = &exp
	}

	id, err := s.tokens.Create(ctx, userID, utils.DeviceName(device), expiresAt)
	if err != nil {
		return "", err
	}
	raw, err := utils.SignAccessToken(s.secret, userID, id, now, expiresAt)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	if err := s.tokens.SetHash(ctx, id, utils.HashToken(raw)); err != nil {
		return "", err
	}
	return raw, nil
}

// Verify resolves a raw bearer token to its user and token row id.  Any
// problem with the token itself yields utils.ErrInvalidToken; other errors
// come from storage.
func (s *TokenService) Verify(ctx context.Context, raw string) (model.User, uint64, error) {
	claims, err := utils.ParseAccessToken(s.secret, raw)
	if err != nil {
		return model.User{}, 0, err
	}
	tokenID, _ := claims.TokenID()
	userID, _ := claims.UserID()

	tok, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			return model.User{}, 0, utils.ErrInvalidToken
		}
		return model.User{}, 0, err
	}
	if tok.UserID != userID || !utils.TokenHashMatches(raw, tok.TokenHash) || tok.Expired(s.now().UTC()) {
		return model.User{}, 0, utils.ErrInvalidToken
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.User{}, 0, utils.ErrInvalidToken
		}
		return model.User{}, 0, err
	}

	if err := s.tokens.Touch(ctx, tokenID); err != nil {
		s.log.Warn("token touch failed", zap.Uint64("token_id", tokenID), zap.Error(err))
	}
	return u, tokenID, nil
}
