package utils // package utils provides helper functions for token creation and hashing

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
)

// MaxDeviceNameLength bounds the device label stored with each token.
const MaxDeviceNameLength = 255

var ErrInvalidToken = errors.New("invalid access token")

// AccessClaims are carried inside the bearer token.  Subject is the user id
// and ID (jti) the personal_access_tokens row that must still exist for the
// token to be accepted.
type AccessClaims struct {
	jwt.RegisteredClaims
}

func (c AccessClaims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

func (c AccessClaims) TokenID() (uint64, error) {
	return strconv.ParseUint(c.ID, 10, 64)
}

// SignAccessToken builds an HS256 token for a stored token row.  A nil
// expiresAt produces a token without an exp claim.
func SignAccessToken(secret string, userID, tokenID uint64, issuedAt time.Time, expiresAt *time.Time) (string, error) {
	claims := AccessClaims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:  strconv.FormatUint(userID, 10),
		ID:       strconv.FormatUint(tokenID, 10),
		IssuedAt: jwt.NewNumericDate(issuedAt),
	}}
	if expiresAt != nil {
		claims.ExpiresAt = jwt.NewNumericDate(*expiresAt)
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAccessToken verifies the signature and standard claims of raw.
func ParseAccessToken(secret, raw string) (AccessClaims, error) {
	var claims AccessClaims
	tok, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !tok.Valid {
		return AccessClaims{}, ErrInvalidToken
	}
	if _, err := claims.UserID(); err != nil {
		return AccessClaims{}, ErrInvalidToken
	}
	if _, err := claims.TokenID(); err != nil {
		return AccessClaims{}, ErrInvalidToken
	}
	return claims, nil
}

// HashToken returns the SHA-256 hash of the raw token as a hex string.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// TokenHashMatches compares a raw token against a stored hash in constant
// time.
func TokenHashMatches(raw, storedHash string) bool {
	return subtle.ConstantTimeCompare([]byte(HashToken(raw)), []byte(storedHash)) == 1
}

// DeviceName truncates a User-Agent to MaxDeviceNameLength characters
// without splitting a multi-byte character.
func DeviceName(userAgent string) string {
	if utf8.RuneCountInString(userAgent) <= MaxDeviceNameLength {
		return userAgent
	}
	runes := []rune(userAgent)
	return string(runes[:MaxDeviceNameLength])
}
