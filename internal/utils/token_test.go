package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParseAccessToken(t *testing.T) {
	raw, err := SignAccessToken("secret", 42, 7, time.Now(), nil)
	require.NoError(t, err)

	claims, err := ParseAccessToken("secret", raw)
	require.NoError(t, err)

	uid, _ := claims.UserID()
	tid, _ := claims.TokenID()
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, uint64(7), tid)
	assert.Nil(t, claims.ExpiresAt)
}

func TestParseAccessToken_WrongSecret(t *testing.T) {
	raw, err := SignAccessToken("secret", 1, 1, time.Now(), nil)
	require.NoError(t, err)

	_, err = ParseAccessToken("other", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_Expired(t *testing.T) {
	past := time.Now().Add(-time.Hour)
	raw, err := SignAccessToken("secret", 1, 1, past.Add(-time.Hour), &past)
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_RejectsOtherAlgorithms(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "1", ID: "1"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseAccessToken_NonNumericSubject(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "bob", ID: "1"}).
		SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = ParseAccessToken("secret", raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenHashMatches(t *testing.T) {
	h := HashToken("abc")
	assert.Len(t, h, 64)
	assert.True(t, TokenHashMatches("abc", h))
	assert.False(t, TokenHashMatches("abd", h))
}

func TestDeviceName(t *testing.T) {
	assert.Equal(t, "curl/8.0", DeviceName("curl/8.0"))

	long := strings.Repeat("é", 300)
	got := DeviceName(long)
	assert.Equal(t, MaxDeviceNameLength, len([]rune(got)))
	assert.True(t, strings.HasPrefix(long, got))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password", 4)
	require.NoError(t, err)

	assert.True(t, VerifyPassword(hash, "password"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	BurnPasswordCheck("anything")
}
