package middleware

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-characters"

func TestIssueAndParseToken(t *testing.T) {
	signed, issued, err := IssueToken(testSecret, 42, "alice", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, issued.JTI)

	claims, err := ParseToken(testSecret, signed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, issued.JTI, claims.JTI)
	assert.WithinDuration(t, issued.ExpiresAt, claims.ExpiresAt, time.Second)
}

func TestParseToken_Rejects(t *testing.T) {
	valid, _, err := IssueToken(testSecret, 1, "bob", time.Hour)
	require.NoError(t, err)
	expired, _, err := IssueToken(testSecret, 1, "bob", -time.Hour)
	require.NoError(t, err)

	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1",
		"iss": "someone-else",
		"aud": TokenAudience,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	foreignSigned, err := foreign.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name   string
		secret string
		token  string
		want   error
	}{
		{"empty", testSecret, "", ErrMissingToken},
		{"wrong secret", "another-secret-key-at-least-32-chars", valid, ErrInvalidToken},
		{"expired", testSecret, expired, ErrInvalidToken},
		{"wrong issuer", testSecret, foreignSigned, ErrInvalidToken},
		{"garbage", testSecret, "not.a.token", ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.secret, tt.token)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", BearerToken("Bearer abc"))
	assert.Empty(t, BearerToken("Basic abc"))
	assert.Empty(t, BearerToken("Bearer"))
	assert.Empty(t, BearerToken(""))
}

func TestIssueToken_RequiresSecret(t *testing.T) {
	_, _, err := IssueToken("", 1, "x", time.Hour)
	assert.Error(t, err)
}
