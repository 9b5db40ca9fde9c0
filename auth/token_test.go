package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-signing-key"

func testUser() *User {
	return &User{
		ID:           42,
		Email:        "bill@example.com",
		ProfilePhoto: "photo_url",
	}
}

func TestSessionTokenRoundTrip(t *testing.T) {
	token, err := IssueSessionToken(testSecret, 24*time.Hour, testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseSessionToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "bill@example.com", claims.Email)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	token, err := IssueSessionToken(testSecret, time.Hour, testUser())
	require.NoError(t, err)

	_, err = ParseSessionToken("a-different-secret", token)
	require.Error(t, err)
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	token, err := IssueSessionToken(testSecret, -time.Hour, testUser())
	require.NoError(t, err)

	_, err = ParseSessionToken(testSecret, token)
	require.Error(t, err)
}

func TestParseSessionTokenRejectsGarbage(t *testing.T) {
	_, err := ParseSessionToken(testSecret, "not-a-token")
	require.Error(t, err)
}

func TestSessionTokenOmitsProfilePhoto(t *testing.T) {
	// Mutable profile fields must not be trusted from the token; only id and
	// email are claims.
	token, err := IssueSessionToken(testSecret, time.Hour, testUser())
	require.NoError(t, err)

	claims, err := ParseSessionToken(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.Subject)
}
