package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "mugenreco-backend/pkg/errors"
)

func TestTokenIssueAndVerify(t *testing.T) {
	m := NewTokenManager("test-secret", "test-issuer", time.Hour)

	token, err := m.Issue("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	username, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)
}

func TestTokenVerifyRejections(t *testing.T) {
	m := NewTokenManager("test-secret", "test-issuer", time.Hour)

	assertUnauthorized := func(t *testing.T, err error) {
		t.Helper()
		require.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeUnauthorized))
	}

	t.Run("expired token", func(t *testing.T) {
		expired := NewTokenManager("test-secret", "test-issuer", -time.Minute)
		token, err := expired.Issue("alice")
		require.NoError(t, err)

		_, err = m.Verify(token)
		assertUnauthorized(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager("other-secret", "test-issuer", time.Hour)
		token, err := other.Issue("alice")
		require.NoError(t, err)

		_, err = m.Verify(token)
		assertUnauthorized(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewTokenManager("test-secret", "other-issuer", time.Hour)
		token, err := other.Issue("alice")
		require.NoError(t, err)

		_, err = m.Verify(token)
		assertUnauthorized(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := m.Verify("not.a.token")
		assertUnauthorized(t, err)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter22", hash)

	assert.True(t, VerifyPassword(hash, "hunter22"))
	assert.False(t, VerifyPassword(hash, "wrong-pass"))
	assert.False(t, VerifyPassword("not-a-hash", "hunter22"))
}
