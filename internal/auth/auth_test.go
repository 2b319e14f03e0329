package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Generate("user-1", "customer")
	require.NoError(t, err)

	claims, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "customer", claims.Role)
}

func TestTokenManager_RejectsExpiredAndForeign(t *testing.T) {
	expired := NewTokenManager("secret", -time.Minute)
	token, err := expired.Generate("user-1", "customer")
	require.NoError(t, err)

	_, err = expired.Parse(token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	other := NewTokenManager("other-secret", time.Hour)
	token, err = other.Generate("user-1", "customer")
	require.NoError(t, err)

	m := NewTokenManager("secret", time.Hour)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Parse("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp, err := GenerateOTP(6)
		require.NoError(t, err)
		require.Len(t, otp, 6)
		for _, r := range otp {
			assert.True(t, r >= '0' && r <= '9')
		}
	}
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, HashToken("123456"), HashToken("123456"))
	assert.NotEqual(t, HashToken("123456"), HashToken("123457"))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("password123")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("password123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}
