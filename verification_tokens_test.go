package auth_test

import (
	"testing"
	"time"

	auth "github.com/goliatone/go-directory-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateNumericCode(t *testing.T) {
	seen := map[string]bool{}

	for i := 0; i < 50; i++ {
		code, err := auth.GenerateNumericCode(auth.VerificationCodeLength)
		require.NoError(t, err)
		require.Len(t, code, auth.VerificationCodeLength)

		for _, c := range code {
			assert.GreaterOrEqual(t, c, '0')
			assert.LessOrEqual(t, c, '9')
		}

		seen[code] = true
	}

	// 50 draws from a million values colliding every time would mean the
	// generator is broken
	assert.Greater(t, len(seen), 1)
}

func TestGenerateNumericCodeDefaultsLength(t *testing.T) {
	code, err := auth.GenerateNumericCode(0)
	require.NoError(t, err)
	assert.Len(t, code, auth.VerificationCodeLength)

	code, err = auth.GenerateNumericCode(-3)
	require.NoError(t, err)
	assert.Len(t, code, auth.VerificationCodeLength)
}

func TestVerificationTokenMatches(t *testing.T) {
	token := &auth.VerificationToken{
		ID:     uuid.New(),
		UserID: uuid.New(),
		Token:  "435871",
	}

	assert.True(t, token.Matches("435871"))
	assert.False(t, token.Matches("435872"))
	assert.False(t, token.Matches(""))

	var missing *auth.VerificationToken
	assert.False(t, missing.Matches("435871"))
}

func TestVerificationTokenIsExpired(t *testing.T) {
	live := &auth.VerificationToken{ExpiresAt: time.Now().Add(time.Hour)}
	assert.False(t, live.IsExpired())

	stale := &auth.VerificationToken{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.True(t, stale.IsExpired())

	var missing *auth.VerificationToken
	assert.True(t, missing.IsExpired())
}

func TestVerificationTTLs(t *testing.T) {
	assert.Equal(t, 24*time.Hour, auth.DefaultVerificationTTL)
	assert.Equal(t, time.Hour, auth.PasswordResetTTL)
	assert.Less(t, auth.PasswordResetTTL, auth.DefaultVerificationTTL)
}
