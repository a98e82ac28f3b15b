package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-jwt-secret"

func TestGenerateAndValidateAccessToken(t *testing.T) {
	t.Parallel()

	token, err := GenerateAccessToken(42, "cajero1", "cashier", testSecret, 60)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateAccessToken(token, testSecret)
	require.NoError(t, err)

	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "cajero1", claims.Username)
	assert.Equal(t, "cashier", claims.Role)
	assert.Equal(t, "checkmovil-api", claims.Issuer)
	assert.NotEmpty(t, claims.ID)

	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(60*time.Minute), claims.ExpiresAt.Time, 5*time.Second)
}

func TestValidateAccessToken_Expired(t *testing.T) {
	t.Parallel()

	token, err := GenerateAccessToken(1, "user", "cashier", testSecret, -1)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateAccessToken_WrongSecret(t *testing.T) {
	t.Parallel()

	token, err := GenerateAccessToken(1, "user", "cashier", "another-secret", 60)
	require.NoError(t, err)

	claims, err := ValidateAccessToken(token, testSecret)
	assert.Nil(t, claims)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestValidateAccessToken_Malformed(t *testing.T) {
	t.Parallel()

	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		claims, err := ValidateAccessToken(tok, testSecret)
		assert.Nil(t, claims, "token %q", tok)
		assert.ErrorIs(t, err, ErrTokenMalformed, "token %q", tok)
	}
}

// Each failure category is distinct so callers can report them apart.
func TestValidationErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	assert.NotErrorIs(t, ErrTokenExpired, ErrBadSignature)
	assert.NotErrorIs(t, ErrTokenExpired, ErrTokenMalformed)
	assert.NotErrorIs(t, ErrBadSignature, ErrTokenMalformed)
}

func TestTokensCarryUniqueIDs(t *testing.T) {
	t.Parallel()

	a, err := GenerateAccessToken(1, "user", "cashier", testSecret, 60)
	require.NoError(t, err)
	b, err := GenerateAccessToken(1, "user", "cashier", testSecret, 60)
	require.NoError(t, err)

	claimsA, err := ValidateAccessToken(a, testSecret)
	require.NoError(t, err)
	claimsB, err := ValidateAccessToken(b, testSecret)
	require.NoError(t, err)

	assert.NotEqual(t, claimsA.ID, claimsB.ID)
}
