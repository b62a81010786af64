package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuerRoundTrip(t *testing.T) {
	issuer, err := NewIssuer("secret")
	require.NoError(t, err)

	token, err := issuer.GenerateJWT(42, "admin@tarmuz.com")
	require.NoError(t, err)

	parsed, err := issuer.VerifyJWT(token)
	require.NoError(t, err)

	id, err := UserID(parsed)
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
}

func TestNewIssuerRequiresSecret(t *testing.T) {
	_, err := NewIssuer("")
	assert.Error(t, err)
}

func TestVerifyJWTRejects(t *testing.T) {
	issuer, err := NewIssuer("secret")
	require.NoError(t, err)

	other, err := NewIssuer("other-secret")
	require.NoError(t, err)
	forged, err := other.GenerateJWT(1, "a@b.co")
	require.NoError(t, err)

	expiredIssuer, err := NewIssuer("secret")
	require.NoError(t, err)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	expired, err := expiredIssuer.GenerateJWT(1, "a@b.co")
	require.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 1}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"wrong secret": forged,
		"expired":      expired,
		"none alg":     unsigned,
		"garbage":      "abc.def.ghi",
	} {
		_, err := issuer.VerifyJWT(token)
		assert.Error(t, err, name)
	}
}

func TestUserIDRequiresClaim(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@b.co"})

	_, err := UserID(token)
	assert.EqualError(t, err, "Invalid user ID in token claims")
}
