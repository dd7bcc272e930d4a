package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secretKey = "bf284d03-ba65-42d4-a9fe-0d2fbfe61060"

func TestGenToken_ParseToken(t *testing.T) {
	signer := NewSigner(secretKey, "identity", 15*time.Minute)

	token, expireAt, err := signer.GenToken("acc-1", "tenant-1", "PROFESSOR")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expireAt, 2*time.Second)

	claims, err := signer.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, "tenant-1", claims.TenantId)
	assert.Equal(t, "PROFESSOR", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestParseToken_Expired(t *testing.T) {
	now := time.Now()
	signer := NewSigner(secretKey, "identity", 15*time.Minute).WithClock(func() time.Time { return now })

	token, _, err := signer.GenToken("acc-1", "tenant-1", "DIRETOR")
	require.NoError(t, err)

	signer.WithClock(func() time.Time { return now.Add(16 * time.Minute) })
	_, err = signer.ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _, err := NewSigner("another-secret-another-secret-xx", "identity", time.Minute).GenToken("acc-1", "t", "ADMIN")
	require.NoError(t, err)

	_, err = NewSigner(secretKey, "identity", time.Minute).ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseToken_WrongIssuer(t *testing.T) {
	token, _, err := NewSigner(secretKey, "someone-else", time.Minute).GenToken("acc-1", "t", "ADMIN")
	require.NoError(t, err)

	_, err = NewSigner(secretKey, "identity", time.Minute).ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	claims := &AuthClaims{
		Role: "ADMIN",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "identity",
			Subject:   "acc-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secretKey))
	require.NoError(t, err)

	_, err = NewSigner(secretKey, "identity", time.Minute).ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = NewSigner(secretKey, "identity", time.Minute).ParseToken(none)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseToken_MissingRole(t *testing.T) {
	claims := &AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "identity",
			Subject:   "acc-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	require.NoError(t, err)

	_, err = NewSigner(secretKey, "identity", time.Minute).ParseToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := NewSigner(secretKey, "identity", time.Minute).ParseToken("not.a.token")
	assert.Error(t, err)
}
