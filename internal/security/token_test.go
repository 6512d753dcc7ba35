package security_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"farmdirect/internal/security"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := security.NewTokenService("test-secret", 24*time.Hour)

	issued := security.Identity{
		Email:  "farmer@example.com",
		Role:   "farmer",
		UserID: "7f9c24e5-1c33-4a02-a6ef-2e0c21a1f1a1",
	}
	token, err := svc.Issue(issued)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, issued, *got)
}

func TestTokenExpired(t *testing.T) {
	svc := security.NewTokenService("test-secret", 24*time.Hour)

	id := security.Identity{Email: "a@b.c", Role: "buyer", UserID: "u-1"}
	token, err := svc.IssueWithTTL(id, -25*time.Hour)
	require.NoError(t, err)

	got, err := svc.Verify(token)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestTokenWrongSecret(t *testing.T) {
	svc := security.NewTokenService("secret-one", time.Hour)
	other := security.NewTokenService("secret-two", time.Hour)

	token, err := svc.Issue(security.Identity{Email: "a@b.c", Role: "buyer", UserID: "u-1"})
	require.NoError(t, err)

	got, err := other.Verify(token)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestTokenMissingClaims(t *testing.T) {
	secret := "test-secret"
	svc := security.NewTokenService(secret, time.Hour)

	// Structurally valid, unexpired token whose payload lacks the role claim.
	claims := jwt.MapClaims{
		"sub": "a@b.c",
		"id":  "u-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	got, err := svc.Verify(raw)
	assert.Error(t, err)
	assert.Nil(t, got)
}

func TestEncryptorRoundTrip(t *testing.T) {
	enc, err := security.NewEncryptor([]byte("some-environment-secret"))
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt("hello, is the produce still available?")
	require.NoError(t, err)
	assert.NotEqual(t, "hello, is the produce still available?", ciphertext)

	plain, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "hello, is the produce still available?", plain)

	_, err = enc.Decrypt("not-a-ciphertext")
	assert.Error(t, err)
}
