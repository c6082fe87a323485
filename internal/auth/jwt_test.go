package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndValidate(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	token, expiresAt, err := svc.Issue("user-1", "anna@example.com", "ADMIN")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "anna@example.com", claims.Email)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService(testSecret, -time.Minute)

	token, _, err := svc.Issue("user-1", "anna@example.com", "CUSTOMER")
	require.NoError(t, err)

	_, err = svc.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	issuer := NewTokenService(testSecret, time.Hour)
	verifier := NewTokenService("another-secret-another-secret-xx", time.Hour)

	token, _, err := issuer.Issue("user-1", "anna@example.com", "CUSTOMER")
	require.NoError(t, err)

	_, err = verifier.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)

	_, err := svc.Validate("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
