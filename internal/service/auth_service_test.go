package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginAndValidate(t *testing.T) {
	svc := NewAuthService("admin", "secret", "jwt-secret")

	resp, err := svc.Login("admin", "secret")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.OperatorID, "op_"))
	require.NotEmpty(t, resp.Token)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.OperatorID, claims.OperatorID)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc := NewAuthService("admin", "secret", "jwt-secret")

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("intruder", "secret")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService("admin", "secret", "jwt-secret")

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	issuer := NewAuthService("admin", "secret", "other-secret")
	resp, err := issuer.Login("admin", "secret")
	require.NoError(t, err)

	svc := NewAuthService("admin", "secret", "jwt-secret")
	_, err = svc.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
