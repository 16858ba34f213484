package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("test-secret"))

	user := &User{ID: 42, Username: "nimal", Role: RoleCashier}
	token, err := svc.GenerateAccessToken(StaffPrincipal(user))
	require.NoError(t, err)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, RoleCashier, token.Role)

	uc, err := svc.ValidateToken(token.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "42", uc.UserID)
	assert.Equal(t, "nimal", uc.Username)
	assert.Equal(t, RoleCashier, uc.Role)
	assert.NotEmpty(t, uc.SessionID)
	assert.Zero(t, uc.CustomerID)
}

func TestJWTService_Expired(t *testing.T) {
	now := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	svc := NewJWTService(DefaultJWTConfig("test-secret"))
	svc.now = func() time.Time { return now }

	token, err := svc.GenerateAccessToken(Principal{Subject: "1", Username: "a", Role: RoleAdmin})
	require.NoError(t, err)

	now = now.Add(9 * time.Hour)
	_, err = svc.ValidateToken(token.AccessToken)
	assert.Error(t, err)
}

func TestJWTService_WrongSecretOrIssuer(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	token, err := issuer.GenerateAccessToken(Principal{Subject: "1", Username: "a", Role: RoleAdmin})
	require.NoError(t, err)

	_, err = NewJWTService(DefaultJWTConfig("secret-b")).ValidateToken(token.AccessToken)
	assert.Error(t, err)

	other := DefaultJWTConfig("secret-a")
	other.Issuer = "someone-else"
	_, err = NewJWTService(other).ValidateToken(token.AccessToken)
	assert.Error(t, err)

	_, err = issuer.ValidateToken("not-a-token")
	assert.Error(t, err)
}
