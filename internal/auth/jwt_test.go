package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	validator := NewTokenValidator("test-secret")

	token, err := validator.GenerateToken("hr@company.co.za", "Thandi Nkosi", []string{RoleHR}, time.Hour)
	require.NoError(t, err)

	claims, err := validator.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "hr@company.co.za", claims.Email)
	assert.Equal(t, "Thandi Nkosi", claims.Name)
	assert.Equal(t, []string{RoleHR}, claims.Roles)
}

func TestExpiredTokenRejected(t *testing.T) {
	validator := NewTokenValidator("test-secret")

	token, err := validator.GenerateToken("hr@company.co.za", "", []string{RoleHR}, -time.Minute)
	require.NoError(t, err)

	_, err = validator.ValidateToken(token)
	assert.Error(t, err)
}

func TestWrongSecretRejected(t *testing.T) {
	issuer := NewTokenValidator("secret-a")
	verifier := NewTokenValidator("secret-b")

	token, err := issuer.GenerateToken("hr@company.co.za", "", []string{RoleHR}, time.Hour)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestClaimsIdentifier(t *testing.T) {
	claims := &Claims{Email: "hr@company.co.za", Name: "Thandi"}
	assert.Equal(t, "hr@company.co.za", claims.Identifier())

	claims.Email = ""
	assert.Equal(t, "Thandi", claims.Identifier())

	claims.Name = ""
	assert.Equal(t, "Unknown", claims.Identifier())
}

func TestActorRoles(t *testing.T) {
	actor := Actor{Identifier: "hr@company.co.za", Roles: []string{RoleHR}}
	assert.True(t, actor.HasRole(RoleHR))
	assert.False(t, actor.HasRole(RoleAdmin))
	assert.True(t, actor.IsHROrAdmin())

	user := Actor{Identifier: "user@company.co.za", Roles: []string{RoleUser}}
	assert.False(t, user.IsHROrAdmin())
}
