package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndParse(t *testing.T) {
	iss := NewIssuer("s3cret", time.Hour)

	token, err := iss.Issue(7, "admin@shop.test")
	require.NoError(t, err)

	claims, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.AdminID)
	assert.Equal(t, "admin@shop.test", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "7", claims.Subject)
}

func TestParseRejectsWrongSecret(t *testing.T) {
	token, err := NewIssuer("one", time.Hour).Issue(1, "a@b.c")
	require.NoError(t, err)

	_, err = NewIssuer("two", time.Hour).Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
}

func TestParseRejectsExpired(t *testing.T) {
	iss := NewIssuer("s3cret", time.Minute)
	iss.now = func() time.Time { return time.Now().Add(-time.Hour) }
	token, err := iss.Issue(1, "a@b.c")
	require.NoError(t, err)

	_, err = NewIssuer("s3cret", time.Minute).Parse(token)
	assert.True(t, IsExpired(err))
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Admin@123")
	require.NoError(t, err)

	assert.NotEqual(t, "Admin@123", hash)
	assert.True(t, CheckPassword(hash, "Admin@123"))
	assert.False(t, CheckPassword(hash, "admin@123"))
}

func TestClaimsContext(t *testing.T) {
	assert.Nil(t, FromContext(context.Background()))

	c := &Claims{AdminID: 3}
	assert.Same(t, c, FromContext(WithClaims(context.Background(), c)))
}
