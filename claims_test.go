package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	auth "github.com/goliatone/go-directory-auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestJWTClaimsUserID(t *testing.T) {
	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "subject-id"},
		UID:              "uid-claim",
	}
	assert.Equal(t, "uid-claim", claims.UserID())

	claims.UID = ""
	assert.Equal(t, "subject-id", claims.UserID())
}

func TestJWTClaimsUserUUID(t *testing.T) {
	id := uuid.New()
	claims := &auth.JWTClaims{UID: id.String()}

	parsed, err := claims.UserUUID()
	assert.NoError(t, err)
	assert.Equal(t, id, parsed)

	claims.UID = "not-a-uuid"
	_, err = claims.UserUUID()
	assert.Error(t, err)
}

func TestJWTClaimsTokenID(t *testing.T) {
	id := uuid.New()
	claims := &auth.JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: id.String()},
	}
	assert.Equal(t, id, claims.TokenID())

	claims.RegisteredClaims.ID = "garbage"
	assert.Equal(t, uuid.Nil, claims.TokenID())

	claims.RegisteredClaims.ID = ""
	assert.Equal(t, uuid.Nil, claims.TokenID())
}

func TestJWTClaimsTimes(t *testing.T) {
	claims := &auth.JWTClaims{}
	assert.True(t, claims.Expires().IsZero())
	assert.True(t, claims.IssuedAt().IsZero())

	now := time.Now()
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Hour))
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)

	assert.WithinDuration(t, now.Add(time.Hour), claims.Expires(), time.Second)
	assert.WithinDuration(t, now, claims.IssuedAt(), time.Second)
}

func TestJWTClaimsRole(t *testing.T) {
	claims := &auth.JWTClaims{UserRole: auth.RoleCompanyAgent}
	assert.Equal(t, auth.RoleCompanyAgent, claims.Role())
}
