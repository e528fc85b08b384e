package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// JWTClaims is the wire envelope of a capability token. The client-visible
// token string is a signed JWT whose jti names the server-side AccessToken
// record; the claims alone are never trusted for authorization, the record
// lookup is what enforces revocation.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID         string   `json:"uid,omitempty"`
	UserRole    string   `json:"role,omitempty"`
	Permissions []string `json:"perms,omitempty"`
}

// UserID returns the owning user id
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// UserUUID parses the owning user id
func (c *JWTClaims) UserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID())
}

// Role returns the role recorded at issuance
func (c *JWTClaims) Role() string {
	return c.UserRole
}

// TokenID returns the backing access token record id, uuid.Nil when the
// jti is missing or not a valid uuid.
func (c *JWTClaims) TokenID() uuid.UUID {
	id, err := uuid.Parse(c.RegisteredClaims.ID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// Expires returns the envelope expiration, zero when the token never expires
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issuance time
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
