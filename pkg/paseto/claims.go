package pasetotoken

import (
	"time"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/pkg/authorize"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Claims is the app-facing token payload. Besides the standard PASETO
// claims it carries the user's role so the role gate can run without a
// store lookup.
type Claims struct {
	Type TokenType

	UserID    uuid.UUID
	Role      authorize.Role
	SessionID *uuid.UUID

	Issuer   string
	Audience string

	IssuedAt    time.Time
	NotBefore   time.Time
	ExpiresAt   time.Time
	TokenID     string // jti
	Subject     string
	RawFooter   []byte
	RawClaimsJS []byte
}

// Identity converts the claims into the request identity passed to
// services.
func (c *Claims) Identity() authorize.Identity {
	return authorize.Identity{SubjectID: c.UserID, Role: c.Role}
}

// IsExpired reports whether the token's expiry has passed.
func (c *Claims) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// GetUserID returns the authenticated user's ID.
func (c *Claims) GetUserID() uuid.UUID { return c.UserID }

// GetRole returns the user's role as a string.
func (c *Claims) GetRole() string { return string(c.Role) }

// GetSessionID returns the session ID, if available.
func (c *Claims) GetSessionID() *uuid.UUID { return c.SessionID }

// GetTokenType returns the token type ("access" or "refresh").
func (c *Claims) GetTokenType() string { return string(c.Type) }
