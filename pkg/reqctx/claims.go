package reqctx

import (
	"context"

	"github.com/google/uuid"
)

// AuthClaims is the read side of a verified token, independent of the token
// implementation. The auth middleware stores them; anything downstream of
// it may assume they are present.
type AuthClaims interface {
	GetUserID() uuid.UUID
	GetRole() string
	IsExpired() bool
}

// WithClaims stores the verified claims in the context. Set only for
// authenticated requests.
func WithClaims(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, keyClaims, claims)
}

// ClaimsFromContext returns the stored claims, or nil when the request is
// not authenticated.
func ClaimsFromContext(ctx context.Context) AuthClaims {
	claims, _ := ctx.Value(keyClaims).(AuthClaims)
	return claims
}
