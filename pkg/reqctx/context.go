// Package reqctx carries request-scoped data — the verified caller's claims
// and the request metadata — through context.Context, so code below the
// HTTP layer never touches the framework. Keys are unexported; access goes
// through the typed functions here.
package reqctx

import (
	"context"
	"time"
)

type ctxKey int

const (
	keyRequestMeta ctxKey = iota
	keyClaims
)

// RequestMeta is set by the request-id middleware for every request.
type RequestMeta struct {
	RequestID   string // UUID v4
	ClientIP    string
	UserAgent   string
	RequestedAt time.Time
}

func WithRequestMeta(ctx context.Context, meta *RequestMeta) context.Context {
	return context.WithValue(ctx, keyRequestMeta, meta)
}

func RequestMetaFromContext(ctx context.Context) (*RequestMeta, bool) {
	meta, ok := ctx.Value(keyRequestMeta).(*RequestMeta)
	return meta, ok && meta != nil
}
