package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rehabworks/rehab_backend/pkg/authorize"
	"github.com/rehabworks/rehab_backend/pkg/reqctx"
)

// identityFromFiber resolves the request's caller identity from the claims
// the auth middleware stored in the request context.
func identityFromFiber(c fiber.Ctx) (authorize.Identity, bool) {
	claims := reqctx.ClaimsFromContext(c.Context())
	if claims == nil {
		return authorize.Identity{}, false
	}
	role, ok := authorize.ParseRole(claims.GetRole())
	if !ok {
		return authorize.Identity{}, false
	}
	return authorize.Identity{SubjectID: claims.GetUserID(), Role: role}, true
}
