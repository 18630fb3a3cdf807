package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"github.com/rehabworks/rehab_backend/pkg/authorize"
	pasetotoken "github.com/rehabworks/rehab_backend/pkg/paseto"
)

// RequireRoles gates a route on a statically declared set of roles. An empty
// set admits every authenticated caller. A denial names the roles that would
// have been accepted, and nothing else.
//
// This is the coarse, per-endpoint gate; per-entity ownership checks live in
// the services, after the entity has been fetched.
func RequireRoles(allowed ...authorize.Role) fiber.Handler {
	return func(c fiber.Ctx) error {
		claims, ok := pasetotoken.ClaimsFromFiber(c)
		if !ok {
			return fiber.ErrUnauthorized
		}

		if err := authorize.Evaluate(allowed, claims.Role); err != nil {
			var policyErr *authorize.PolicyError
			if errors.As(err, &policyErr) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": policyErr.Error()})
			}
			return fiber.ErrForbidden
		}

		return c.Next()
	}
}
