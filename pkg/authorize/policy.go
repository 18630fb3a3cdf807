package authorize

import (
	"fmt"
	"slices"
	"strings"
)

// PolicyError is returned when a caller's role is not in an endpoint's
// allowed set. It names the roles that would have been accepted so the
// response can tell the caller what access level the endpoint needs. It
// never carries any other user's data.
type PolicyError struct {
	CallerRole Role
	Allowed    []Role
}

func (e *PolicyError) Error() string {
	names := make([]string, len(e.Allowed))
	for i, r := range e.Allowed {
		names[i] = string(r)
	}
	return fmt.Sprintf("role %q is not permitted; accepted roles: [%s]",
		e.CallerRole, strings.Join(names, ", "))
}

// Evaluate is the role gate applied per endpoint. It permits the caller when
// the endpoint declares no role restriction (empty allowed set) or when the
// caller's role is in the set. It is a pure decision: no I/O, no store
// access. Resolving the identity in the first place happens upstream; an
// unauthenticated request never reaches this function.
func Evaluate(allowed []Role, caller Role) error {
	if len(allowed) == 0 {
		return nil
	}
	if slices.Contains(allowed, caller) {
		return nil
	}
	return &PolicyError{CallerRole: caller, Allowed: allowed}
}
