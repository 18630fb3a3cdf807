package authorize

import "github.com/google/uuid"

// Role is the coarse access level of an authenticated user.
type Role string

const (
	RolePatient      Role = "patient"
	RoleProfessional Role = "professional"
	RoleAdmin        Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RolePatient, RoleProfessional, RoleAdmin:
		return true
	}
	return false
}

// ParseRole converts a stored/transported role string into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Identity is the caller resolved for the current request: who they are and
// what role they hold. It is immutable for the request's lifetime and is
// passed explicitly into every service call rather than stored in shared
// state.
type Identity struct {
	SubjectID uuid.UUID
	Role      Role
}

// IsAdmin reports whether the identity holds the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
