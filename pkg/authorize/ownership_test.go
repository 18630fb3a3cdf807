package authorize

import (
	"testing"

	"github.com/google/uuid"
)

func TestVerifyOwner(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	tests := []struct {
		name   string
		owner  OwnerIDs
		caller Identity
		permit bool
	}{
		{
			name:   "admin passes regardless of owner ids",
			owner:  PatientOwner(owner),
			caller: Identity{SubjectID: other, Role: RoleAdmin},
			permit: true,
		},
		{
			name:   "admin passes with empty owner ids",
			owner:  OwnerIDs{},
			caller: Identity{SubjectID: other, Role: RoleAdmin},
			permit: true,
		},
		{
			name:   "professional passes for any patient's entity",
			owner:  PatientOwner(owner),
			caller: Identity{SubjectID: other, Role: RoleProfessional},
			permit: true,
		},
		{
			name:   "patient passes for own entity",
			owner:  PatientOwner(owner),
			caller: Identity{SubjectID: owner, Role: RolePatient},
			permit: true,
		},
		{
			name:   "patient denied for another patient's entity",
			owner:  PatientOwner(owner),
			caller: Identity{SubjectID: other, Role: RolePatient},
			permit: false,
		},
		{
			name:   "patient denied when entity has no patient owner",
			owner:  OwnerIDs{},
			caller: Identity{SubjectID: owner, Role: RolePatient},
			permit: false,
		},
		{
			name:   "unknown role denied",
			owner:  PatientOwner(owner),
			caller: Identity{SubjectID: owner, Role: Role("visitor")},
			permit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := VerifyOwner(tt.owner, tt.caller)
			if tt.permit && err != nil {
				t.Errorf("expected permit, got %v", err)
			}
			if !tt.permit && err != ErrNotOwner {
				t.Errorf("expected ErrNotOwner, got %v", err)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"patient", "professional", "admin"} {
		if _, ok := ParseRole(valid); !ok {
			t.Errorf("expected %q to parse", valid)
		}
	}
	if _, ok := ParseRole("superuser"); ok {
		t.Error("expected unknown role to be rejected")
	}
}
