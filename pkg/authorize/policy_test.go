package authorize

import (
	"errors"
	"strings"
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name    string
		allowed []Role
		caller  Role
		permit  bool
	}{
		{
			name:    "empty allowed set permits any authenticated caller",
			allowed: nil,
			caller:  RolePatient,
			permit:  true,
		},
		{
			name:    "caller role in set",
			allowed: []Role{RoleProfessional, RoleAdmin},
			caller:  RoleProfessional,
			permit:  true,
		},
		{
			name:    "admin in set",
			allowed: []Role{RoleProfessional, RoleAdmin},
			caller:  RoleAdmin,
			permit:  true,
		},
		{
			name:    "caller role not in set",
			allowed: []Role{RoleProfessional, RoleAdmin},
			caller:  RolePatient,
			permit:  false,
		},
		{
			name:    "patient-only endpoint denies professional",
			allowed: []Role{RolePatient},
			caller:  RoleProfessional,
			permit:  false,
		},
		{
			name:    "admin is not implicitly allowed at the role gate",
			allowed: []Role{RolePatient},
			caller:  RoleAdmin,
			permit:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Evaluate(tt.allowed, tt.caller)
			if tt.permit && err != nil {
				t.Errorf("expected permit, got %v", err)
			}
			if !tt.permit && err == nil {
				t.Error("expected deny, got permit")
			}
		})
	}
}

func TestEvaluateDenyNamesAcceptedRoles(t *testing.T) {
	err := Evaluate([]Role{RoleProfessional, RoleAdmin}, RolePatient)
	if err == nil {
		t.Fatal("expected deny")
	}

	var pe *PolicyError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PolicyError, got %T", err)
	}
	if len(pe.Allowed) != 2 {
		t.Errorf("expected 2 accepted roles, got %d", len(pe.Allowed))
	}
	if !strings.Contains(err.Error(), "professional") || !strings.Contains(err.Error(), "admin") {
		t.Errorf("error message should name the accepted roles, got %q", err.Error())
	}
}
