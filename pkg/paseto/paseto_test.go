package pasetotoken

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/pkg/authorize"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(Config{
		Mode:       ModeLocal,
		Issuer:     "rehabworks-test",
		Audience:   "rehabworks-api",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
	}, NewLocalKeys())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	m := newTestManager(t)

	userID := uuid.New()
	sessionID := uuid.New()

	token, err := m.IssueAccess(userID, authorize.RolePatient, &sessionID)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.Type != TokenTypeAccess {
		t.Errorf("Type = %q, want %q", claims.Type, TokenTypeAccess)
	}
	if claims.UserID != userID {
		t.Errorf("UserID = %v, want %v", claims.UserID, userID)
	}
	if claims.Role != authorize.RolePatient {
		t.Errorf("Role = %q, want %q", claims.Role, authorize.RolePatient)
	}
	if claims.SessionID == nil || *claims.SessionID != sessionID {
		t.Errorf("SessionID = %v, want %v", claims.SessionID, sessionID)
	}
}

func TestVerifyRejectsForeignKey(t *testing.T) {
	issuer := newTestManager(t)
	verifier := newTestManager(t)

	token, err := issuer.IssueAccess(uuid.New(), authorize.RoleAdmin, nil)
	if err != nil {
		t.Fatalf("IssueAccess() error = %v", err)
	}

	if _, err := verifier.Verify(token); err == nil {
		t.Error("Verify() accepted a token encrypted with a different key")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := newTestManager(t)

	for _, token := range []string{"", "not-a-token", "v4.local.AAAA"} {
		if _, err := m.Verify(token); err == nil {
			t.Errorf("Verify(%q) accepted malformed input", token)
		}
	}
}

func TestRefreshTokenType(t *testing.T) {
	m := newTestManager(t)

	token, err := m.IssueRefresh(uuid.New(), authorize.RoleProfessional, nil)
	if err != nil {
		t.Fatalf("IssueRefresh() error = %v", err)
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if claims.Type != TokenTypeRefresh {
		t.Errorf("Type = %q, want %q", claims.Type, TokenTypeRefresh)
	}
	if claims.SessionID != nil {
		t.Errorf("SessionID = %v, want nil", claims.SessionID)
	}
}
