package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/rehabworks/rehab_backend/config"
	"github.com/rehabworks/rehab_backend/internal/store"
	"github.com/rehabworks/rehab_backend/pkg/authorize"
	"github.com/rehabworks/rehab_backend/pkg/email"
	pasetotoken "github.com/rehabworks/rehab_backend/pkg/paseto"
	"github.com/rehabworks/rehab_backend/pkg/util/password"
)

const defaultMinPasswordLength = 8

// redisKeySession returns the Redis key for a session.
func redisKeySession(sessionID string) string { return "session:" + sessionID }

var reEmail = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type RegisterRequest struct {
	Email    string
	Password string
	Role     string
}

type LoginRequest struct {
	Email    string
	Password string
}

type AuthTokens struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64 // seconds until access token expires
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*store.Profile, *AuthTokens, error)
	Login(ctx context.Context, req LoginRequest) (*store.Profile, *AuthTokens, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error)
	Logout(ctx context.Context, sessionID uuid.UUID) error
	Profile(ctx context.Context, userID uuid.UUID) (*store.Profile, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type authService struct {
	profiles   store.ProfileStore
	rdb        *redis.Client
	mailer     *email.Client
	paseto     *pasetotoken.Manager
	cfg        *config.Config
	log        *slog.Logger
	hashParams *password.Params
}

func New(
	profiles store.ProfileStore,
	rdb *redis.Client,
	mailer *email.Client,
	paseto *pasetotoken.Manager,
	cfg *config.Config,
	log *slog.Logger,
) Service {
	return &authService{
		profiles:   profiles,
		rdb:        rdb,
		mailer:     mailer,
		paseto:     paseto,
		cfg:        cfg,
		log:        log,
		hashParams: password.FromCentralConfig(cfg.Password).ToParams(),
	}
}

// ---------------------------------------------------------------------------
// Register
// ---------------------------------------------------------------------------

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*store.Profile, *AuthTokens, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if !reEmail.MatchString(req.Email) {
		return nil, nil, ErrInvalidEmail
	}

	role, ok := authorize.ParseRole(req.Role)
	if !ok {
		return nil, nil, ErrInvalidRole
	}

	minLen := s.cfg.Authentication.MinPasswordLength
	if minLen <= 0 {
		minLen = defaultMinPasswordLength
	}
	if len(req.Password) < minLen {
		return nil, nil, ErrPasswordTooShort
	}

	// Check email uniqueness
	_, err := s.profiles.GetProfileByEmail(ctx, req.Email)
	if err == nil {
		return nil, nil, ErrEmailAlreadyExists
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, nil, fmt.Errorf("check email: %w", err)
	}

	passHash, err := password.HashWithParams(req.Password, s.hashParams)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	profile := store.Profile{
		ID:           uuid.Must(uuid.NewV7()),
		Email:        req.Email,
		Role:         string(role),
		PasswordHash: passHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.profiles.InsertProfile(ctx, profile); err != nil {
		return nil, nil, fmt.Errorf("create profile: %w", err)
	}

	// Welcome email is best-effort; a mail outage must not block signup.
	if s.mailer != nil {
		err := s.mailer.SendWelcome(ctx, email.WelcomeEmailData{
			Email: profile.Email,
			Role:  profile.Role,
		})
		if err != nil {
			var disabled email.ErrDisabled
			if !errors.As(err, &disabled) {
				s.log.Warn("failed to send welcome email", "email", profile.Email, "error", err)
			}
		}
	}

	tokens, err := s.createSession(ctx, &profile, role)
	if err != nil {
		return nil, nil, err
	}
	return &profile, tokens, nil
}

// ---------------------------------------------------------------------------
// Login
// ---------------------------------------------------------------------------

func (s *authService) Login(ctx context.Context, req LoginRequest) (*store.Profile, *AuthTokens, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return nil, nil, ErrInvalidCredentials
	}

	profile, err := s.profiles.GetProfileByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("find profile: %w", err)
	}

	if err := password.Verify(profile.PasswordHash, req.Password); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	role, ok := authorize.ParseRole(profile.Role)
	if !ok {
		return nil, nil, fmt.Errorf("profile %s has unknown role %q", profile.ID, profile.Role)
	}

	tokens, err := s.createSession(ctx, profile, role)
	if err != nil {
		return nil, nil, err
	}
	return profile, tokens, nil
}

// ---------------------------------------------------------------------------
// RefreshTokens
// ---------------------------------------------------------------------------

func (s *authService) RefreshTokens(ctx context.Context, refreshToken string) (*AuthTokens, error) {
	claims, err := s.paseto.Verify(refreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}
	if claims.Type != pasetotoken.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}
	if claims.SessionID == nil {
		return nil, ErrInvalidToken
	}

	sessionKey := redisKeySession(claims.SessionID.String())

	// Check session exists
	if err := s.rdb.Get(ctx, sessionKey).Err(); err == redis.Nil {
		return nil, ErrSessionNotFound
	} else if err != nil {
		return nil, fmt.Errorf("redis get session: %w", err)
	}

	// Extend session TTL
	refreshTTL := time.Duration(s.cfg.Authentication.Paseto.RefreshTTLDays) * 24 * time.Hour
	s.rdb.Expire(ctx, sessionKey, refreshTTL)

	// Issue new access token only (refresh token stays the same until logout)
	accessToken, err := s.paseto.IssueAccess(claims.UserID, claims.Role, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken, // unchanged
		ExpiresIn:    int64(s.paseto.AccessTTL().Seconds()),
	}, nil
}

// ---------------------------------------------------------------------------
// Logout
// ---------------------------------------------------------------------------

func (s *authService) Logout(ctx context.Context, sessionID uuid.UUID) error {
	deleted, err := s.rdb.Del(ctx, redisKeySession(sessionID.String())).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		// Session already expired — not an error from the client's perspective
		s.log.Debug("logout: session not found in Redis (already expired)", "session_id", sessionID)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Profile
// ---------------------------------------------------------------------------

func (s *authService) Profile(ctx context.Context, userID uuid.UUID) (*store.Profile, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func (s *authService) createSession(ctx context.Context, p *store.Profile, role authorize.Role) (*AuthTokens, error) {
	sessionID := uuid.Must(uuid.NewV7())

	refreshTTL := time.Duration(s.cfg.Authentication.Paseto.RefreshTTLDays) * 24 * time.Hour

	sessionKey := redisKeySession(sessionID.String())
	if err := s.rdb.Set(ctx, sessionKey, p.ID.String(), refreshTTL).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	access, err := s.paseto.IssueAccess(p.ID, role, &sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.paseto.IssueRefresh(p.ID, role, &sessionID)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	return &AuthTokens{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.paseto.AccessTTL().Seconds()),
	}, nil
}
