package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/store"
)

func (s *Store) InsertProfile(ctx context.Context, p store.Profile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, role, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		p.ID, p.Email, p.Role, p.PasswordHash, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

func (s *Store) GetProfileByEmail(ctx context.Context, email string) (*store.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, role, password_hash, created_at
		 FROM profiles WHERE email = $1`,
		email,
	)
	return scanProfile(row)
}

func (s *Store) GetProfile(ctx context.Context, id uuid.UUID) (*store.Profile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, role, password_hash, created_at
		 FROM profiles WHERE id = $1`,
		id,
	)
	return scanProfile(row)
}

func scanProfile(row interface{ Scan(...any) error }) (*store.Profile, error) {
	var p store.Profile
	if err := row.Scan(&p.ID, &p.Email, &p.Role, &p.PasswordHash, &p.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &p, nil
}
