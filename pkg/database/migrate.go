package database

import (
	"context"
	"fmt"
	"time"
)

// schema holds the DDL statements for the application tables, in dependency
// order. Each statement is idempotent so Migrate can run on every startup
// when auto_migrate is enabled.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS exercises (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		body_part TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_by UUID NOT NULL REFERENCES profiles(id),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_exercises_category ON exercises(category)`,
	`CREATE TABLE IF NOT EXISTS routines (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		patient_id UUID NOT NULL REFERENCES profiles(id),
		professional_id UUID NOT NULL REFERENCES profiles(id),
		start_date DATE NOT NULL,
		end_date DATE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_routines_patient ON routines(patient_id)`,
	`CREATE TABLE IF NOT EXISTS routine_exercises (
		id BIGSERIAL PRIMARY KEY,
		routine_id BIGINT NOT NULL REFERENCES routines(id) ON DELETE CASCADE,
		exercise_id BIGINT NOT NULL REFERENCES exercises(id),
		repetitions INT NOT NULL,
		duration_seconds INT,
		notes TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_routine_exercises_routine ON routine_exercises(routine_id)`,
	`CREATE TABLE IF NOT EXISTS progress (
		id BIGSERIAL PRIMARY KEY,
		routine_exercise_id BIGINT NOT NULL REFERENCES routine_exercises(id) ON DELETE CASCADE,
		patient_id UUID NOT NULL REFERENCES profiles(id),
		completed BOOLEAN NOT NULL,
		pain_level INT NOT NULL,
		difficulty INT NOT NULL,
		notes TEXT,
		completed_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_patient ON progress(patient_id)`,
}

// Migrate applies the application schema to the connected database
func (db *DB) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	return nil
}
