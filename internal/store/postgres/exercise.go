package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rehabworks/rehab_backend/internal/store"
)

const exerciseCols = `id, name, category, body_part, description, created_by, created_at`

func (s *Store) InsertExercise(ctx context.Context, e store.Exercise) (*store.Exercise, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO exercises (name, category, body_part, description, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+exerciseCols,
		e.Name, e.Category, e.BodyPart, e.Description, e.CreatedBy,
	)
	return scanExercise(row)
}

func (s *Store) GetExercise(ctx context.Context, id int64) (*store.Exercise, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+exerciseCols+` FROM exercises WHERE id = $1`, id)
	return scanExercise(row)
}

func (s *Store) ListExercises(ctx context.Context) ([]store.Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+exerciseCols+` FROM exercises ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return collectExercises(rows)
}

func (s *Store) ListExercisesByCategory(ctx context.Context, category string) ([]store.Exercise, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+exerciseCols+` FROM exercises WHERE category = $1 ORDER BY name`,
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("list exercises by category: %w", err)
	}
	return collectExercises(rows)
}

func (s *Store) UpdateExercise(ctx context.Context, e store.Exercise) (*store.Exercise, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE exercises
		 SET name = $2, category = $3, body_part = $4, description = $5
		 WHERE id = $1
		 RETURNING `+exerciseCols,
		e.ID, e.Name, e.Category, e.BodyPart, e.Description,
	)
	return scanExercise(row)
}

func (s *Store) DeleteExercise(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM exercises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete exercise: %w", err)
	}
	return requireAffected(res)
}

func scanExercise(row interface{ Scan(...any) error }) (*store.Exercise, error) {
	var e store.Exercise
	if err := row.Scan(&e.ID, &e.Name, &e.Category, &e.BodyPart, &e.Description, &e.CreatedBy, &e.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func collectExercises(rows *sql.Rows) ([]store.Exercise, error) {
	defer rows.Close()
	var out []store.Exercise
	for rows.Next() {
		var e store.Exercise
		if err := rows.Scan(&e.ID, &e.Name, &e.Category, &e.BodyPart, &e.Description, &e.CreatedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
