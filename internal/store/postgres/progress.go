package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/store"
)

const progressCols = `id, routine_exercise_id, patient_id, completed, pain_level, difficulty, notes, completed_at`

func (s *Store) InsertProgress(ctx context.Context, p store.ProgressEntry) (*store.ProgressEntry, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO progress (routine_exercise_id, patient_id, completed, pain_level, difficulty, notes, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+progressCols,
		p.RoutineExerciseID, p.PatientID, p.Completed, p.PainLevel, p.Difficulty, p.Notes, p.CompletedAt,
	)
	var out store.ProgressEntry
	if err := row.Scan(&out.ID, &out.RoutineExerciseID, &out.PatientID, &out.Completed, &out.PainLevel, &out.Difficulty, &out.Notes, &out.CompletedAt); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (s *Store) ListProgressByPatient(ctx context.Context, patientID uuid.UUID, asc bool) ([]store.ProgressEntry, error) {
	order := "DESC"
	if asc {
		order = "ASC"
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+progressCols+` FROM progress WHERE patient_id = $1 ORDER BY completed_at `+order,
		patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress by patient: %w", err)
	}
	return collectProgress(rows)
}

func (s *Store) ListProgressByRoutine(ctx context.Context, routineID int64, patientID uuid.UUID) ([]store.ProgressEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT p.id, p.routine_exercise_id, p.patient_id, p.completed, p.pain_level, p.difficulty, p.notes, p.completed_at
		 FROM progress p
		 JOIN routine_exercises re ON re.id = p.routine_exercise_id
		 WHERE p.patient_id = $1 AND re.routine_id = $2
		 ORDER BY p.completed_at DESC`,
		patientID, routineID,
	)
	if err != nil {
		return nil, fmt.Errorf("list progress by routine: %w", err)
	}
	return collectProgress(rows)
}

func collectProgress(rows *sql.Rows) ([]store.ProgressEntry, error) {
	defer rows.Close()
	var out []store.ProgressEntry
	for rows.Next() {
		var p store.ProgressEntry
		if err := rows.Scan(&p.ID, &p.RoutineExerciseID, &p.PatientID, &p.Completed, &p.PainLevel, &p.Difficulty, &p.Notes, &p.CompletedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
