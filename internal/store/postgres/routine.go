package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/store"
)

const routineCols = `id, name, patient_id, professional_id, start_date, end_date, created_at`

func (s *Store) InsertRoutine(ctx context.Context, r store.Routine) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO routines (name, patient_id, professional_id, start_date, end_date)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		r.Name, r.PatientID, r.ProfessionalID, r.StartDate, r.EndDate,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert routine: %w", err)
	}
	return id, nil
}

func (s *Store) GetRoutine(ctx context.Context, id int64) (*store.Routine, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+routineCols+` FROM routines WHERE id = $1`, id)
	var r store.Routine
	if err := row.Scan(&r.ID, &r.Name, &r.PatientID, &r.ProfessionalID, &r.StartDate, &r.EndDate, &r.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (s *Store) GetRoutineDetail(ctx context.Context, id int64) (*store.RoutineDetail, error) {
	r, err := s.GetRoutine(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.ListRoutineExercises(ctx, id)
	if err != nil {
		return nil, err
	}
	return &store.RoutineDetail{Routine: *r, Exercises: links}, nil
}

func (s *Store) ListRoutines(ctx context.Context) ([]store.Routine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+routineCols+` FROM routines ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	defer rows.Close()
	var out []store.Routine
	for rows.Next() {
		var r store.Routine
		if err := rows.Scan(&r.ID, &r.Name, &r.PatientID, &r.ProfessionalID, &r.StartDate, &r.EndDate, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ListRoutinesByPatient(ctx context.Context, patientID uuid.UUID) ([]store.Routine, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+routineCols+` FROM routines WHERE patient_id = $1 ORDER BY created_at DESC`,
		patientID,
	)
	if err != nil {
		return nil, fmt.Errorf("list routines by patient: %w", err)
	}
	defer rows.Close()
	var out []store.Routine
	for rows.Next() {
		var r store.Routine
		if err := rows.Scan(&r.ID, &r.Name, &r.PatientID, &r.ProfessionalID, &r.StartDate, &r.EndDate, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) UpdateRoutine(ctx context.Context, r store.Routine) (*store.Routine, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE routines
		 SET name = $2, patient_id = $3, start_date = $4, end_date = $5
		 WHERE id = $1
		 RETURNING `+routineCols,
		r.ID, r.Name, r.PatientID, r.StartDate, r.EndDate,
	)
	var out store.Routine
	if err := row.Scan(&out.ID, &out.Name, &out.PatientID, &out.ProfessionalID, &out.StartDate, &out.EndDate, &out.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (s *Store) DeleteRoutine(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM routines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	return requireAffected(res)
}

// ---------------------------------------------------------------------------
// Routine exercises
// ---------------------------------------------------------------------------

const linkCols = `id, routine_id, exercise_id, repetitions, duration_seconds, notes`

func (s *Store) InsertRoutineExercise(ctx context.Context, l store.RoutineExercise) (*store.RoutineExercise, error) {
	row := s.db.QueryRowContext(ctx,
		`INSERT INTO routine_exercises (routine_id, exercise_id, repetitions, duration_seconds, notes)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+linkCols,
		l.RoutineID, l.ExerciseID, l.Repetitions, l.DurationSeconds, l.Notes,
	)
	return scanLink(row)
}

// InsertRoutineExerciseBatch writes the whole batch as one multi-row INSERT,
// so the store either accepts all links or none of them.
func (s *Store) InsertRoutineExerciseBatch(ctx context.Context, links []store.RoutineExercise) ([]store.RoutineExercise, error) {
	if len(links) == 0 {
		return nil, nil
	}

	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`INSERT INTO routine_exercises (routine_id, exercise_id, repetitions, duration_seconds, notes) VALUES `)
	for i, l := range links {
		if i > 0 {
			sb.WriteString(", ")
		}
		base := i * 5
		fmt.Fprintf(&sb, "($%d, $%d, $%d, $%d, $%d)", base+1, base+2, base+3, base+4, base+5)
		args = append(args, l.RoutineID, l.ExerciseID, l.Repetitions, l.DurationSeconds, l.Notes)
	}
	sb.WriteString(` RETURNING ` + linkCols)

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("insert routine exercise batch: %w", err)
	}
	defer rows.Close()

	var out []store.RoutineExercise
	for rows.Next() {
		var l store.RoutineExercise
		if err := rows.Scan(&l.ID, &l.RoutineID, &l.ExerciseID, &l.Repetitions, &l.DurationSeconds, &l.Notes); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (s *Store) GetRoutineExercise(ctx context.Context, id int64) (*store.RoutineExercise, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+linkCols+` FROM routine_exercises WHERE id = $1`, id)
	return scanLink(row)
}

func (s *Store) GetRoutineExerciseOwner(ctx context.Context, id int64) (*store.RoutineExerciseOwner, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT re.id, re.routine_id, r.patient_id, r.professional_id
		 FROM routine_exercises re
		 JOIN routines r ON r.id = re.routine_id
		 WHERE re.id = $1`,
		id,
	)
	var o store.RoutineExerciseOwner
	if err := row.Scan(&o.RoutineExerciseID, &o.RoutineID, &o.PatientID, &o.ProfessionalID); err != nil {
		return nil, mapErr(err)
	}
	return &o, nil
}

func (s *Store) ListRoutineExercises(ctx context.Context, routineID int64) ([]store.RoutineExerciseDetail, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT re.id, re.routine_id, re.exercise_id, re.repetitions, re.duration_seconds, re.notes,
		        e.id, e.name, e.category, e.body_part, e.description
		 FROM routine_exercises re
		 JOIN exercises e ON e.id = re.exercise_id
		 WHERE re.routine_id = $1
		 ORDER BY re.id`,
		routineID,
	)
	if err != nil {
		return nil, fmt.Errorf("list routine exercises: %w", err)
	}
	defer rows.Close()

	var out []store.RoutineExerciseDetail
	for rows.Next() {
		var d store.RoutineExerciseDetail
		if err := rows.Scan(
			&d.ID, &d.RoutineID, &d.ExerciseID, &d.Repetitions, &d.DurationSeconds, &d.Notes,
			&d.Exercise.ID, &d.Exercise.Name, &d.Exercise.Category, &d.Exercise.BodyPart, &d.Exercise.Description,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *Store) UpdateRoutineExercise(ctx context.Context, l store.RoutineExercise) (*store.RoutineExercise, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE routine_exercises
		 SET repetitions = $2, duration_seconds = $3, notes = $4
		 WHERE id = $1
		 RETURNING `+linkCols,
		l.ID, l.Repetitions, l.DurationSeconds, l.Notes,
	)
	return scanLink(row)
}

func (s *Store) DeleteRoutineExercise(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM routine_exercises WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete routine exercise: %w", err)
	}
	return requireAffected(res)
}

func scanLink(row interface{ Scan(...any) error }) (*store.RoutineExercise, error) {
	var l store.RoutineExercise
	if err := row.Scan(&l.ID, &l.RoutineID, &l.ExerciseID, &l.Repetitions, &l.DurationSeconds, &l.Notes); err != nil {
		return nil, mapErr(err)
	}
	return &l, nil
}
