// Package store defines the record-store boundary of the API: the entities
// persisted for the rehabilitation domain and the per-entity interfaces the
// services depend on.
//
// The contract is deliberately narrow: every write is a single atomic
// insert/update/delete and no multi-statement transaction is exposed to
// callers. Multi-step operations (routine assignment) build their own
// consistency on top via compensating deletes.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by every implementation when the requested row
// does not exist.
var ErrNotFound = errors.New("record not found")

// ---------------------------------------------------------------------------
// Entities
// ---------------------------------------------------------------------------

// Profile is a registered user: the durable half of an identity. The role is
// stored as a plain string and parsed by pkg/authorize at request time.
type Profile struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Exercise is a catalog entry. Its lifecycle is independent of routines;
// routine-exercise links reference it but never own it.
type Exercise struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	BodyPart    string    `json:"body_part"`
	Description string    `json:"description"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// Routine is a rehabilitation plan assigned by a professional to a patient.
// Both referenced identities have read rights; only professionals and admins
// may mutate it.
type Routine struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	PatientID      uuid.UUID `json:"patient_id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	CreatedAt      time.Time `json:"created_at"`
}

// RoutineExercise links one exercise into one routine with its dose.
type RoutineExercise struct {
	ID              int64   `json:"id"`
	RoutineID       int64   `json:"routine_id"`
	ExerciseID      int64   `json:"exercise_id"`
	Repetitions     int     `json:"repetitions"`
	DurationSeconds *int    `json:"duration_seconds,omitempty"`
	Notes           *string `json:"notes,omitempty"`
}

// ProgressEntry is one patient-recorded completion of a routine exercise.
// Entries are immutable once created.
type ProgressEntry struct {
	ID                int64     `json:"id"`
	RoutineExerciseID int64     `json:"routine_exercise_id"`
	PatientID         uuid.UUID `json:"patient_id"`
	Completed         bool      `json:"completed"`
	PainLevel         int       `json:"pain_level"`
	Difficulty        int       `json:"difficulty"`
	Notes             *string   `json:"notes,omitempty"`
	CompletedAt       time.Time `json:"completed_at"`
}

// ---------------------------------------------------------------------------
// Read models
// ---------------------------------------------------------------------------

// ExerciseSummary is the nested exercise shape embedded in routine and
// progress reads.
type ExerciseSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	BodyPart    string `json:"body_part"`
	Description string `json:"description,omitempty"`
}

// RoutineExerciseDetail is a link joined with its exercise summary.
type RoutineExerciseDetail struct {
	RoutineExercise
	Exercise ExerciseSummary `json:"exercise"`
}

// RoutineDetail is the assembled routine: header plus its links with nested
// exercise summaries. It is the canonical confirmation shape after an
// assignment.
type RoutineDetail struct {
	Routine
	Exercises []RoutineExerciseDetail `json:"routine_exercises"`
}

// RoutineExerciseOwner carries the parent routine's owner ids for a link,
// fetched before an ownership decision.
type RoutineExerciseOwner struct {
	RoutineExerciseID int64
	RoutineID         int64
	PatientID         uuid.UUID
	ProfessionalID    uuid.UUID
}

// ---------------------------------------------------------------------------
// Store interfaces
// ---------------------------------------------------------------------------

type ProfileStore interface {
	InsertProfile(ctx context.Context, p Profile) error
	GetProfileByEmail(ctx context.Context, email string) (*Profile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error)
}

type ExerciseStore interface {
	InsertExercise(ctx context.Context, e Exercise) (*Exercise, error)
	GetExercise(ctx context.Context, id int64) (*Exercise, error)
	ListExercises(ctx context.Context) ([]Exercise, error)
	ListExercisesByCategory(ctx context.Context, category string) ([]Exercise, error)
	UpdateExercise(ctx context.Context, e Exercise) (*Exercise, error)
	DeleteExercise(ctx context.Context, id int64) error
}

type RoutineStore interface {
	// InsertRoutine persists the header only and returns the generated id.
	InsertRoutine(ctx context.Context, r Routine) (int64, error)
	GetRoutine(ctx context.Context, id int64) (*Routine, error)
	// GetRoutineDetail assembles header, links and exercise summaries.
	GetRoutineDetail(ctx context.Context, id int64) (*RoutineDetail, error)
	ListRoutines(ctx context.Context) ([]Routine, error)
	ListRoutinesByPatient(ctx context.Context, patientID uuid.UUID) ([]Routine, error)
	UpdateRoutine(ctx context.Context, r Routine) (*Routine, error)
	DeleteRoutine(ctx context.Context, id int64) error
}

type RoutineExerciseStore interface {
	InsertRoutineExercise(ctx context.Context, l RoutineExercise) (*RoutineExercise, error)
	// InsertRoutineExerciseBatch persists the whole batch as one store call.
	// On failure nothing from the batch is considered committed by callers;
	// the orchestrator compensates for the already-committed header.
	InsertRoutineExerciseBatch(ctx context.Context, links []RoutineExercise) ([]RoutineExercise, error)
	GetRoutineExercise(ctx context.Context, id int64) (*RoutineExercise, error)
	// GetRoutineExerciseOwner resolves the link's parent routine owner ids.
	GetRoutineExerciseOwner(ctx context.Context, id int64) (*RoutineExerciseOwner, error)
	ListRoutineExercises(ctx context.Context, routineID int64) ([]RoutineExerciseDetail, error)
	UpdateRoutineExercise(ctx context.Context, l RoutineExercise) (*RoutineExercise, error)
	DeleteRoutineExercise(ctx context.Context, id int64) error
}

type ProgressStore interface {
	InsertProgress(ctx context.Context, p ProgressEntry) (*ProgressEntry, error)
	// ListProgressByPatient returns entries ordered by completion time;
	// ascending chronological order when asc is true, newest first otherwise.
	ListProgressByPatient(ctx context.Context, patientID uuid.UUID, asc bool) ([]ProgressEntry, error)
	ListProgressByRoutine(ctx context.Context, routineID int64, patientID uuid.UUID) ([]ProgressEntry, error)
}

// Store is the full record-store surface, implemented by postgres for
// production and memory for tests.
type Store interface {
	ProfileStore
	ExerciseStore
	RoutineStore
	RoutineExerciseStore
	ProgressStore
}
