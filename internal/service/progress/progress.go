// Package progress records patient completions of routine exercises and
// folds them into per-patient reports. Entries are write-once: there is no
// update or delete path.
package progress

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/store"
	"github.com/rehabworks/rehab_backend/pkg/authorize"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	RoutineExerciseID int64
	Completed         bool
	PainLevel         int
	Difficulty        int
	Notes             *string
}

// Report is the aggregated view of a patient's completion history.
type Report struct {
	Total            int                   `json:"total"`
	Completed        int                   `json:"completed"`
	CompletionRate   int                   `json:"completion_rate"`
	AveragePainLevel float64               `json:"average_pain_level"`
	Entries          []store.ProgressEntry `json:"entries"`
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Create records one completion. The caller must be the patient the
	// parent routine was assigned to; a mismatch is reported as not-found
	// and nothing is written.
	Create(ctx context.Context, caller authorize.Identity, req CreateRequest) (*store.ProgressEntry, error)

	ListByPatient(ctx context.Context, caller authorize.Identity, patientID uuid.UUID) ([]store.ProgressEntry, error)

	// ListByRoutine returns the named patient's entries for one routine.
	// Patients may only name themselves.
	ListByRoutine(ctx context.Context, caller authorize.Identity, routineID int64, patientID uuid.UUID) ([]store.ProgressEntry, error)

	// Report folds the patient's full history into summary statistics.
	Report(ctx context.Context, patientID uuid.UUID) (*Report, error)
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type progressService struct {
	entries  store.ProgressStore
	links    store.RoutineExerciseStore
	routines store.RoutineStore
}

func New(entries store.ProgressStore, links store.RoutineExerciseStore, routines store.RoutineStore) Service {
	return &progressService{entries: entries, links: links, routines: routines}
}

func (s *progressService) Create(ctx context.Context, caller authorize.Identity, req CreateRequest) (*store.ProgressEntry, error) {
	if req.PainLevel < 1 || req.PainLevel > 10 {
		return nil, ErrInvalidPain
	}
	if req.Difficulty < 1 || req.Difficulty > 5 {
		return nil, ErrInvalidEffort
	}

	// Resolve the link's parent routine owner before writing anything. A
	// missing link and a foreign routine produce the same error.
	owner, err := s.links.GetRoutineExerciseOwner(ctx, req.RoutineExerciseID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("resolve routine exercise: %w", err)
	}

	if err := authorize.VerifyOwner(authorize.PatientOwner(owner.PatientID), caller); err != nil {
		return nil, ErrNotFound
	}

	entry, err := s.entries.InsertProgress(ctx, store.ProgressEntry{
		RoutineExerciseID: req.RoutineExerciseID,
		PatientID:         owner.PatientID,
		Completed:         req.Completed,
		PainLevel:         req.PainLevel,
		Difficulty:        req.Difficulty,
		Notes:             req.Notes,
		CompletedAt:       time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert progress: %w", err)
	}
	return entry, nil
}

func (s *progressService) ListByPatient(ctx context.Context, caller authorize.Identity, patientID uuid.UUID) ([]store.ProgressEntry, error) {
	// Patients may only request their own history; the mismatch reads as an
	// empty-handed not-found, same as a wrong id.
	if err := authorize.VerifyOwner(authorize.PatientOwner(patientID), caller); err != nil {
		return nil, ErrNotFound
	}

	list, err := s.entries.ListProgressByPatient(ctx, patientID, false)
	if err != nil {
		return nil, fmt.Errorf("list progress by patient: %w", err)
	}
	return list, nil
}

func (s *progressService) ListByRoutine(ctx context.Context, caller authorize.Identity, routineID int64, patientID uuid.UUID) ([]store.ProgressEntry, error) {
	// A patient naming another patient gets the same answer as a wrong
	// routine id.
	if err := authorize.VerifyOwner(authorize.PatientOwner(patientID), caller); err != nil {
		return nil, ErrNotFound
	}

	if _, err := s.routines.GetRoutine(ctx, routineID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}

	list, err := s.entries.ListProgressByRoutine(ctx, routineID, patientID)
	if err != nil {
		return nil, fmt.Errorf("list progress by routine: %w", err)
	}
	return list, nil
}

func (s *progressService) Report(ctx context.Context, patientID uuid.UUID) (*Report, error) {
	entries, err := s.entries.ListProgressByPatient(ctx, patientID, true)
	if err != nil {
		return nil, fmt.Errorf("list progress by patient: %w", err)
	}
	return buildReport(entries), nil
}

// buildReport is a pure fold over the fetched entries.
func buildReport(entries []store.ProgressEntry) *Report {
	r := &Report{Entries: entries}
	if entries == nil {
		r.Entries = []store.ProgressEntry{}
	}

	r.Total = len(entries)
	if r.Total == 0 {
		return r
	}

	painSum := 0
	for _, e := range entries {
		if e.Completed {
			r.Completed++
		}
		painSum += e.PainLevel
	}

	r.CompletionRate = int(math.Round(100 * float64(r.Completed) / float64(r.Total)))
	mean := float64(painSum) / float64(r.Total)
	r.AveragePainLevel = math.Round(mean*10) / 10

	return r
}
