// Package routine implements routine management, including the two-step
// assignment of a routine header plus its exercise links. The record store
// exposes no cross-table transaction, so assignment is an orchestrated pair
// of inserts with a compensating delete on partial failure.
package routine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/store"
	"github.com/rehabworks/rehab_backend/pkg/authorize"
	"github.com/rehabworks/rehab_backend/pkg/email"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type LinkRequest struct {
	ExerciseID      int64
	Repetitions     int
	DurationSeconds *int
	Notes           *string
}

type AssignRequest struct {
	Name           string
	PatientID      uuid.UUID
	ProfessionalID uuid.UUID
	StartDate      time.Time
	EndDate        time.Time
	Exercises      []LinkRequest
}

type UpdateRequest struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
}

type UpdateLinkRequest struct {
	Repetitions     *int
	DurationSeconds *int
	Notes           *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	// Assign creates the routine header and its exercise links as one
	// logical operation and returns the persisted routine re-read from the
	// store.
	Assign(ctx context.Context, req AssignRequest) (*store.RoutineDetail, error)

	List(ctx context.Context) ([]store.Routine, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]store.Routine, error)
	GetByID(ctx context.Context, caller authorize.Identity, id int64) (*store.RoutineDetail, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*store.Routine, error)
	Delete(ctx context.Context, id int64) error

	AddExercise(ctx context.Context, routineID int64, req LinkRequest) (*store.RoutineExercise, error)

	// AddExerciseBatch appends several links to an existing routine in one
	// store call; the batch lands entirely or not at all.
	AddExerciseBatch(ctx context.Context, routineID int64, reqs []LinkRequest) ([]store.RoutineExercise, error)
	ListExercises(ctx context.Context, caller authorize.Identity, routineID int64) ([]store.RoutineExerciseDetail, error)
	GetExercise(ctx context.Context, caller authorize.Identity, linkID int64) (*store.RoutineExercise, error)
	UpdateExercise(ctx context.Context, linkID int64, req UpdateLinkRequest) (*store.RoutineExercise, error)
	RemoveExercise(ctx context.Context, linkID int64) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type routineService struct {
	routines store.RoutineStore
	links    store.RoutineExerciseStore
	profiles store.ProfileStore
	mailer   *email.Client
	log      *slog.Logger
}

func New(
	routines store.RoutineStore,
	links store.RoutineExerciseStore,
	profiles store.ProfileStore,
	mailer *email.Client,
	log *slog.Logger,
) Service {
	return &routineService{
		routines: routines,
		links:    links,
		profiles: profiles,
		mailer:   mailer,
		log:      log,
	}
}

// ---------------------------------------------------------------------------
// Assign
// ---------------------------------------------------------------------------

func (s *routineService) Assign(ctx context.Context, req AssignRequest) (*store.RoutineDetail, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidDates
	}

	// Step 1: header insert. A failure here commits nothing; report it
	// verbatim.
	routineID, err := s.routines.InsertRoutine(ctx, store.Routine{
		Name:           req.Name,
		PatientID:      req.PatientID,
		ProfessionalID: req.ProfessionalID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		CreatedAt:      time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("insert routine: %w", err)
	}

	// Step 2: batch link insert. An empty batch is valid — exercises may be
	// attached in later calls.
	if len(req.Exercises) > 0 {
		batch := make([]store.RoutineExercise, 0, len(req.Exercises))
		for _, l := range req.Exercises {
			batch = append(batch, store.RoutineExercise{
				RoutineID:       routineID,
				ExerciseID:      l.ExerciseID,
				Repetitions:     l.Repetitions,
				DurationSeconds: l.DurationSeconds,
				Notes:           l.Notes,
			})
		}

		if _, err := s.links.InsertRoutineExerciseBatch(ctx, batch); err != nil {
			// Compensate: delete the header committed in step 1. If the
			// delete itself fails, surface both errors; the orphan must not
			// be hidden.
			if delErr := s.routines.DeleteRoutine(ctx, routineID); delErr != nil {
				s.log.Error("routine assignment rollback failed",
					"routine_id", routineID,
					"insert_error", err,
					"rollback_error", delErr,
				)
				return nil, &RollbackError{RoutineID: routineID, InsertErr: err, RollbackErr: delErr}
			}
			return nil, fmt.Errorf("insert routine exercises: %w", err)
		}
	}

	// Confirm from the store, not from the request payload.
	detail, err := s.routines.GetRoutineDetail(ctx, routineID)
	if err != nil {
		return nil, fmt.Errorf("fetch assigned routine: %w", err)
	}

	s.notifyAssignment(ctx, detail)
	return detail, nil
}

// notifyAssignment emails the assigned patient. Best-effort: a mail or
// profile-lookup failure never fails the assignment itself.
func (s *routineService) notifyAssignment(ctx context.Context, d *store.RoutineDetail) {
	if s.mailer == nil {
		return
	}

	profile, err := s.profiles.GetProfile(ctx, d.PatientID)
	if err != nil {
		s.log.Warn("skipping assignment email", "patient_id", d.PatientID, "error", err)
		return
	}

	err = s.mailer.SendRoutineAssigned(ctx, email.RoutineAssignedEmailData{
		Email:       profile.Email,
		RoutineName: d.Name,
		StartDate:   d.StartDate.Format("2006-01-02"),
		EndDate:     d.EndDate.Format("2006-01-02"),
	})
	if err != nil {
		var disabled email.ErrDisabled
		if !errors.As(err, &disabled) {
			s.log.Warn("failed to send assignment email", "email", profile.Email, "error", err)
		}
	}
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func (s *routineService) List(ctx context.Context) ([]store.Routine, error) {
	list, err := s.routines.ListRoutines(ctx)
	if err != nil {
		return nil, fmt.Errorf("list routines: %w", err)
	}
	return list, nil
}

func (s *routineService) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]store.Routine, error) {
	list, err := s.routines.ListRoutinesByPatient(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("list routines by patient: %w", err)
	}
	return list, nil
}

// GetByID fetches a routine and runs the ownership gate against the caller.
// An ownership mismatch is reported as ErrNotFound so a non-owner cannot
// distinguish someone else's routine from a missing one.
func (s *routineService) GetByID(ctx context.Context, caller authorize.Identity, id int64) (*store.RoutineDetail, error) {
	detail, err := s.routines.GetRoutineDetail(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}

	owner := authorize.OwnerIDs{
		PatientID:      &detail.PatientID,
		ProfessionalID: &detail.ProfessionalID,
	}
	if err := authorize.VerifyOwner(owner, caller); err != nil {
		return nil, ErrNotFound
	}
	return detail, nil
}

// ---------------------------------------------------------------------------
// Mutations
// ---------------------------------------------------------------------------

func (s *routineService) Update(ctx context.Context, id int64, req UpdateRequest) (*store.Routine, error) {
	current, err := s.routines.GetRoutine(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		current.Name = name
	}
	if req.StartDate != nil {
		current.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		current.EndDate = *req.EndDate
	}
	if current.EndDate.Before(current.StartDate) {
		return nil, ErrInvalidDates
	}

	updated, err := s.routines.UpdateRoutine(ctx, *current)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update routine: %w", err)
	}
	return updated, nil
}

func (s *routineService) Delete(ctx context.Context, id int64) error {
	if err := s.routines.DeleteRoutine(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete routine: %w", err)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Routine exercises
// ---------------------------------------------------------------------------

func (s *routineService) AddExercise(ctx context.Context, routineID int64, req LinkRequest) (*store.RoutineExercise, error) {
	// The parent must exist; links never dangle.
	if _, err := s.routines.GetRoutine(ctx, routineID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}

	link, err := s.links.InsertRoutineExercise(ctx, store.RoutineExercise{
		RoutineID:       routineID,
		ExerciseID:      req.ExerciseID,
		Repetitions:     req.Repetitions,
		DurationSeconds: req.DurationSeconds,
		Notes:           req.Notes,
	})
	if err != nil {
		return nil, fmt.Errorf("insert routine exercise: %w", err)
	}
	return link, nil
}

func (s *routineService) AddExerciseBatch(ctx context.Context, routineID int64, reqs []LinkRequest) ([]store.RoutineExercise, error) {
	// The parent must exist; links never dangle.
	if _, err := s.routines.GetRoutine(ctx, routineID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}

	if len(reqs) == 0 {
		return []store.RoutineExercise{}, nil
	}

	batch := make([]store.RoutineExercise, 0, len(reqs))
	for _, req := range reqs {
		batch = append(batch, store.RoutineExercise{
			RoutineID:       routineID,
			ExerciseID:      req.ExerciseID,
			Repetitions:     req.Repetitions,
			DurationSeconds: req.DurationSeconds,
			Notes:           req.Notes,
		})
	}

	links, err := s.links.InsertRoutineExerciseBatch(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("insert routine exercise batch: %w", err)
	}
	return links, nil
}

func (s *routineService) ListExercises(ctx context.Context, caller authorize.Identity, routineID int64) ([]store.RoutineExerciseDetail, error) {
	routine, err := s.routines.GetRoutine(ctx, routineID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get routine: %w", err)
	}

	owner := authorize.OwnerIDs{
		PatientID:      &routine.PatientID,
		ProfessionalID: &routine.ProfessionalID,
	}
	if err := authorize.VerifyOwner(owner, caller); err != nil {
		return nil, ErrNotFound
	}

	list, err := s.links.ListRoutineExercises(ctx, routineID)
	if err != nil {
		return nil, fmt.Errorf("list routine exercises: %w", err)
	}
	return list, nil
}

func (s *routineService) GetExercise(ctx context.Context, caller authorize.Identity, linkID int64) (*store.RoutineExercise, error) {
	owner, err := s.links.GetRoutineExerciseOwner(ctx, linkID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("get routine exercise owner: %w", err)
	}

	ids := authorize.OwnerIDs{
		PatientID:      &owner.PatientID,
		ProfessionalID: &owner.ProfessionalID,
	}
	if err := authorize.VerifyOwner(ids, caller); err != nil {
		return nil, ErrLinkNotFound
	}

	link, err := s.links.GetRoutineExercise(ctx, linkID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("get routine exercise: %w", err)
	}
	return link, nil
}

func (s *routineService) UpdateExercise(ctx context.Context, linkID int64, req UpdateLinkRequest) (*store.RoutineExercise, error) {
	current, err := s.links.GetRoutineExercise(ctx, linkID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("get routine exercise: %w", err)
	}

	if req.Repetitions != nil {
		current.Repetitions = *req.Repetitions
	}
	if req.DurationSeconds != nil {
		current.DurationSeconds = req.DurationSeconds
	}
	if req.Notes != nil {
		current.Notes = req.Notes
	}

	updated, err := s.links.UpdateRoutineExercise(ctx, *current)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, fmt.Errorf("update routine exercise: %w", err)
	}
	return updated, nil
}

func (s *routineService) RemoveExercise(ctx context.Context, linkID int64) error {
	if err := s.links.DeleteRoutineExercise(ctx, linkID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrLinkNotFound
		}
		return fmt.Errorf("delete routine exercise: %w", err)
	}
	return nil
}
