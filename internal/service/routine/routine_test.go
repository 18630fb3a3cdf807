package routine

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/store"
	"github.com/rehabworks/rehab_backend/internal/store/memory"
	"github.com/rehabworks/rehab_backend/pkg/authorize"
	"github.com/rehabworks/rehab_backend/pkg/email"
)

func newService(mem *memory.Store) Service {
	// A disabled mail client: sends resolve to ErrDisabled, which the
	// service tolerates.
	mailer, _ := email.New(email.Config{})
	return New(mem, mem, mem, mailer, slog.New(slog.DiscardHandler))
}

func assignRequest(patientID, professionalID uuid.UUID, links ...LinkRequest) AssignRequest {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return AssignRequest{
		Name:           "knee recovery",
		PatientID:      patientID,
		ProfessionalID: professionalID,
		StartDate:      start,
		EndDate:        start.AddDate(0, 1, 0),
		Exercises:      links,
	}
}

func seedExercise(t *testing.T, mem *memory.Store, name string) *store.Exercise {
	t.Helper()
	e, err := mem.InsertExercise(context.Background(), store.Exercise{
		Name:     name,
		Category: "Movilidad",
		BodyPart: "knee",
	})
	if err != nil {
		t.Fatalf("seed exercise: %v", err)
	}
	return e
}

func TestAssign(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()
	professionalID := uuid.New()

	t.Run("success returns persisted routine with links", func(t *testing.T) {
		mem := memory.New()
		svc := newService(mem)
		e1 := seedExercise(t, mem, "squat")
		e2 := seedExercise(t, mem, "lunge")

		detail, err := svc.Assign(ctx, assignRequest(patientID, professionalID,
			LinkRequest{ExerciseID: e1.ID, Repetitions: 10},
			LinkRequest{ExerciseID: e2.ID, Repetitions: 8},
		))
		if err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if detail.Name != "knee recovery" {
			t.Errorf("Assign() name = %q", detail.Name)
		}
		if len(detail.Exercises) != 2 {
			t.Fatalf("Assign() links = %d, want 2", len(detail.Exercises))
		}
		if detail.Exercises[0].Exercise.Name == "" {
			t.Errorf("Assign() link missing nested exercise summary")
		}
	})

	t.Run("empty link set is accepted", func(t *testing.T) {
		mem := memory.New()
		svc := newService(mem)

		detail, err := svc.Assign(ctx, assignRequest(patientID, professionalID))
		if err != nil {
			t.Fatalf("Assign() error = %v", err)
		}
		if len(detail.Exercises) != 0 {
			t.Errorf("Assign() links = %d, want 0", len(detail.Exercises))
		}
	})

	t.Run("header insert failure commits nothing", func(t *testing.T) {
		mem := memory.New()
		mem.FailInsertRoutine = errors.New("connection reset")
		svc := newService(mem)

		_, err := svc.Assign(ctx, assignRequest(patientID, professionalID))
		if err == nil {
			t.Fatal("Assign() expected error")
		}
		routines, _ := mem.ListRoutines(ctx)
		if len(routines) != 0 {
			t.Errorf("routines = %d, want 0", len(routines))
		}
	})

	t.Run("batch failure rolls back the header", func(t *testing.T) {
		mem := memory.New()
		svc := newService(mem)
		e := seedExercise(t, mem, "squat")
		batchErr := errors.New("foreign key violation")
		mem.FailInsertBatch = batchErr

		_, err := svc.Assign(ctx, assignRequest(patientID, professionalID,
			LinkRequest{ExerciseID: e.ID, Repetitions: 10},
		))
		if !errors.Is(err, batchErr) {
			t.Fatalf("Assign() error = %v, want wrapped %v", err, batchErr)
		}

		// The half-written header must be gone.
		if mem.HasRoutine(1) {
			t.Error("routine header survived a failed batch insert")
		}
		caller := authorize.Identity{SubjectID: professionalID, Role: authorize.RoleProfessional}
		if _, err := svc.GetByID(ctx, caller, 1); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByID() after rollback error = %v, want ErrNotFound", err)
		}
	})

	t.Run("failed rollback reports both errors", func(t *testing.T) {
		mem := memory.New()
		svc := newService(mem)
		e := seedExercise(t, mem, "squat")
		batchErr := errors.New("foreign key violation")
		delErr := errors.New("connection lost")
		mem.FailInsertBatch = batchErr
		mem.FailDeleteRoutine = delErr

		_, err := svc.Assign(ctx, assignRequest(patientID, professionalID,
			LinkRequest{ExerciseID: e.ID, Repetitions: 10},
		))

		var rbErr *RollbackError
		if !errors.As(err, &rbErr) {
			t.Fatalf("Assign() error = %T, want *RollbackError", err)
		}
		if !errors.Is(rbErr.InsertErr, batchErr) {
			t.Errorf("InsertErr = %v, want %v", rbErr.InsertErr, batchErr)
		}
		if !errors.Is(rbErr.RollbackErr, delErr) {
			t.Errorf("RollbackErr = %v, want %v", rbErr.RollbackErr, delErr)
		}
		// The orchestrator unwraps to the original failure.
		if !errors.Is(err, batchErr) {
			t.Errorf("errors.Is(err, batchErr) = false")
		}
	})

	t.Run("validation", func(t *testing.T) {
		mem := memory.New()
		svc := newService(mem)

		req := assignRequest(patientID, professionalID)
		req.Name = "  "
		if _, err := svc.Assign(ctx, req); !errors.Is(err, ErrNameRequired) {
			t.Errorf("Assign() error = %v, want ErrNameRequired", err)
		}

		req = assignRequest(patientID, professionalID)
		req.EndDate = req.StartDate.AddDate(0, 0, -1)
		if _, err := svc.Assign(ctx, req); !errors.Is(err, ErrInvalidDates) {
			t.Errorf("Assign() error = %v, want ErrInvalidDates", err)
		}
	})
}

func TestAssignRefetchIsStable(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()
	professionalID := uuid.New()

	mem := memory.New()
	svc := newService(mem)
	e := seedExercise(t, mem, "squat")

	assigned, err := svc.Assign(ctx, assignRequest(patientID, professionalID,
		LinkRequest{ExerciseID: e.ID, Repetitions: 12},
	))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	caller := authorize.Identity{SubjectID: patientID, Role: authorize.RolePatient}
	for i := 0; i < 3; i++ {
		got, err := svc.GetByID(ctx, caller, assigned.ID)
		if err != nil {
			t.Fatalf("GetByID() #%d error = %v", i, err)
		}
		if got.Name != assigned.Name || got.PatientID != assigned.PatientID ||
			got.ProfessionalID != assigned.ProfessionalID {
			t.Errorf("GetByID() #%d header differs from assignment", i)
		}
		if len(got.Exercises) != len(assigned.Exercises) {
			t.Fatalf("GetByID() #%d links = %d, want %d", i, len(got.Exercises), len(assigned.Exercises))
		}
		for j := range got.Exercises {
			if got.Exercises[j].ID != assigned.Exercises[j].ID {
				t.Errorf("GetByID() #%d link %d id differs", i, j)
			}
		}
	}
}

func TestGetByIDOwnership(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()
	professionalID := uuid.New()

	mem := memory.New()
	svc := newService(mem)

	assigned, err := svc.Assign(ctx, assignRequest(patientID, professionalID))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	tests := []struct {
		name    string
		caller  authorize.Identity
		id      int64
		wantErr error
	}{
		{
			name:   "owning patient",
			caller: authorize.Identity{SubjectID: patientID, Role: authorize.RolePatient},
			id:     assigned.ID,
		},
		{
			name:    "foreign patient gets not found",
			caller:  authorize.Identity{SubjectID: uuid.New(), Role: authorize.RolePatient},
			id:      assigned.ID,
			wantErr: ErrNotFound,
		},
		{
			name:   "any professional",
			caller: authorize.Identity{SubjectID: uuid.New(), Role: authorize.RoleProfessional},
			id:     assigned.ID,
		},
		{
			name:   "admin",
			caller: authorize.Identity{SubjectID: uuid.New(), Role: authorize.RoleAdmin},
			id:     assigned.ID,
		},
		{
			name:    "missing routine",
			caller:  authorize.Identity{SubjectID: patientID, Role: authorize.RolePatient},
			id:      assigned.ID + 99,
			wantErr: ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.GetByID(ctx, tt.caller, tt.id)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("GetByID() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	// An ownership mismatch and a genuine absence must be the same error
	// value, not merely similar ones.
	foreign := authorize.Identity{SubjectID: uuid.New(), Role: authorize.RolePatient}
	_, errMismatch := svc.GetByID(ctx, foreign, assigned.ID)
	_, errMissing := svc.GetByID(ctx, foreign, assigned.ID+99)
	if !errors.Is(errMismatch, errMissing) && errMismatch.Error() != errMissing.Error() {
		t.Errorf("ownership mismatch (%v) distinguishable from absence (%v)", errMismatch, errMissing)
	}
}

func TestAddExercise(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := newService(mem)
	e := seedExercise(t, mem, "squat")

	assigned, err := svc.Assign(ctx, assignRequest(uuid.New(), uuid.New()))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}

	link, err := svc.AddExercise(ctx, assigned.ID, LinkRequest{ExerciseID: e.ID, Repetitions: 15})
	if err != nil {
		t.Fatalf("AddExercise() error = %v", err)
	}
	if link.RoutineID != assigned.ID {
		t.Errorf("AddExercise() routine id = %d, want %d", link.RoutineID, assigned.ID)
	}

	if _, err := svc.AddExercise(ctx, assigned.ID+99, LinkRequest{ExerciseID: e.ID, Repetitions: 15}); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddExercise() on missing routine error = %v, want ErrNotFound", err)
	}
}

func TestAddExerciseBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("appends all links to an existing routine", func(t *testing.T) {
		mem := memory.New()
		svc := newService(mem)
		e1 := seedExercise(t, mem, "squat")
		e2 := seedExercise(t, mem, "lunge")

		assigned, err := svc.Assign(ctx, assignRequest(uuid.New(), uuid.New()))
		if err != nil {
			t.Fatalf("Assign() error = %v", err)
		}

		links, err := svc.AddExerciseBatch(ctx, assigned.ID, []LinkRequest{
			{ExerciseID: e1.ID, Repetitions: 10},
			{ExerciseID: e2.ID, Repetitions: 8},
		})
		if err != nil {
			t.Fatalf("AddExerciseBatch() error = %v", err)
		}
		if len(links) != 2 {
			t.Fatalf("AddExerciseBatch() links = %d, want 2", len(links))
		}
		for _, l := range links {
			if l.RoutineID != assigned.ID {
				t.Errorf("link routine id = %d, want %d", l.RoutineID, assigned.ID)
			}
		}

		caller := authorize.Identity{SubjectID: uuid.New(), Role: authorize.RoleAdmin}
		persisted, err := svc.ListExercises(ctx, caller, assigned.ID)
		if err != nil {
			t.Fatalf("ListExercises() error = %v", err)
		}
		if len(persisted) != 2 {
			t.Errorf("persisted links = %d, want 2", len(persisted))
		}
	})

	t.Run("missing parent routine", func(t *testing.T) {
		mem := memory.New()
		svc := newService(mem)
		e := seedExercise(t, mem, "squat")

		_, err := svc.AddExerciseBatch(ctx, 99, []LinkRequest{{ExerciseID: e.ID, Repetitions: 10}})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("AddExerciseBatch() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("store failure appends nothing", func(t *testing.T) {
		mem := memory.New()
		svc := newService(mem)
		e := seedExercise(t, mem, "squat")

		assigned, err := svc.Assign(ctx, assignRequest(uuid.New(), uuid.New()))
		if err != nil {
			t.Fatalf("Assign() error = %v", err)
		}

		batchErr := errors.New("foreign key violation")
		mem.FailInsertBatch = batchErr
		_, err = svc.AddExerciseBatch(ctx, assigned.ID, []LinkRequest{{ExerciseID: e.ID, Repetitions: 10}})
		if !errors.Is(err, batchErr) {
			t.Fatalf("AddExerciseBatch() error = %v, want wrapped %v", err, batchErr)
		}

		mem.FailInsertBatch = nil
		caller := authorize.Identity{SubjectID: uuid.New(), Role: authorize.RoleAdmin}
		persisted, err := svc.ListExercises(ctx, caller, assigned.ID)
		if err != nil {
			t.Fatalf("ListExercises() error = %v", err)
		}
		if len(persisted) != 0 {
			t.Errorf("persisted links = %d, want 0 after failed batch", len(persisted))
		}
	})
}

func TestAssignEmailIsBestEffort(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()

	mem := memory.New()
	if err := mem.InsertProfile(ctx, store.Profile{
		ID:    patientID,
		Email: "patient@example.com",
		Role:  "patient",
	}); err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	svc := newService(mem)
	e := seedExercise(t, mem, "squat")

	// The disabled mail client rejects every send; the assignment must
	// still land.
	detail, err := svc.Assign(ctx, assignRequest(patientID, uuid.New(),
		LinkRequest{ExerciseID: e.ID, Repetitions: 10},
	))
	if err != nil {
		t.Fatalf("Assign() error = %v", err)
	}
	if !mem.HasRoutine(detail.ID) {
		t.Error("routine missing after assignment with failing mail")
	}
}
