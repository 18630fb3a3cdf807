package progress

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/store"
	"github.com/rehabworks/rehab_backend/internal/store/memory"
	"github.com/rehabworks/rehab_backend/pkg/authorize"
)

// seedRoutine inserts a routine with one linked exercise and returns the
// link id.
func seedRoutine(t *testing.T, mem *memory.Store, patientID uuid.UUID) int64 {
	t.Helper()
	ctx := context.Background()

	e, err := mem.InsertExercise(ctx, store.Exercise{Name: "squat", Category: "Fuerza"})
	if err != nil {
		t.Fatalf("seed exercise: %v", err)
	}
	routineID, err := mem.InsertRoutine(ctx, store.Routine{
		Name:           "knee recovery",
		PatientID:      patientID,
		ProfessionalID: uuid.New(),
		StartDate:      time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed routine: %v", err)
	}
	link, err := mem.InsertRoutineExercise(ctx, store.RoutineExercise{
		RoutineID:   routineID,
		ExerciseID:  e.ID,
		Repetitions: 10,
	})
	if err != nil {
		t.Fatalf("seed link: %v", err)
	}
	return link.ID
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()

	t.Run("patient records own progress", func(t *testing.T) {
		mem := memory.New()
		svc := New(mem, mem, mem)
		linkID := seedRoutine(t, mem, patientID)

		caller := authorize.Identity{SubjectID: patientID, Role: authorize.RolePatient}
		entry, err := svc.Create(ctx, caller, CreateRequest{
			RoutineExerciseID: linkID,
			Completed:         true,
			PainLevel:         3,
			Difficulty:        2,
		})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if entry.PatientID != patientID {
			t.Errorf("Create() patient id = %v, want %v", entry.PatientID, patientID)
		}
		if mem.CountProgress() != 1 {
			t.Errorf("stored entries = %d, want 1", mem.CountProgress())
		}
	})

	t.Run("foreign patient never writes a row", func(t *testing.T) {
		mem := memory.New()
		svc := New(mem, mem, mem)
		linkID := seedRoutine(t, mem, patientID)

		caller := authorize.Identity{SubjectID: uuid.New(), Role: authorize.RolePatient}
		_, err := svc.Create(ctx, caller, CreateRequest{
			RoutineExerciseID: linkID,
			Completed:         true,
			PainLevel:         3,
			Difficulty:        2,
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Create() error = %v, want ErrNotFound", err)
		}
		if mem.CountProgress() != 0 {
			t.Errorf("stored entries = %d, want 0", mem.CountProgress())
		}
	})

	t.Run("missing link is the same error as foreign routine", func(t *testing.T) {
		mem := memory.New()
		svc := New(mem, mem, mem)
		linkID := seedRoutine(t, mem, patientID)

		foreign := authorize.Identity{SubjectID: uuid.New(), Role: authorize.RolePatient}
		_, errMismatch := svc.Create(ctx, foreign, CreateRequest{RoutineExerciseID: linkID, PainLevel: 3, Difficulty: 2})
		_, errMissing := svc.Create(ctx, foreign, CreateRequest{RoutineExerciseID: linkID + 99, PainLevel: 3, Difficulty: 2})
		if !errors.Is(errMismatch, errMissing) {
			t.Errorf("ownership mismatch (%v) distinguishable from absence (%v)", errMismatch, errMissing)
		}
	})

	t.Run("range validation", func(t *testing.T) {
		mem := memory.New()
		svc := New(mem, mem, mem)
		linkID := seedRoutine(t, mem, patientID)
		caller := authorize.Identity{SubjectID: patientID, Role: authorize.RolePatient}

		tests := []struct {
			name    string
			pain    int
			effort  int
			wantErr error
		}{
			{"pain too low", 0, 2, ErrInvalidPain},
			{"pain too high", 11, 2, ErrInvalidPain},
			{"difficulty too low", 4, 0, ErrInvalidEffort},
			{"difficulty too high", 4, 6, ErrInvalidEffort},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, caller, CreateRequest{
					RoutineExerciseID: linkID,
					PainLevel:         tt.pain,
					Difficulty:        tt.effort,
				})
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
				}
			})
		}
		if mem.CountProgress() != 0 {
			t.Errorf("stored entries = %d, want 0", mem.CountProgress())
		}
	})
}

func TestListByPatient(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()

	mem := memory.New()
	svc := New(mem, mem, mem)
	linkID := seedRoutine(t, mem, patientID)

	caller := authorize.Identity{SubjectID: patientID, Role: authorize.RolePatient}
	if _, err := svc.Create(ctx, caller, CreateRequest{RoutineExerciseID: linkID, Completed: true, PainLevel: 4, Difficulty: 2}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("own history", func(t *testing.T) {
		list, err := svc.ListByPatient(ctx, caller, patientID)
		if err != nil {
			t.Fatalf("ListByPatient() error = %v", err)
		}
		if len(list) != 1 {
			t.Errorf("ListByPatient() = %d entries, want 1", len(list))
		}
	})

	t.Run("foreign patient denied as not found", func(t *testing.T) {
		foreign := authorize.Identity{SubjectID: uuid.New(), Role: authorize.RolePatient}
		if _, err := svc.ListByPatient(ctx, foreign, patientID); !errors.Is(err, ErrNotFound) {
			t.Errorf("ListByPatient() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("professional and admin read anyone", func(t *testing.T) {
		for _, role := range []authorize.Role{authorize.RoleProfessional, authorize.RoleAdmin} {
			caller := authorize.Identity{SubjectID: uuid.New(), Role: role}
			if _, err := svc.ListByPatient(ctx, caller, patientID); err != nil {
				t.Errorf("ListByPatient() as %s error = %v", role, err)
			}
		}
	})
}

func TestListByRoutine(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()

	mem := memory.New()
	svc := New(mem, mem, mem)
	linkID := seedRoutine(t, mem, patientID)

	owner := authorize.Identity{SubjectID: patientID, Role: authorize.RolePatient}
	if _, err := svc.Create(ctx, owner, CreateRequest{RoutineExerciseID: linkID, Completed: true, PainLevel: 5, Difficulty: 3}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	routineID := int64(1) // first routine in a fresh store

	t.Run("patient reads own routine history", func(t *testing.T) {
		list, err := svc.ListByRoutine(ctx, owner, routineID, patientID)
		if err != nil {
			t.Fatalf("ListByRoutine() error = %v", err)
		}
		if len(list) != 1 {
			t.Errorf("ListByRoutine() = %d entries, want 1", len(list))
		}
	})

	t.Run("patient naming another patient denied as not found", func(t *testing.T) {
		foreign := authorize.Identity{SubjectID: uuid.New(), Role: authorize.RolePatient}
		if _, err := svc.ListByRoutine(ctx, foreign, routineID, patientID); !errors.Is(err, ErrNotFound) {
			t.Errorf("ListByRoutine() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing routine", func(t *testing.T) {
		if _, err := svc.ListByRoutine(ctx, owner, routineID+99, patientID); !errors.Is(err, ErrNotFound) {
			t.Errorf("ListByRoutine() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("professional names the patient explicitly", func(t *testing.T) {
		prof := authorize.Identity{SubjectID: uuid.New(), Role: authorize.RoleProfessional}
		list, err := svc.ListByRoutine(ctx, prof, routineID, patientID)
		if err != nil {
			t.Fatalf("ListByRoutine() error = %v", err)
		}
		if len(list) != 1 {
			t.Errorf("ListByRoutine() = %d entries, want 1", len(list))
		}

		// A patient with no entries for this routine reads as empty, not
		// as an error.
		other, err := svc.ListByRoutine(ctx, prof, routineID, uuid.New())
		if err != nil {
			t.Fatalf("ListByRoutine() error = %v", err)
		}
		if len(other) != 0 {
			t.Errorf("ListByRoutine() = %d entries, want 0", len(other))
		}
	})
}

func TestReport(t *testing.T) {
	ctx := context.Background()
	patientID := uuid.New()

	t.Run("empty history", func(t *testing.T) {
		mem := memory.New()
		svc := New(mem, mem, mem)

		r, err := svc.Report(ctx, patientID)
		if err != nil {
			t.Fatalf("Report() error = %v", err)
		}
		if r.Total != 0 || r.Completed != 0 || r.CompletionRate != 0 || r.AveragePainLevel != 0 {
			t.Errorf("Report() = %+v, want all zeros", r)
		}
		if r.Entries == nil || len(r.Entries) != 0 {
			t.Errorf("Report() entries = %v, want empty slice", r.Entries)
		}
	})

	t.Run("arithmetic", func(t *testing.T) {
		mem := memory.New()
		svc := New(mem, mem, mem)
		linkID := seedRoutine(t, mem, patientID)
		caller := authorize.Identity{SubjectID: patientID, Role: authorize.RolePatient}

		samples := []struct {
			completed bool
			pain      int
		}{
			{true, 4},
			{false, 6},
			{true, 8},
		}
		for _, s := range samples {
			if _, err := svc.Create(ctx, caller, CreateRequest{
				RoutineExerciseID: linkID,
				Completed:         s.completed,
				PainLevel:         s.pain,
				Difficulty:        3,
			}); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}

		r, err := svc.Report(ctx, patientID)
		if err != nil {
			t.Fatalf("Report() error = %v", err)
		}
		if r.Total != 3 {
			t.Errorf("Total = %d, want 3", r.Total)
		}
		if r.Completed != 2 {
			t.Errorf("Completed = %d, want 2", r.Completed)
		}
		if r.CompletionRate != 67 {
			t.Errorf("CompletionRate = %d, want 67", r.CompletionRate)
		}
		if r.AveragePainLevel != 6.0 {
			t.Errorf("AveragePainLevel = %v, want 6.0", r.AveragePainLevel)
		}
		if len(r.Entries) != 3 {
			t.Errorf("Entries = %d, want 3", len(r.Entries))
		}
	})

	t.Run("rounding to one decimal", func(t *testing.T) {
		mem := memory.New()
		svc := New(mem, mem, mem)
		linkID := seedRoutine(t, mem, patientID)
		caller := authorize.Identity{SubjectID: patientID, Role: authorize.RolePatient}

		// pains 3,4,5 over 3 entries: mean 4.0; add a 5 -> 17/4 = 4.25 -> 4.3
		for _, pain := range []int{3, 4, 5, 5} {
			if _, err := svc.Create(ctx, caller, CreateRequest{
				RoutineExerciseID: linkID,
				Completed:         true,
				PainLevel:         pain,
				Difficulty:        1,
			}); err != nil {
				t.Fatalf("Create() error = %v", err)
			}
		}

		r, err := svc.Report(ctx, patientID)
		if err != nil {
			t.Fatalf("Report() error = %v", err)
		}
		if r.AveragePainLevel != 4.3 {
			t.Errorf("AveragePainLevel = %v, want 4.3", r.AveragePainLevel)
		}
		if r.CompletionRate != 100 {
			t.Errorf("CompletionRate = %d, want 100", r.CompletionRate)
		}
	})

	t.Run("entries are chronological", func(t *testing.T) {
		mem := memory.New()
		svc := New(mem, mem, mem)
		linkID := seedRoutine(t, mem, patientID)

		base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
		for i := 2; i >= 0; i-- {
			if _, err := mem.InsertProgress(ctx, store.ProgressEntry{
				RoutineExerciseID: linkID,
				PatientID:         patientID,
				Completed:         true,
				PainLevel:         2,
				Difficulty:        1,
				CompletedAt:       base.Add(time.Duration(i) * time.Hour),
			}); err != nil {
				t.Fatalf("insert: %v", err)
			}
		}

		r, err := svc.Report(ctx, patientID)
		if err != nil {
			t.Fatalf("Report() error = %v", err)
		}
		for i := 1; i < len(r.Entries); i++ {
			if r.Entries[i].CompletedAt.Before(r.Entries[i-1].CompletedAt) {
				t.Errorf("entries not in ascending completion order")
			}
		}
	})
}
