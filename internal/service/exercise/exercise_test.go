package exercise

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/store/memory"
)

func TestCreate(t *testing.T) {
	ctx := context.Background()
	creator := uuid.New()

	tests := []struct {
		name    string
		req     CreateRequest
		wantErr error
	}{
		{
			name: "valid",
			req:  CreateRequest{Name: "squat", Category: "Fuerza", BodyPart: "legs"},
		},
		{
			name:    "blank name",
			req:     CreateRequest{Name: "   ", Category: "Fuerza"},
			wantErr: ErrNameRequired,
		},
		{
			name:    "unknown category",
			req:     CreateRequest{Name: "squat", Category: "Cardio"},
			wantErr: ErrInvalidCategory,
		},
		{
			name:    "empty category",
			req:     CreateRequest{Name: "squat"},
			wantErr: ErrInvalidCategory,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := New(memory.New())
			e, err := svc.Create(ctx, creator, tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Create() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if e.ID == 0 {
					t.Errorf("Create() id not assigned")
				}
				if e.CreatedBy != creator {
					t.Errorf("Create() created_by = %v, want %v", e.CreatedBy, creator)
				}
			}
		})
	}
}

func TestListByCategory(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := New(mem)
	creator := uuid.New()

	seeds := []CreateRequest{
		{Name: "squat", Category: "Fuerza"},
		{Name: "ankle circles", Category: "Movilidad"},
		{Name: "lunge", Category: "Fuerza"},
	}
	for _, s := range seeds {
		if _, err := svc.Create(ctx, creator, s); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	list, err := svc.ListByCategory(ctx, "Fuerza")
	if err != nil {
		t.Fatalf("ListByCategory() error = %v", err)
	}
	if len(list) != 2 {
		t.Errorf("ListByCategory() = %d, want 2", len(list))
	}

	if _, err := svc.ListByCategory(ctx, "Unknown"); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("ListByCategory() error = %v, want ErrInvalidCategory", err)
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	mem := memory.New()
	svc := New(mem)

	e, err := svc.Create(ctx, uuid.New(), CreateRequest{Name: "squat", Category: "Fuerza"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newName := "box squat"
	updated, err := svc.Update(ctx, e.ID, UpdateRequest{Name: &newName})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != newName {
		t.Errorf("Update() name = %q, want %q", updated.Name, newName)
	}
	if updated.Category != "Fuerza" {
		t.Errorf("Update() category changed unexpectedly: %q", updated.Category)
	}

	bad := "Cardio"
	if _, err := svc.Update(ctx, e.ID, UpdateRequest{Category: &bad}); !errors.Is(err, ErrInvalidCategory) {
		t.Errorf("Update() error = %v, want ErrInvalidCategory", err)
	}

	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.GetByID(ctx, e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID() after delete error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete(ctx, e.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrNotFound", err)
	}
}
