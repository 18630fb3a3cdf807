package exercise

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/store"
)

// Categories is the closed set of exercise categories accepted by the
// catalog. Values are kept in the clinical team's working language.
var Categories = []string{
	"Movilidad",
	"Fuerza",
	"Equilibrio",
	"Respiración",
	"Resistencia",
}

func validCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type CreateRequest struct {
	Name        string
	Category    string
	BodyPart    string
	Description string
}

type UpdateRequest struct {
	Name        *string
	Category    *string
	BodyPart    *string
	Description *string
}

// ---------------------------------------------------------------------------
// Service interface
// ---------------------------------------------------------------------------

type Service interface {
	Create(ctx context.Context, createdBy uuid.UUID, req CreateRequest) (*store.Exercise, error)
	GetByID(ctx context.Context, id int64) (*store.Exercise, error)
	List(ctx context.Context) ([]store.Exercise, error)
	ListByCategory(ctx context.Context, category string) ([]store.Exercise, error)
	Update(ctx context.Context, id int64, req UpdateRequest) (*store.Exercise, error)
	Delete(ctx context.Context, id int64) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type exerciseService struct {
	exercises store.ExerciseStore
}

func New(exercises store.ExerciseStore) Service {
	return &exerciseService{exercises: exercises}
}

func (s *exerciseService) Create(ctx context.Context, createdBy uuid.UUID, req CreateRequest) (*store.Exercise, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, ErrNameRequired
	}
	if !validCategory(req.Category) {
		return nil, ErrInvalidCategory
	}

	e, err := s.exercises.InsertExercise(ctx, store.Exercise{
		Name:        req.Name,
		Category:    req.Category,
		BodyPart:    strings.TrimSpace(req.BodyPart),
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   createdBy,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create exercise: %w", err)
	}
	return e, nil
}

func (s *exerciseService) GetByID(ctx context.Context, id int64) (*store.Exercise, error) {
	e, err := s.exercises.GetExercise(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get exercise: %w", err)
	}
	return e, nil
}

func (s *exerciseService) List(ctx context.Context) ([]store.Exercise, error) {
	list, err := s.exercises.ListExercises(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	return list, nil
}

func (s *exerciseService) ListByCategory(ctx context.Context, category string) ([]store.Exercise, error) {
	if !validCategory(category) {
		return nil, ErrInvalidCategory
	}
	list, err := s.exercises.ListExercisesByCategory(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list exercises by category: %w", err)
	}
	return list, nil
}

func (s *exerciseService) Update(ctx context.Context, id int64, req UpdateRequest) (*store.Exercise, error) {
	current, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		current.Name = name
	}
	if req.Category != nil {
		if !validCategory(*req.Category) {
			return nil, ErrInvalidCategory
		}
		current.Category = *req.Category
	}
	if req.BodyPart != nil {
		current.BodyPart = strings.TrimSpace(*req.BodyPart)
	}
	if req.Description != nil {
		current.Description = strings.TrimSpace(*req.Description)
	}

	updated, err := s.exercises.UpdateExercise(ctx, *current)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update exercise: %w", err)
	}
	return updated, nil
}

func (s *exerciseService) Delete(ctx context.Context, id int64) error {
	if err := s.exercises.DeleteExercise(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete exercise: %w", err)
	}
	return nil
}
