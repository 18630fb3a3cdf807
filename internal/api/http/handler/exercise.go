package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"github.com/rehabworks/rehab_backend/internal/service/exercise"
)

type ExerciseHandler struct {
	svc exercise.Service
}

func NewExerciseHandler(svc exercise.Service) *ExerciseHandler {
	return &ExerciseHandler{svc: svc}
}

// POST /api/v1/exercises
func (h *ExerciseHandler) Create(c fiber.Ctx) error {
	caller, authed := identityFromFiber(c)
	if !authed {
		return unauthorized(c)
	}

	var body struct {
		Name        string `json:"name"`
		Category    string `json:"category"`
		BodyPart    string `json:"body_part"`
		Description string `json:"description"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	e, err := h.svc.Create(c.Context(), caller.SubjectID, exercise.CreateRequest{
		Name:        body.Name,
		Category:    body.Category,
		BodyPart:    body.BodyPart,
		Description: body.Description,
	})
	if err != nil {
		return mapExerciseError(c, err)
	}

	return created(c, e)
}

// GET /api/v1/exercises
func (h *ExerciseHandler) List(c fiber.Ctx) error {
	// Optional ?category= filter
	if category := c.Query("category"); category != "" {
		list, err := h.svc.ListByCategory(c.Context(), category)
		if err != nil {
			return mapExerciseError(c, err)
		}
		return ok(c, list)
	}

	list, err := h.svc.List(c.Context())
	if err != nil {
		return mapExerciseError(c, err)
	}
	return ok(c, list)
}

// GET /api/v1/exercises/:id
func (h *ExerciseHandler) GetByID(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid exercise id")
	}

	e, err := h.svc.GetByID(c.Context(), id)
	if err != nil {
		return mapExerciseError(c, err)
	}
	return ok(c, e)
}

// PATCH /api/v1/exercises/:id
func (h *ExerciseHandler) Update(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid exercise id")
	}

	var body struct {
		Name        *string `json:"name"`
		Category    *string `json:"category"`
		BodyPart    *string `json:"body_part"`
		Description *string `json:"description"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	e, err := h.svc.Update(c.Context(), id, exercise.UpdateRequest{
		Name:        body.Name,
		Category:    body.Category,
		BodyPart:    body.BodyPart,
		Description: body.Description,
	})
	if err != nil {
		return mapExerciseError(c, err)
	}
	return ok(c, e)
}

// DELETE /api/v1/exercises/:id
func (h *ExerciseHandler) Delete(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid exercise id")
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapExerciseError(c, err)
	}
	return noContent(c)
}

func parseID(c fiber.Ctx, name string) (int64, error) {
	return strconv.ParseInt(c.Params(name), 10, 64)
}

func mapExerciseError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, exercise.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, exercise.ErrInvalidCategory),
		errors.Is(err, exercise.ErrNameRequired):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}
