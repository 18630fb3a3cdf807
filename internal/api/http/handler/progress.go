package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/service/progress"
)

type ProgressHandler struct {
	svc progress.Service
}

func NewProgressHandler(svc progress.Service) *ProgressHandler {
	return &ProgressHandler{svc: svc}
}

// POST /api/v1/progress
func (h *ProgressHandler) Create(c fiber.Ctx) error {
	caller, authed := identityFromFiber(c)
	if !authed {
		return unauthorized(c)
	}

	var body struct {
		RoutineExerciseID int64   `json:"routine_exercise_id"`
		Completed         bool    `json:"completed"`
		PainLevel         int     `json:"pain_level"`
		Difficulty        int     `json:"difficulty"`
		Notes             *string `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	entry, err := h.svc.Create(c.Context(), caller, progress.CreateRequest{
		RoutineExerciseID: body.RoutineExerciseID,
		Completed:         body.Completed,
		PainLevel:         body.PainLevel,
		Difficulty:        body.Difficulty,
		Notes:             body.Notes,
	})
	if err != nil {
		return mapProgressError(c, err)
	}

	return created(c, entry)
}

// GET /api/v1/progress/patient/:patientId
func (h *ProgressHandler) ListByPatient(c fiber.Ctx) error {
	caller, authed := identityFromFiber(c)
	if !authed {
		return unauthorized(c)
	}

	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return badRequest(c, "invalid patient id")
	}

	list, err := h.svc.ListByPatient(c.Context(), caller, patientID)
	if err != nil {
		return mapProgressError(c, err)
	}
	return ok(c, list)
}

// GET /api/v1/progress/routine/:routineId/patient/:patientId
func (h *ProgressHandler) ListByRoutine(c fiber.Ctx) error {
	caller, authed := identityFromFiber(c)
	if !authed {
		return unauthorized(c)
	}

	routineID, err := parseID(c, "routineId")
	if err != nil {
		return badRequest(c, "invalid routine id")
	}
	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return badRequest(c, "invalid patient id")
	}

	list, err := h.svc.ListByRoutine(c.Context(), caller, routineID, patientID)
	if err != nil {
		return mapProgressError(c, err)
	}
	return ok(c, list)
}

// GET /api/v1/progress/report/:patientId
func (h *ProgressHandler) Report(c fiber.Ctx) error {
	patientID, err := uuid.Parse(c.Params("patientId"))
	if err != nil {
		return badRequest(c, "invalid patient id")
	}

	report, err := h.svc.Report(c.Context(), patientID)
	if err != nil {
		return mapProgressError(c, err)
	}
	return ok(c, report)
}

func mapProgressError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, progress.ErrNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, progress.ErrInvalidPain),
		errors.Is(err, progress.ErrInvalidEffort):
		return badRequest(c, err.Error())
	default:
		return internalError(c)
	}
}
