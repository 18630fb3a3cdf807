package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rehabworks/rehab_backend/internal/service/routine"
)

const dateLayout = "2006-01-02"

type RoutineHandler struct {
	svc routine.Service
}

func NewRoutineHandler(svc routine.Service) *RoutineHandler {
	return &RoutineHandler{svc: svc}
}

type linkBody struct {
	ExerciseID      int64   `json:"exercise_id"`
	Repetitions     int     `json:"repetitions"`
	DurationSeconds *int    `json:"duration_seconds"`
	Notes           *string `json:"notes"`
}

// POST /api/v1/routines
//
// Creates the routine header and its exercise links as one logical
// operation. The assigning professional is the caller unless an admin
// names another professional explicitly.
func (h *RoutineHandler) Create(c fiber.Ctx) error {
	caller, authed := identityFromFiber(c)
	if !authed {
		return unauthorized(c)
	}

	var body struct {
		Name           string     `json:"name"`
		PatientID      string     `json:"patient_id"`
		ProfessionalID string     `json:"professional_id"`
		StartDate      string     `json:"start_date"`
		EndDate        string     `json:"end_date"`
		Exercises      []linkBody `json:"exercises"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	patientID, err := uuid.Parse(body.PatientID)
	if err != nil {
		return badRequest(c, "invalid patient_id")
	}

	professionalID := caller.SubjectID
	if body.ProfessionalID != "" {
		professionalID, err = uuid.Parse(body.ProfessionalID)
		if err != nil {
			return badRequest(c, "invalid professional_id")
		}
	}

	startDate, err := time.Parse(dateLayout, body.StartDate)
	if err != nil {
		return badRequest(c, "invalid start_date, expected YYYY-MM-DD")
	}
	endDate, err := time.Parse(dateLayout, body.EndDate)
	if err != nil {
		return badRequest(c, "invalid end_date, expected YYYY-MM-DD")
	}

	links := make([]routine.LinkRequest, 0, len(body.Exercises))
	for _, l := range body.Exercises {
		links = append(links, routine.LinkRequest{
			ExerciseID:      l.ExerciseID,
			Repetitions:     l.Repetitions,
			DurationSeconds: l.DurationSeconds,
			Notes:           l.Notes,
		})
	}

	detail, err := h.svc.Assign(c.Context(), routine.AssignRequest{
		Name:           body.Name,
		PatientID:      patientID,
		ProfessionalID: professionalID,
		StartDate:      startDate,
		EndDate:        endDate,
		Exercises:      links,
	})
	if err != nil {
		return mapRoutineError(c, err)
	}

	return created(c, detail)
}

// GET /api/v1/routines
func (h *RoutineHandler) List(c fiber.Ctx) error {
	list, err := h.svc.List(c.Context())
	if err != nil {
		return mapRoutineError(c, err)
	}
	return ok(c, list)
}

// GET /api/v1/routines/my
func (h *RoutineHandler) ListMine(c fiber.Ctx) error {
	caller, authed := identityFromFiber(c)
	if !authed {
		return unauthorized(c)
	}

	list, err := h.svc.ListByPatient(c.Context(), caller.SubjectID)
	if err != nil {
		return mapRoutineError(c, err)
	}
	return ok(c, list)
}

// GET /api/v1/routines/:id
func (h *RoutineHandler) GetByID(c fiber.Ctx) error {
	caller, authed := identityFromFiber(c)
	if !authed {
		return unauthorized(c)
	}
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid routine id")
	}

	detail, err := h.svc.GetByID(c.Context(), caller, id)
	if err != nil {
		return mapRoutineError(c, err)
	}
	return ok(c, detail)
}

// PATCH /api/v1/routines/:id
func (h *RoutineHandler) Update(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid routine id")
	}

	var body struct {
		Name      *string `json:"name"`
		StartDate *string `json:"start_date"`
		EndDate   *string `json:"end_date"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	req := routine.UpdateRequest{Name: body.Name}
	if body.StartDate != nil {
		t, err := time.Parse(dateLayout, *body.StartDate)
		if err != nil {
			return badRequest(c, "invalid start_date, expected YYYY-MM-DD")
		}
		req.StartDate = &t
	}
	if body.EndDate != nil {
		t, err := time.Parse(dateLayout, *body.EndDate)
		if err != nil {
			return badRequest(c, "invalid end_date, expected YYYY-MM-DD")
		}
		req.EndDate = &t
	}

	r, err := h.svc.Update(c.Context(), id, req)
	if err != nil {
		return mapRoutineError(c, err)
	}
	return ok(c, r)
}

// DELETE /api/v1/routines/:id
func (h *RoutineHandler) Delete(c fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid routine id")
	}

	if err := h.svc.Delete(c.Context(), id); err != nil {
		return mapRoutineError(c, err)
	}
	return noContent(c)
}

// ---------------------------------------------------------------------------
// Routine exercises
// ---------------------------------------------------------------------------

// POST /api/v1/routines/:id/exercises
func (h *RoutineHandler) AddExercise(c fiber.Ctx) error {
	routineID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid routine id")
	}

	var body linkBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	link, err := h.svc.AddExercise(c.Context(), routineID, routine.LinkRequest{
		ExerciseID:      body.ExerciseID,
		Repetitions:     body.Repetitions,
		DurationSeconds: body.DurationSeconds,
		Notes:           body.Notes,
	})
	if err != nil {
		return mapRoutineError(c, err)
	}
	return created(c, link)
}

// POST /api/v1/routine-exercises/routine/:routineId/batch
//
// Appends a set of links to an existing routine in one store write.
func (h *RoutineHandler) AddExerciseBatch(c fiber.Ctx) error {
	routineID, err := parseID(c, "routineId")
	if err != nil {
		return badRequest(c, "invalid routine id")
	}

	var body []linkBody
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	reqs := make([]routine.LinkRequest, 0, len(body))
	for _, l := range body {
		reqs = append(reqs, routine.LinkRequest{
			ExerciseID:      l.ExerciseID,
			Repetitions:     l.Repetitions,
			DurationSeconds: l.DurationSeconds,
			Notes:           l.Notes,
		})
	}

	links, err := h.svc.AddExerciseBatch(c.Context(), routineID, reqs)
	if err != nil {
		return mapRoutineError(c, err)
	}
	return created(c, links)
}

// GET /api/v1/routines/:id/exercises
func (h *RoutineHandler) ListExercises(c fiber.Ctx) error {
	caller, authed := identityFromFiber(c)
	if !authed {
		return unauthorized(c)
	}
	routineID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid routine id")
	}

	list, err := h.svc.ListExercises(c.Context(), caller, routineID)
	if err != nil {
		return mapRoutineError(c, err)
	}
	return ok(c, list)
}

// GET /api/v1/routine-exercises/:id
func (h *RoutineHandler) GetExercise(c fiber.Ctx) error {
	caller, authed := identityFromFiber(c)
	if !authed {
		return unauthorized(c)
	}
	linkID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid routine exercise id")
	}

	link, err := h.svc.GetExercise(c.Context(), caller, linkID)
	if err != nil {
		return mapRoutineError(c, err)
	}
	return ok(c, link)
}

// PATCH /api/v1/routine-exercises/:id
func (h *RoutineHandler) UpdateExercise(c fiber.Ctx) error {
	linkID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid routine exercise id")
	}

	var body struct {
		Repetitions     *int    `json:"repetitions"`
		DurationSeconds *int    `json:"duration_seconds"`
		Notes           *string `json:"notes"`
	}
	if err := c.Bind().JSON(&body); err != nil {
		return badRequest(c, "invalid request body")
	}

	link, err := h.svc.UpdateExercise(c.Context(), linkID, routine.UpdateLinkRequest{
		Repetitions:     body.Repetitions,
		DurationSeconds: body.DurationSeconds,
		Notes:           body.Notes,
	})
	if err != nil {
		return mapRoutineError(c, err)
	}
	return ok(c, link)
}

// DELETE /api/v1/routine-exercises/:id
func (h *RoutineHandler) RemoveExercise(c fiber.Ctx) error {
	linkID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid routine exercise id")
	}

	if err := h.svc.RemoveExercise(c.Context(), linkID); err != nil {
		return mapRoutineError(c, err)
	}
	return noContent(c)
}

// ---------------------------------------------------------------------------
// Error mapping
// ---------------------------------------------------------------------------

func mapRoutineError(c fiber.Ctx, err error) error {
	var rbErr *routine.RollbackError
	switch {
	case errors.Is(err, routine.ErrNotFound),
		errors.Is(err, routine.ErrLinkNotFound):
		return notFound(c, err.Error())
	case errors.Is(err, routine.ErrNameRequired),
		errors.Is(err, routine.ErrInvalidDates):
		return badRequest(c, err.Error())
	case errors.As(err, &rbErr):
		// Both halves of the failure are reported; an orphan header may
		// remain and the operator needs to know.
		return badRequest(c, rbErr.Error())
	default:
		return badRequest(c, err.Error())
	}
}
