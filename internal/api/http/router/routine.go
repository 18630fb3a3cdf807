package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rehabworks/rehab_backend/internal/api/http/handler"
	"github.com/rehabworks/rehab_backend/internal/api/http/middleware"
	"github.com/rehabworks/rehab_backend/pkg/authorize"
)

func (r *Router) registerRoutineRoutes(api fiber.Router, h *handler.RoutineHandler, authRequired fiber.Handler) {
	staff := middleware.RequireRoles(authorize.RoleProfessional, authorize.RoleAdmin)
	patientOnly := middleware.RequireRoles(authorize.RolePatient)
	anyRole := middleware.RequireRoles()

	routines := api.Group("/routines", authRequired)

	routines.Post("/", staff, h.Create)
	routines.Get("/", staff, h.List)
	routines.Get("/my", patientOnly, h.ListMine)

	// Reads below run the ownership gate in the service; a patient asking
	// for someone else's routine sees a 404.
	routines.Get("/:id", anyRole, h.GetByID)
	routines.Patch("/:id", staff, h.Update)
	routines.Delete("/:id", staff, h.Delete)

	routines.Post("/:id/exercises", staff, h.AddExercise)
	routines.Get("/:id/exercises", anyRole, h.ListExercises)

	links := api.Group("/routine-exercises", authRequired)
	links.Post("/routine/:routineId/batch", staff, h.AddExerciseBatch)
	links.Get("/:id", anyRole, h.GetExercise)
	links.Patch("/:id", staff, h.UpdateExercise)
	links.Delete("/:id", staff, h.RemoveExercise)
}
