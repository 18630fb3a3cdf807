package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rehabworks/rehab_backend/internal/api/http/handler"
	"github.com/rehabworks/rehab_backend/internal/api/http/middleware"
	"github.com/rehabworks/rehab_backend/pkg/authorize"
)

func (r *Router) registerProgressRoutes(api fiber.Router, h *handler.ProgressHandler, authRequired fiber.Handler) {
	group := api.Group("/progress", authRequired)

	// Recording progress is strictly a patient action.
	group.Post("/", middleware.RequireRoles(authorize.RolePatient), h.Create)

	// Any role may ask for a patient's history; patients are narrowed to
	// their own by the service's ownership check.
	group.Get("/patient/:patientId", middleware.RequireRoles(), h.ListByPatient)
	group.Get("/routine/:routineId/patient/:patientId", middleware.RequireRoles(), h.ListByRoutine)

	// The aggregated report is a clinical view.
	group.Get("/report/:patientId",
		middleware.RequireRoles(authorize.RoleProfessional, authorize.RoleAdmin), h.Report)
}
