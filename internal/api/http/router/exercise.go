package router

import (
	"github.com/gofiber/fiber/v3"

	"github.com/rehabworks/rehab_backend/internal/api/http/handler"
	"github.com/rehabworks/rehab_backend/internal/api/http/middleware"
	"github.com/rehabworks/rehab_backend/pkg/authorize"
)

func (r *Router) registerExerciseRoutes(api fiber.Router, h *handler.ExerciseHandler, authRequired fiber.Handler) {
	group := api.Group("/exercises", authRequired)

	// Catalog reads are open to every authenticated role.
	group.Get("/", middleware.RequireRoles(), h.List)
	group.Get("/:id", middleware.RequireRoles(), h.GetByID)

	// Catalog writes are for professionals and admins.
	staff := middleware.RequireRoles(authorize.RoleProfessional, authorize.RoleAdmin)
	group.Post("/", staff, h.Create)
	group.Patch("/:id", staff, h.Update)
	group.Delete("/:id", staff, h.Delete)
}
