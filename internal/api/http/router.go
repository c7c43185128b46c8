package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/hostel-complaint-service/internal/api/http/handlers"
	"github.com/spec-kit/hostel-complaint-service/internal/auth"
	"github.com/spec-kit/hostel-complaint-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Complaints     *handlers.ComplaintsHandler
	Feedbacks      *handlers.FeedbacksHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Auth.ChangePassword)

	complaints := app.Group("/complaints", cfg.AuthMiddleware.Handle)
	complaints.Post("", auth.RequireStudent(), cfg.Complaints.Create)
	complaints.Get("/my-complaints", auth.RequireStudent(), cfg.Complaints.ListMine)
	complaints.Get("/stats", auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Complaints.Stats)
	complaints.Get("", auth.RequireStaffRole(domain.StaffRoleAdmin, domain.StaffRoleMaintenance), cfg.Complaints.List)
	complaints.Get("/:id/recommended-staff", auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Complaints.RecommendedStaff)
	complaints.Patch("/:id/assign", auth.RequireStaffRole(domain.StaffRoleAdmin), cfg.Complaints.Assign)
	complaints.Patch("/:id", auth.RequireStaffRole(domain.StaffRoleAdmin, domain.StaffRoleMaintenance), cfg.Complaints.UpdateStatus)
	complaints.Get("/:id", auth.RequireAnyRole(), cfg.Complaints.Get)

	feedbacks := app.Group("/feedbacks", cfg.AuthMiddleware.Handle, auth.RequireStudent())
	feedbacks.Post("", cfg.Feedbacks.Create)
	feedbacks.Get("/my-feedbacks", cfg.Feedbacks.ListMine)

	staff := app.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdmin))
	staff.Post("", cfg.Staff.Provision)
	staff.Get("", cfg.Staff.List)
}
