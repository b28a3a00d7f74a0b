package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facilityhub/helpdesk/internal/api/http/handlers"
	"github.com/facilityhub/helpdesk/internal/auth"
	"github.com/facilityhub/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health           *handlers.HealthHandler
	Auth             *handlers.AuthHandler
	Tickets          *handlers.TicketsHandler
	StaffTickets     *handlers.StaffTicketsHandler
	Taxonomy         *handlers.TaxonomyHandler
	MaterialRequests *handlers.MaterialRequestsHandler
	AuthMiddleware   *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/clients/register", cfg.Auth.RegisterClient)
	authGroup.Post("/clients/external", cfg.Auth.UpsertExternalClient)
	authGroup.Post("/clients/login", cfg.Auth.LoginClient)
	authGroup.Post("/staff/login", cfg.Auth.LoginStaff)

	account := authGroup.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	account.Post("/password", cfg.Auth.ChangePassword)
	account.Get("/me", cfg.Auth.Me)

	// Taxonomy reads are shared by clients and staff.
	taxonomy := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAnyRole())
	taxonomy.Get("/buildings", cfg.Taxonomy.ListBuildings)
	taxonomy.Get("/categories", cfg.Taxonomy.ListCategories)
	taxonomy.Get("/categories/:id/sub-categories", cfg.Taxonomy.ListSubCategories)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireClient())
	tickets.Post("", cfg.Tickets.CreateTicket)
	tickets.Get("", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Get("/:id/notes", cfg.Tickets.ListNotes)
	tickets.Post("/:id/close", cfg.Tickets.CloseTicket)
	tickets.Post("/:id/acknowledge", cfg.Tickets.AcknowledgeClosure)

	staff := api.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole())
	staff.Get("/tickets", cfg.StaffTickets.ListTickets)
	staff.Get("/tickets/counts", cfg.StaffTickets.DashboardCounts)
	staff.Get("/tickets/:id", cfg.StaffTickets.GetTicket)
	staff.Patch("/tickets/:id", cfg.StaffTickets.UpdateTicket)
	staff.Get("/tickets/:id/notes", cfg.StaffTickets.ListNotes)
	staff.Post("/tickets/:id/duplicate", cfg.StaffTickets.MarkDuplicate)
	staff.Post("/tickets/:id/acknowledge", cfg.StaffTickets.AcknowledgeClosure)
	staff.Post("/tickets/:sequence/escalate", cfg.StaffTickets.EscalateTicket)

	verifiers := api.Group("/staff", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(
		domain.StaffRoleAdmin,
		domain.StaffRoleCategorySupervisor,
		domain.StaffRoleBuildingSupervisor,
	))
	verifiers.Post("/tickets/:id/verify", cfg.StaffTickets.VerifyTicket)

	staff.Post("/tickets/:id/material-requests", cfg.MaterialRequests.CreateForTicket)
	staff.Get("/tickets/:id/material-requests", cfg.MaterialRequests.ListForTicket)
	staff.Get("/material-requests", cfg.MaterialRequests.List)
	staff.Post("/material-requests/:id/acknowledge", cfg.MaterialRequests.Acknowledge)
	staff.Post("/material-requests/:id/prf", cfg.MaterialRequests.CreatePRF)
	staff.Post("/material-requests/:id/processed", cfg.MaterialRequests.MarkProcessed)

	staff.Post("/tickets/:id/breakages", cfg.MaterialRequests.CreateBreakage)
	staff.Get("/tickets/:id/breakages", cfg.MaterialRequests.ListBreakages)
	staff.Post("/breakages/:id/processed", cfg.MaterialRequests.MarkBreakageProcessed)

	admin := api.Group("/admin", cfg.AuthMiddleware.Handle, auth.RequireStaffRole(domain.StaffRoleAdmin))
	admin.Post("/buildings", cfg.Taxonomy.CreateBuilding)
	admin.Patch("/buildings/:id", cfg.Taxonomy.UpdateBuilding)
	admin.Put("/buildings/:id/supervisors", cfg.Taxonomy.SetBuildingSupervisors)
	admin.Post("/categories", cfg.Taxonomy.CreateCategory)
	admin.Patch("/categories/:id", cfg.Taxonomy.UpdateCategory)
	admin.Post("/sub-categories", cfg.Taxonomy.CreateSubCategory)
}
