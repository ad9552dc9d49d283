package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/pawn-ledger/internal/api/http/handlers"
	"github.com/spec-kit/pawn-ledger/internal/auth"
	"github.com/spec-kit/pawn-ledger/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Customers      *handlers.CustomersHandler
	Alerts         *handlers.AlertsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Get("/auth/me", cfg.Auth.Me)
	protected.Post("/auth/register", auth.RequireRole(domain.OperatorRoleAdmin), cfg.Auth.Register)

	tickets := protected.Group("/tickets")
	tickets.Post("", cfg.Tickets.Create)
	tickets.Get("", cfg.Tickets.List)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Post("/:id/payments", cfg.Tickets.RecordPayment)
	tickets.Get("/:id/payments", cfg.Tickets.ListPayments)
	tickets.Post("/:id/close", cfg.Tickets.Close)

	protected.Get("/payments", cfg.Tickets.ListAllPayments)

	customers := protected.Group("/customers")
	customers.Post("", cfg.Customers.Create)
	customers.Get("", cfg.Customers.List)
	customers.Post("/rebuild-stats", auth.RequireRole(domain.OperatorRoleAdmin), cfg.Customers.RebuildStats)
	customers.Get("/:id", cfg.Customers.Get)
	customers.Put("/:id", cfg.Customers.Update)
	customers.Get("/:id/tickets", cfg.Customers.ListTickets)

	alerts := protected.Group("/alerts")
	alerts.Get("/overdue", cfg.Alerts.Overdue)
	alerts.Post("/send", cfg.Alerts.Send)
	alerts.Get("/history", cfg.Alerts.History)
	alerts.Get("/setup", cfg.Alerts.Setup)

	reports := protected.Group("/reports")
	reports.Get("/monthly-interest", cfg.Reports.MonthlyInterest)
	reports.Get("/outstanding", cfg.Reports.OutstandingLoans)
	reports.Get("/export/payments", cfg.Reports.ExportPayments)
	reports.Get("/export/outstanding", cfg.Reports.ExportOutstanding)
}
