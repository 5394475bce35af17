package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/awfacturas/internal/application/analytics"
	"github.com/jhoicas/awfacturas/internal/application/billing"
	"github.com/jhoicas/awfacturas/internal/application/changefeed"
	"github.com/jhoicas/awfacturas/internal/application/query"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ClientUC    *billing.ClientUseCase
	InvoiceUC   *billing.InvoiceUseCase
	StatementUC *billing.StatementUseCase
	DashboardUC *appanalytics.DashboardUseCase
	Feed        *changefeed.Feed
	PageSize    int
	Location    *time.Location
	Now         func() time.Time
	SyncWait    time.Duration
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.PageSize < 1 {
		deps.PageSize = query.DefaultPageSize
	}
	log := deps.Log.Component("http")

	api := app.Group("/api", RequestLogger(deps.Log))

	// Clients
	clients := api.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC, deps.PageSize, log)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/options", clientHandler.Options)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Invoices
	invoices := api.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.StatementUC, deps.PageSize, log)
	invoices.Get("/", invoiceHandler.List)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Post("/:id/paid", invoiceHandler.MarkPaid)
	invoices.Post("/:id/canceled", invoiceHandler.MarkCanceled)
	invoices.Put("/:id/status", invoiceHandler.SetStatus)
	invoices.Get("/:id/followups", invoiceHandler.History)
	invoices.Post("/:id/followups", invoiceHandler.AddFollowup)
	invoices.Get("/:id/statement.pdf", invoiceHandler.Statement)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC, deps.Now, deps.Location, log)
	api.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Cambios externos
	if deps.Feed != nil {
		api.Get("/sync", NewSyncHandler(deps.Feed, deps.SyncWait, log).Get)
	}
}
