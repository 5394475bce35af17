package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/awfacturas/internal/application/analytics"
	"github.com/jhoicas/awfacturas/internal/domain/entity"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc  *appanalytics.DashboardUseCase
	now func() time.Time
	loc *time.Location
	log *logger.Logger
}

// NewDashboardHandler construye el handler. loc define el "hoy" de las alertas.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, now func() time.Time, loc *time.Location, log *logger.Logger) *DashboardHandler {
	if now == nil {
		now = time.Now
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{uc: uc, now: now, loc: loc, log: log}
}

// GetSummary devuelve el resumen de cobranza.
// GET /api/dashboard/summary
//
// Respuesta: DashboardSummaryDTO (totales, montos, overdue, upcoming,
// monthly_collected, status_chart). ?today=YYYY-MM-DD fija el día de referencia.
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	today := entity.DateOf(h.now().In(h.loc))
	if raw := c.Query("today"); raw != "" {
		d, err := entity.ParseDate(raw)
		if err != nil {
			return respondError(c, h.log, invalidQuery(err))
		}
		today = d
	}

	summary, err := h.uc.GetSummary(c.UserContext(), today)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(summary)
}
