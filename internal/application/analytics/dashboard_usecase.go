// Package analytics contiene las métricas de cobranza y el caso de uso del
// Dashboard. Las métricas son funciones puras que se recalculan en cada consulta.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/awfacturas/internal/application/dto"
	"github.com/jhoicas/awfacturas/internal/domain/entity"
	"github.com/jhoicas/awfacturas/internal/domain/repository"
)

// DashboardUseCase genera el resumen de clientes, facturas y alertas de vencimiento.
//
// Fuente de datos: los repositorios completos; no hay caché ni acumulados.
type DashboardUseCase struct {
	clientRepo   repository.ClientRepository
	invoiceRepo  repository.InvoiceRepository
	upcomingDays int
	monthsBack   int
}

// NewDashboardUseCase construye el caso de uso. Valores <= 0 toman los por defecto.
func NewDashboardUseCase(
	clientRepo repository.ClientRepository,
	invoiceRepo repository.InvoiceRepository,
	upcomingDays, monthsBack int,
) *DashboardUseCase {
	if upcomingDays <= 0 {
		upcomingDays = DefaultUpcomingDays
	}
	if monthsBack <= 0 {
		monthsBack = DefaultMonthsBack
	}
	return &DashboardUseCase{
		clientRepo:   clientRepo,
		invoiceRepo:  invoiceRepo,
		upcomingDays: upcomingDays,
		monthsBack:   monthsBack,
	}
}

// GetSummary construye el DashboardSummaryDTO para el día indicado.
//
// Dos lecturas en paralelo:
//  1. clientes → TotalClients
//  2. facturas → conteos, montos, alertas, cobros mensuales y gráfico
func (uc *DashboardUseCase) GetSummary(ctx context.Context, today entity.Date) (*dto.DashboardSummaryDTO, error) {
	type clientsResult struct {
		list []*entity.Client
		err  error
	}
	type invoicesResult struct {
		list []*entity.Invoice
		err  error
	}

	clientsCh := make(chan clientsResult, 1)
	invoicesCh := make(chan invoicesResult, 1)

	go func() {
		list, err := uc.clientRepo.GetAll(ctx)
		clientsCh <- clientsResult{list, err}
	}()
	go func() {
		list, err := uc.invoiceRepo.GetAll(ctx)
		invoicesCh <- invoicesResult{list, err}
	}()

	clients := <-clientsCh
	invoices := <-invoicesCh

	if clients.err != nil {
		return nil, fmt.Errorf("dashboard: clientes: %w", clients.err)
	}
	if invoices.err != nil {
		return nil, fmt.Errorf("dashboard: facturas: %w", invoices.err)
	}

	return uc.summarize(len(clients.list), invoices.list, today), nil
}

func (uc *DashboardUseCase) summarize(totalClients int, invoices []*entity.Invoice, today entity.Date) *dto.DashboardSummaryDTO {
	counts := CountByStatus(invoices)
	buckets := ClassifyByDueDate(invoices, today, uc.upcomingDays)
	chart := StatusBreakdownForChart(invoices, today)

	out := &dto.DashboardSummaryDTO{
		TotalClients:    totalClients,
		TotalInvoices:   len(invoices),
		PendingCount:    counts.Pending,
		PaidCount:       counts.Paid,
		CanceledCount:   counts.Canceled,
		PendingAmount:   SumPending(invoices),
		CollectedAmount: SumCollected(invoices),
		Overdue:         make([]dto.DueAlertDTO, 0, len(buckets.Overdue)),
		Upcoming:        make([]dto.DueAlertDTO, 0, len(buckets.Upcoming)),
		Chart: dto.StatusChartDTO{
			Paid:     chart.Paid,
			Pending:  chart.Pending,
			Overdue:  chart.Overdue,
			Canceled: chart.Canceled,
		},
		Today: today.String(),
	}

	for _, item := range buckets.Overdue {
		out.Overdue = append(out.Overdue, dueAlert(item.Invoice, item.DaysOverdue))
	}
	for _, item := range buckets.Upcoming {
		out.Upcoming = append(out.Upcoming, dueAlert(item.Invoice, item.DaysUntilDue))
	}
	for _, m := range MonthlyCollected(invoices, today, uc.monthsBack) {
		out.Monthly = append(out.Monthly, dto.MonthTotalDTO{Month: m.Key, Label: m.Label, Amount: m.Amount})
	}
	return out
}

func dueAlert(inv *entity.Invoice, days int) dto.DueAlertDTO {
	return dto.DueAlertDTO{
		InvoiceID:     inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		ClientName:    inv.ClientName,
		Amount:        inv.Amount,
		AmountLabel:   entity.FormatMoney(inv.Amount, inv.Currency),
		DueDate:       inv.DueDate.String(),
		Days:          days,
	}
}
