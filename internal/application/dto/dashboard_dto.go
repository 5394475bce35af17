package dto

import "github.com/shopspring/decimal"

// DashboardSummaryDTO respuesta de GET /api/dashboard/summary.
// Los montos se suman tal cual sin convertir moneda.
type DashboardSummaryDTO struct {
	TotalClients  int `json:"total_clients"`
	TotalInvoices int `json:"total_invoices"`

	PendingCount  int `json:"pending_count"`
	PaidCount     int `json:"paid_count"`
	CanceledCount int `json:"canceled_count"`

	// Monto cobrado incluye las facturas canceladas.
	PendingAmount   decimal.Decimal `json:"pending_amount"`
	CollectedAmount decimal.Decimal `json:"collected_amount"`

	Overdue  []DueAlertDTO `json:"overdue"`
	Upcoming []DueAlertDTO `json:"upcoming"`

	Monthly []MonthTotalDTO `json:"monthly_collected"`
	Chart   StatusChartDTO  `json:"status_chart"`

	Today string `json:"today"` // YYYY-MM-DD usado para las alertas
}

// DueAlertDTO factura vencida o por vencer. Days es días de atraso o días restantes.
type DueAlertDTO struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceNumber string          `json:"invoice_number"`
	ClientName    string          `json:"client_name"`
	Amount        decimal.Decimal `json:"amount"`
	AmountLabel   string          `json:"amount_label"`
	DueDate       string          `json:"due_date"`
	Days          int             `json:"days"`
}

// MonthTotalDTO barra del gráfico de cobros mensuales.
type MonthTotalDTO struct {
	Month  string          `json:"month"` // YYYY-MM
	Label  string          `json:"label"` // ej: "Jun 2024"
	Amount decimal.Decimal `json:"amount"`
}

// StatusChartDTO desglose de estados para el gráfico de torta.
type StatusChartDTO struct {
	Paid     int `json:"paid"`
	Pending  int `json:"pending"`
	Overdue  int `json:"overdue"`
	Canceled int `json:"canceled"`
}
