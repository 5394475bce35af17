package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices. Fechas en YYYY-MM-DD.
type CreateInvoiceRequest struct {
	ClientID      string          `json:"client_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency,omitempty"` // PEN por defecto
	IssueDate     string          `json:"issue_date"`
	DueDate       string          `json:"due_date"`
	Status        string          `json:"status,omitempty"` // PENDING por defecto
}

// SetStatusRequest body opcional para cambios de estado genéricos.
type SetStatusRequest struct {
	Status string `json:"status"`
}

// FollowupRequest body para POST /api/invoices/:id/followups.
type FollowupRequest struct {
	Date    string `json:"date"`
	Channel string `json:"channel"`
	Comment string `json:"comment"`
}

// FollowupResponse gestión de cobranza.
type FollowupResponse struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Channel string `json:"channel"`
	Comment string `json:"comment"`
}

// InvoiceResponse factura en respuestas. AmountLabel viene formateado ("S/ 100.00").
type InvoiceResponse struct {
	ID            string             `json:"id"`
	ClientID      string             `json:"client_id"`
	ClientName    string             `json:"client_name"`
	ClientTaxID   string             `json:"client_tax_id"`
	InvoiceNumber string             `json:"invoice_number"`
	Amount        decimal.Decimal    `json:"amount"`
	AmountLabel   string             `json:"amount_label"`
	Currency      string             `json:"currency"`
	IssueDate     string             `json:"issue_date"`
	DueDate       string             `json:"due_date"`
	Status        string             `json:"status"`
	Followups     []FollowupResponse `json:"followups"`
	CreatedAt     time.Time          `json:"created_at"`
}

// InvoiceListResponse página del listado de facturas.
type InvoiceListResponse struct {
	PageResponse
	Items []InvoiceResponse `json:"items"`
}

// FollowupHistoryResponse historial de gestiones, la más reciente primero.
type FollowupHistoryResponse struct {
	InvoiceID string             `json:"invoice_id"`
	Items     []FollowupResponse `json:"items"`
}

// UpdateInvoiceRequest body para PATCH /api/invoices/:id. Los campos ausentes no cambian;
// el estado se cambia solo por los endpoints de estado.
type UpdateInvoiceRequest struct {
	InvoiceNumber *string          `json:"invoice_number,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Currency      *string          `json:"currency,omitempty"`
	IssueDate     *string          `json:"issue_date,omitempty"`
	DueDate       *string          `json:"due_date,omitempty"`
}
