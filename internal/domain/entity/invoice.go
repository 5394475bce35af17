package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status estado de cobranza de una factura.
type Status string

// Estados de la factura. PAID y CANCELED son mutuamente terminales.
const (
	StatusPending  Status = "PENDING"
	StatusPaid     Status = "PAID"
	StatusCanceled Status = "CANCELED"
)

// Valid indica si s es uno de los estados conocidos.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPaid, StatusCanceled:
		return true
	}
	return false
}

// Currency moneda de la factura.
type Currency string

const (
	CurrencyPEN Currency = "PEN" // soles
	CurrencyUSD Currency = "USD"
)

// Symbol símbolo para mostrar montos ("S/" o "$").
func (c Currency) Symbol() string {
	if c == CurrencyUSD {
		return "$"
	}
	return "S/"
}

// FormatMoney formatea un monto con el símbolo de la moneda: "S/ 100.00".
func FormatMoney(amount decimal.Decimal, currency Currency) string {
	return currency.Symbol() + " " + amount.StringFixed(2)
}

// FollowupChannel medio por el que se realizó la gestión de cobranza.
type FollowupChannel string

const (
	ChannelCall     FollowupChannel = "LLAMADA"
	ChannelEmail    FollowupChannel = "EMAIL"
	ChannelWhatsApp FollowupChannel = "WHATSAPP"
	ChannelVisit    FollowupChannel = "VISITA"
	ChannelOther    FollowupChannel = "OTRO"
)

// Followup registro de una gestión de cobranza sobre una factura.
type Followup struct {
	ID      string          `json:"id"`
	Date    Date            `json:"date"`
	Channel FollowupChannel `json:"channel"`
	Comment string          `json:"comment"`
}

// Invoice factura registrada. ClientName y ClientTaxID son una copia del cliente
// al momento del registro; no se sincronizan con ediciones posteriores.
type Invoice struct {
	ID            string          `json:"id"`
	ClientID      string          `json:"clientId"`
	ClientName    string          `json:"clientName"`
	ClientTaxID   string          `json:"clientTaxId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      Currency        `json:"currency"`
	IssueDate     Date            `json:"issueDate"`
	DueDate       Date            `json:"dueDate"`
	Status        Status          `json:"status"`
	Followups     []Followup      `json:"followups"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// CanTransitionTo aplica la regla de estados terminales: una factura PAID no
// puede pasar a CANCELED ni una CANCELED a PAID. El resto de transiciones se permiten.
func (inv *Invoice) CanTransitionTo(next Status) bool {
	switch {
	case inv.Status == StatusPaid && next == StatusCanceled:
		return false
	case inv.Status == StatusCanceled && next == StatusPaid:
		return false
	}
	return true
}

// InvoiceInput datos para registrar una factura ya resuelto el cliente.
type InvoiceInput struct {
	ClientID      string
	InvoiceNumber string
	Amount        decimal.Decimal
	Currency      Currency
	IssueDate     Date
	DueDate       Date
	Status        Status
}

// InvoicePatch cambios parciales sobre una factura (merge superficial).
// Los campos nil no se modifican.
type InvoicePatch struct {
	InvoiceNumber *string
	Amount        *decimal.Decimal
	Currency      *Currency
	IssueDate     *Date
	DueDate       *Date
	Status        *Status
	Followups     []Followup
}

// Apply copia en inv los campos informados en el patch.
func (p InvoicePatch) Apply(inv *Invoice) {
	if p.InvoiceNumber != nil {
		inv.InvoiceNumber = *p.InvoiceNumber
	}
	if p.Amount != nil {
		inv.Amount = *p.Amount
	}
	if p.Currency != nil {
		inv.Currency = *p.Currency
	}
	if p.IssueDate != nil {
		inv.IssueDate = *p.IssueDate
	}
	if p.DueDate != nil {
		inv.DueDate = *p.DueDate
	}
	if p.Status != nil {
		inv.Status = *p.Status
	}
	if p.Followups != nil {
		inv.Followups = p.Followups
	}
}
