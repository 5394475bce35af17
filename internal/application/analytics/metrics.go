package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/awfacturas/internal/domain/entity"
)

// Valores por defecto de las ventanas del dashboard.
const (
	DefaultUpcomingDays = 3
	DefaultMonthsBack   = 4
)

var monthNames = [...]string{"Ene", "Feb", "Mar", "Abr", "May", "Jun", "Jul", "Ago", "Sep", "Oct", "Nov", "Dic"}

// StatusCounts cantidad de facturas por estado.
type StatusCounts struct {
	Pending  int
	Paid     int
	Canceled int
}

// OverdueItem factura pendiente ya vencida.
type OverdueItem struct {
	Invoice     *entity.Invoice
	DaysOverdue int
}

// UpcomingItem factura pendiente que vence dentro de la ventana.
type UpcomingItem struct {
	Invoice      *entity.Invoice
	DaysUntilDue int
}

// DueDateBuckets alertas de vencimiento sobre facturas PENDING.
type DueDateBuckets struct {
	Overdue  []OverdueItem
	Upcoming []UpcomingItem
}

// MonthTotal monto cobrado de un mes calendario.
type MonthTotal struct {
	Key    string // YYYY-MM
	Label  string // "Jun 2024"
	Amount decimal.Decimal
}

// ChartBreakdown desglose en cuatro partes para el gráfico de estados.
type ChartBreakdown struct {
	Paid     int
	Pending  int
	Overdue  int
	Canceled int
}

// CountByStatus cuenta las facturas en cada estado.
func CountByStatus(invoices []*entity.Invoice) StatusCounts {
	var c StatusCounts
	for _, inv := range invoices {
		switch inv.Status {
		case entity.StatusPending:
			c.Pending++
		case entity.StatusPaid:
			c.Paid++
		case entity.StatusCanceled:
			c.Canceled++
		}
	}
	return c
}

// SumPending suma los montos PENDING.
func SumPending(invoices []*entity.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		if inv.Status == entity.StatusPending {
			total = total.Add(inv.Amount)
		}
	}
	return total
}

// SumCollected suma PAID y CANCELED: las canceladas cuentan como cobradas en el dashboard.
func SumCollected(invoices []*entity.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		if isCollected(inv.Status) {
			total = total.Add(inv.Amount)
		}
	}
	return total
}

func isCollected(s entity.Status) bool {
	return s == entity.StatusPaid || s == entity.StatusCanceled
}

// ClassifyByDueDate separa las pendientes en vencidas y por vencer (0..window días).
// Las que vencen después de la ventana no aparecen en ninguna lista.
func ClassifyByDueDate(invoices []*entity.Invoice, today entity.Date, window int) DueDateBuckets {
	if window < 0 {
		window = DefaultUpcomingDays
	}
	b := DueDateBuckets{Overdue: []OverdueItem{}, Upcoming: []UpcomingItem{}}
	for _, inv := range invoices {
		if inv.Status != entity.StatusPending || inv.DueDate.IsZero() {
			continue
		}
		days := today.DaysUntil(inv.DueDate)
		switch {
		case days < 0:
			b.Overdue = append(b.Overdue, OverdueItem{Invoice: inv, DaysOverdue: -days})
		case days <= window:
			b.Upcoming = append(b.Upcoming, UpcomingItem{Invoice: inv, DaysUntilDue: days})
		}
	}
	return b
}

// MonthlyCollected arma los últimos monthsBack meses (del más antiguo al actual) y
// acumula PAID + CANCELED según el mes de emisión. Lo que cae fuera se ignora.
func MonthlyCollected(invoices []*entity.Invoice, today entity.Date, monthsBack int) []MonthTotal {
	if monthsBack < 1 {
		monthsBack = DefaultMonthsBack
	}
	months := make([]MonthTotal, monthsBack)
	index := make(map[string]int, monthsBack)
	for i := 0; i < monthsBack; i++ {
		d := entity.NewDate(today.Year, today.Month-time.Month(monthsBack-1-i), 1)
		key := d.MonthKey()
		months[i] = MonthTotal{Key: key, Label: monthLabel(d), Amount: decimal.Zero}
		index[key] = i
	}

	for _, inv := range invoices {
		if !isCollected(inv.Status) || inv.IssueDate.IsZero() {
			continue
		}
		if i, ok := index[inv.IssueDate.MonthKey()]; ok {
			months[i].Amount = months[i].Amount.Add(inv.Amount)
		}
	}
	return months
}

func monthLabel(d entity.Date) string {
	return fmt.Sprintf("%s %d", monthNames[d.Month-1], d.Year)
}

// StatusBreakdownForChart como CountByStatus pero separa las pendientes vencidas
// (vencimiento anterior a hoy) de las que siguen en plazo.
func StatusBreakdownForChart(invoices []*entity.Invoice, today entity.Date) ChartBreakdown {
	var c ChartBreakdown
	for _, inv := range invoices {
		switch inv.Status {
		case entity.StatusPaid:
			c.Paid++
		case entity.StatusCanceled:
			c.Canceled++
		case entity.StatusPending:
			if !inv.DueDate.IsZero() && inv.DueDate.Before(today) {
				c.Overdue++
			} else {
				c.Pending++
			}
		}
	}
	return c
}
