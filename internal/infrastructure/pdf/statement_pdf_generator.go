// Package pdf implementa el estado de cuenta de una factura (gestión de cobranza).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Emisor            │  N° Factura + Fecha de emisión │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Razón social + RUC/DNI + dirección + contacto      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Emisión | Vencimiento | Estado | Monto             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Medio | Comentario (más reciente primero)    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de referencia + fecha de generación             │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/awfacturas/internal/application/billing"
	"github.com/jhoicas/awfacturas/internal/domain/entity"
)

var _ billing.StatementPDFGenerator = (*MarotoStatementGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorDanger  = &props.Color{Red: 180, Green: 30, Blue: 30}
)

var statusLabels = map[entity.Status]string{
	entity.StatusPending:  "PENDIENTE",
	entity.StatusPaid:     "PAGADA",
	entity.StatusCanceled: "CANCELADA",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStatementGenerator implementa billing.StatementPDFGenerator usando Maroto v2.
type MarotoStatementGenerator struct {
	issuer string
	now    func() time.Time
}

// NewMarotoStatementGenerator construye el generador. issuer va en la cabecera.
func NewMarotoStatementGenerator(issuer string, now func() time.Time) *MarotoStatementGenerator {
	if now == nil {
		now = time.Now
	}
	return &MarotoStatementGenerator{issuer: issuer, now: now}
}

// GenerateStatementPDF genera el PDF y devuelve sus bytes. history ya viene en orden de presentación.
func (g *MarotoStatementGenerator) GenerateStatementPDF(
	_ context.Context,
	inv *entity.Invoice,
	client *entity.Client,
	history []entity.Followup,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta "+inv.InvoiceNumber, true).
		WithAuthor(g.issuer, true).
		Build()

	m := maroto.New(cfg)
	today := entity.DateOf(g.now())

	m.AddRows(g.headerRow(inv))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(clientRow(client))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(summaryRow(inv, today))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(historyTitleRow(len(history)))
	m.AddRows(tableHeaderRow())
	m.AddRows(historyRows(history)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(inv, today))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: emisor (izq) y N° Factura + emisión (der).
func (g *MarotoStatementGenerator) headerRow(inv *entity.Invoice) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(g.issuer, "AW Facturas"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Estado de cuenta / Gestión de cobranza", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(inv.InvoiceNumber, "-"), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emisión: "+inv.IssueDate.Display(), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// clientRow: datos del cliente y contacto principal.
func clientRow(c *entity.Client) core.Row {
	contact := "-"
	if c.PrimaryContact.Name != "" {
		contact = fmt.Sprintf("%s   |   Cel: %s   |   Email: %s",
			c.PrimaryContact.Name,
			nonEmpty(c.PrimaryContact.Phone, "-"),
			nonEmpty(c.PrimaryContact.Email, "-"),
		)
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New("CLIENTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(c.LegalName, "-"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("RUC/DNI: %s   |   Dirección: %s",
				nonEmpty(c.TaxID, "-"),
				nonEmpty(c.Address, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New("Contacto: "+contact, props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
	)
}

// summaryRow: fechas, estado y monto; si está vencida se indica los días de atraso.
func summaryRow(inv *entity.Invoice, today entity.Date) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1})
	}
	value := func(s string, color *props.Color) core.Component {
		return text.New(s, props.Text{Size: 10, Top: 6, Color: color})
	}

	status := statusLabels[inv.Status]
	statusColor := colorGray
	if inv.Status == entity.StatusPending && !inv.DueDate.IsZero() {
		if days := today.DaysUntil(inv.DueDate); days < 0 {
			status = fmt.Sprintf("VENCIDA (%d días)", -days)
			statusColor = colorDanger
		}
	}

	return row.New(14).Add(
		col.New(3).Add(label("Emisión"), value(inv.IssueDate.Display(), nil)),
		col.New(3).Add(label("Vencimiento"), value(inv.DueDate.Display(), nil)),
		col.New(3).Add(label("Estado"), value(status, statusColor)),
		col.New(3).Add(
			label("Monto"),
			text.New(entity.FormatMoney(inv.Amount, inv.Currency), props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 6, Color: colorPrimary,
			}),
		),
	)
}

func historyTitleRow(count int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(fmt.Sprintf("HISTORIAL DE GESTIONES (%d)", count), props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

// tableHeaderRow: cabecera de la tabla de gestiones con fondo azul.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Center),
		h("Medio", 2, align.Center),
		h("Comentario", 8, align.Left),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// historyRows: una fila por gestión; la altura crece con el comentario.
func historyRows(history []entity.Followup) []core.Row {
	if len(history) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin gestiones registradas.", props.Text{
				Size: 8, Align: align.Center, Top: 2, Color: colorGray,
			}),
		))}
	}
	rows := make([]core.Row, 0, len(history))
	for _, f := range history {
		rows = append(rows, row.New(rowHeight(f.Comment)).Add(
			col.New(2).Add(text.New(f.Date.Display(), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(string(f.Channel), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(8).Add(text.New(f.Comment, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1, Right: 1})),
		))
	}
	return rows
}

// footerRow: QR con la referencia de la factura y la fecha de generación.
func footerRow(inv *entity.Invoice, today entity.Date) core.Row {
	return row.New(32).Add(
		col.New(3).Add(code.NewQr(qrReference(inv), props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Documento informativo para seguimiento de cobranza; no reemplaza al comprobante electrónico.", props.Text{
				Size: 7, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Generado el "+today.Display(), props.Text{
				Style: fontstyle.Bold, Size: 8, Top: 14, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// rowHeight aproxima el alto para ~90 caracteres por línea en la columna de comentario.
func rowHeight(comment string) float64 {
	lines := len([]rune(comment))/90 + 1
	return float64(3 + 4*lines)
}

// qrReference N°|RUC|monto|vencimiento.
func qrReference(inv *entity.Invoice) string {
	return strings.Join([]string{
		inv.InvoiceNumber,
		inv.ClientTaxID,
		inv.Amount.StringFixed(2) + " " + string(inv.Currency),
		inv.DueDate.String(),
	}, "|")
}
