package billing

import (
	"context"
	"time"

	"github.com/jhoicas/awfacturas/internal/domain/entity"
)

// Clock fuente de "ahora"; time.Now por defecto.
type Clock func() time.Time

// StatementPDFGenerator genera el estado de cuenta de una factura con su historial de gestiones.
type StatementPDFGenerator interface {
	GenerateStatementPDF(ctx context.Context, inv *entity.Invoice, client *entity.Client, history []entity.Followup) ([]byte, error)
}
