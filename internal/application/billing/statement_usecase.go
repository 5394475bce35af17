package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/awfacturas/internal/domain"
	"github.com/jhoicas/awfacturas/internal/domain/entity"
	"github.com/jhoicas/awfacturas/internal/domain/repository"
)

// StatementUseCase genera el estado de cuenta (PDF) de una factura con sus gestiones.
type StatementUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	generator   StatementPDFGenerator
	now         Clock
}

// NewStatementUseCase construye el caso de uso. now nil usa time.Now.
func NewStatementUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	generator StatementPDFGenerator,
	now Clock,
) *StatementUseCase {
	if now == nil {
		now = time.Now
	}
	return &StatementUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		generator:   generator,
		now:         now,
	}
}

// Download devuelve el PDF y el nombre de archivo sugerido.
//
// Retorna:
//   - domain.ErrNotFound si la factura no existe.
//
// Si el cliente ya fue eliminado se usa la copia de nombre y RUC guardada en la factura.
func (uc *StatementUseCase) Download(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("estado de cuenta: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.ErrNotFound
	}

	client, err := uc.clientRepo.GetByID(ctx, inv.ClientID)
	if err != nil {
		return nil, "", fmt.Errorf("estado de cuenta: obtener cliente: %w", err)
	}
	if client == nil {
		client = &entity.Client{ID: inv.ClientID, TaxID: inv.ClientTaxID, LegalName: inv.ClientName}
	}

	pdfBytes, err = uc.generator.GenerateStatementPDF(ctx, inv, client, NewestFirst(inv.Followups))
	if err != nil {
		return nil, "", fmt.Errorf("estado de cuenta: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("estado_cuenta_%s_%s.pdf", safeName(inv.InvoiceNumber), uc.now().Format("20060102"))
	return pdfBytes, filename, nil
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, s)
}
