package repository

import (
	"context"

	"github.com/jhoicas/awfacturas/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
// Las facturas se guardan de la más reciente a la más antigua.
type InvoiceRepository interface {
	GetAll(ctx context.Context) ([]*entity.Invoice, error)
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// Add inserta al inicio copiando nombre y RUC del cliente.
	Add(ctx context.Context, client *entity.Client, in entity.InvoiceInput) (*entity.Invoice, error)
	// Update hace un merge superficial; domain.ErrNotFound si el id no existe.
	Update(ctx context.Context, id string, patch entity.InvoicePatch) (*entity.Invoice, error)
	// SetStatus retorna domain.ErrNotFound o domain.ErrInvalidTransition (PAID ↔ CANCELED).
	SetStatus(ctx context.Context, id string, status entity.Status) (*entity.Invoice, error)
	// AppendFollowup agrega la gestión al final del historial; domain.ErrNotFound si no existe.
	AppendFollowup(ctx context.Context, id string, f entity.Followup) (*entity.Invoice, error)
	Remove(ctx context.Context, id string) (bool, error)
	Search(ctx context.Context, query string) ([]*entity.Invoice, error)
}
