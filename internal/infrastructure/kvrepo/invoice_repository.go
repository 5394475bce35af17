package kvrepo

import (
	"context"
	"strings"

	"github.com/jhoicas/awfacturas/internal/application/query"
	"github.com/jhoicas/awfacturas/internal/domain"
	"github.com/jhoicas/awfacturas/internal/domain/entity"
	"github.com/jhoicas/awfacturas/internal/domain/repository"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository sobre un KVStore.
type InvoiceRepo struct {
	col  collection[*entity.Invoice]
	opts options
	log  *logger.Logger
}

// NewInvoiceRepository construye el adaptador sobre la clave InvoicesKey.
func NewInvoiceRepository(store repository.KVStore, log *logger.Logger, opts ...Option) *InvoiceRepo {
	l := log.Component("kvrepo.invoices")
	return &InvoiceRepo{
		col:  collection[*entity.Invoice]{store: store, key: InvoicesKey, log: l, decode: decodeInvoices},
		opts: buildOptions(opts),
		log:  l,
	}
}

func (r *InvoiceRepo) GetAll(ctx context.Context) ([]*entity.Invoice, error) {
	return r.col.load(ctx)
}

// GetByID obtiene una factura por ID; nil si no existe.
func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	list, err := r.col.load(ctx)
	if err != nil {
		return nil, err
	}
	_, inv := findInvoice(list, id)
	return inv, nil
}

// Add inserta la factura al inicio con la copia de nombre y RUC del cliente.
func (r *InvoiceRepo) Add(ctx context.Context, client *entity.Client, in entity.InvoiceInput) (*entity.Invoice, error) {
	status := in.Status
	if !status.Valid() {
		status = entity.StatusPending
	}
	currency := in.Currency
	if currency == "" {
		currency = entity.CurrencyPEN
	}

	inv := &entity.Invoice{
		ID:            r.opts.newID("inv"),
		ClientID:      in.ClientID,
		InvoiceNumber: strings.TrimSpace(in.InvoiceNumber),
		Amount:        in.Amount,
		Currency:      currency,
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,
		Status:        status,
		Followups:     []entity.Followup{},
		CreatedAt:     r.opts.now(),
	}
	if client != nil {
		inv.ClientID = client.ID
		inv.ClientName = client.LegalName
		inv.ClientTaxID = client.TaxID
	}

	err := r.col.update(ctx, func(list []*entity.Invoice) ([]*entity.Invoice, bool, error) {
		return append([]*entity.Invoice{inv}, list...), true, nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("id", inv.ID).Str("number", inv.InvoiceNumber).Msg("factura registrada")
	return inv, nil
}

// Update aplica el patch sobre la factura existente.
func (r *InvoiceRepo) Update(ctx context.Context, id string, patch entity.InvoicePatch) (*entity.Invoice, error) {
	return r.mutate(ctx, id, func(inv *entity.Invoice) error {
		patch.Apply(inv)
		return nil
	})
}

// SetStatus cambia el estado respetando PAID ↔ CANCELED.
func (r *InvoiceRepo) SetStatus(ctx context.Context, id string, status entity.Status) (*entity.Invoice, error) {
	return r.mutate(ctx, id, func(inv *entity.Invoice) error {
		if !inv.CanTransitionTo(status) {
			return domain.ErrInvalidTransition
		}
		inv.Status = status
		return nil
	})
}

// AppendFollowup agrega la gestión al final; asigna id si viene vacío.
func (r *InvoiceRepo) AppendFollowup(ctx context.Context, id string, f entity.Followup) (*entity.Invoice, error) {
	if f.ID == "" {
		f.ID = r.opts.newID("fu")
	}
	return r.mutate(ctx, id, func(inv *entity.Invoice) error {
		inv.Followups = append(inv.Followups, f)
		return nil
	})
}

func (r *InvoiceRepo) Remove(ctx context.Context, id string) (bool, error) {
	removed := false
	err := r.col.update(ctx, func(list []*entity.Invoice) ([]*entity.Invoice, bool, error) {
		i, inv := findInvoice(list, id)
		if inv == nil {
			return nil, false, nil
		}
		removed = true
		return append(list[:i], list[i+1:]...), true, nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		r.log.Debug().Str("id", id).Msg("factura eliminada")
	}
	return removed, nil
}

// Search filtra por número de factura, razón social o RUC del cliente.
func (r *InvoiceRepo) Search(ctx context.Context, q string) ([]*entity.Invoice, error) {
	list, err := r.col.load(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(list, q, invoiceSearchFields), nil
}

func invoiceSearchFields(inv *entity.Invoice) []string {
	return []string{inv.InvoiceNumber, inv.ClientName, inv.ClientTaxID}
}

// mutate carga, aplica fn sobre la factura y guarda bajo el lock de la
// colección. Si fn falla no se escribe nada.
func (r *InvoiceRepo) mutate(ctx context.Context, id string, fn func(*entity.Invoice) error) (*entity.Invoice, error) {
	var target *entity.Invoice
	err := r.col.update(ctx, func(list []*entity.Invoice) ([]*entity.Invoice, bool, error) {
		_, inv := findInvoice(list, id)
		if inv == nil {
			return nil, false, domain.ErrNotFound
		}
		if err := fn(inv); err != nil {
			return nil, false, err
		}
		target = inv
		return list, true, nil
	})
	if err != nil {
		return nil, err
	}
	return target, nil
}

func findInvoice(list []*entity.Invoice, id string) (int, *entity.Invoice) {
	for i, inv := range list {
		if inv.ID == id {
			return i, inv
		}
	}
	return -1, nil
}
