package kvrepo

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/awfacturas/internal/application/query"
	"github.com/jhoicas/awfacturas/internal/domain"
	"github.com/jhoicas/awfacturas/internal/domain/entity"
	"github.com/jhoicas/awfacturas/internal/domain/repository"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository sobre un KVStore.
type ClientRepo struct {
	col  collection[*entity.Client]
	opts options
	log  *logger.Logger
}

// NewClientRepository construye el adaptador sobre la clave ClientsKey.
func NewClientRepository(store repository.KVStore, log *logger.Logger, opts ...Option) *ClientRepo {
	l := log.Component("kvrepo.clients")
	return &ClientRepo{
		col:  collection[*entity.Client]{store: store, key: ClientsKey, log: l, decode: decodeClients},
		opts: buildOptions(opts),
		log:  l,
	}
}

// GetAll lista los clientes en orden de registro.
func (r *ClientRepo) GetAll(ctx context.Context) ([]*entity.Client, error) {
	return r.col.load(ctx)
}

// GetByID obtiene un cliente por ID; nil si no existe.
func (r *ClientRepo) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	list, err := r.col.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range list {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

// GetByTaxID primer cliente con ese RUC/DNI; nil si no existe.
func (r *ClientRepo) GetByTaxID(ctx context.Context, taxID string) (*entity.Client, error) {
	list, err := r.col.load(ctx)
	if err != nil {
		return nil, err
	}
	return findByTaxID(list, taxID, ""), nil
}

// findByTaxID primer cliente con taxID cuyo ID no sea exceptID.
func findByTaxID(list []*entity.Client, taxID, exceptID string) *entity.Client {
	for _, c := range list {
		if c.TaxID == taxID && c.ID != exceptID {
			return c
		}
	}
	return nil
}

// Exists indica si el RUC/DNI ya está registrado.
func (r *ClientRepo) Exists(ctx context.Context, taxID string) (bool, error) {
	c, err := r.GetByTaxID(ctx, taxID)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

// Add agrega el cliente al final de la colección.
func (r *ClientRepo) Add(ctx context.Context, in entity.ClientInput) (*entity.Client, error) {
	now := r.opts.now()
	c := &entity.Client{
		ID:        r.opts.newID("client"),
		CreatedAt: now,
	}
	applyClientInput(c, in, now)

	err := r.col.update(ctx, func(list []*entity.Client) ([]*entity.Client, bool, error) {
		return append(list, c), true, nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("id", c.ID).Str("tax_id", c.TaxID).Msg("cliente registrado")
	return c, nil
}

// AddUnique agrega el cliente solo si ningún otro tiene su RUC/DNI; la
// verificación y la escritura ocurren bajo el mismo lock.
func (r *ClientRepo) AddUnique(ctx context.Context, in entity.ClientInput) (*entity.Client, error) {
	now := r.opts.now()
	c := &entity.Client{
		ID:        r.opts.newID("client"),
		CreatedAt: now,
	}
	applyClientInput(c, in, now)

	err := r.col.update(ctx, func(list []*entity.Client) ([]*entity.Client, bool, error) {
		if findByTaxID(list, c.TaxID, "") != nil {
			return nil, false, domain.ErrDuplicate
		}
		return append(list, c), true, nil
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("id", c.ID).Str("tax_id", c.TaxID).Msg("cliente registrado")
	return c, nil
}

// Update reemplaza los campos editables; conserva ID y CreatedAt.
func (r *ClientRepo) Update(ctx context.Context, id string, in entity.ClientInput) (*entity.Client, error) {
	return r.update(ctx, id, in, false)
}

// UpdateUnique como Update, pero falla con ErrDuplicate si otro cliente ya
// tiene el RUC/DNI nuevo.
func (r *ClientRepo) UpdateUnique(ctx context.Context, id string, in entity.ClientInput) (*entity.Client, error) {
	return r.update(ctx, id, in, true)
}

func (r *ClientRepo) update(ctx context.Context, id string, in entity.ClientInput, unique bool) (*entity.Client, error) {
	var updated *entity.Client
	err := r.col.update(ctx, func(list []*entity.Client) ([]*entity.Client, bool, error) {
		for _, c := range list {
			if c.ID != id {
				continue
			}
			if unique && findByTaxID(list, strings.TrimSpace(in.TaxID), id) != nil {
				return nil, false, domain.ErrDuplicate
			}
			applyClientInput(c, in, r.opts.now())
			updated = c
			return list, true, nil
		}
		return nil, false, domain.ErrNotFound
	})
	if err != nil {
		return nil, err
	}
	r.log.Debug().Str("id", id).Msg("cliente actualizado")
	return updated, nil
}

// Remove elimina el cliente; sus facturas conservan la copia de nombre y RUC.
func (r *ClientRepo) Remove(ctx context.Context, id string) (bool, error) {
	removed := false
	err := r.col.update(ctx, func(list []*entity.Client) ([]*entity.Client, bool, error) {
		for i, c := range list {
			if c.ID == id {
				removed = true
				return append(list[:i], list[i+1:]...), true, nil
			}
		}
		return nil, false, nil
	})
	if err != nil {
		return false, err
	}
	if removed {
		r.log.Debug().Str("id", id).Msg("cliente eliminado")
	}
	return removed, nil
}

// Search filtra por RUC/DNI o razón social sin distinguir mayúsculas.
func (r *ClientRepo) Search(ctx context.Context, q string) ([]*entity.Client, error) {
	list, err := r.col.load(ctx)
	if err != nil {
		return nil, err
	}
	return query.Filter(list, q, clientSearchFields), nil
}

func clientSearchFields(c *entity.Client) []string {
	return []string{c.TaxID, c.LegalName}
}

// applyClientInput copia los campos recortados. El contacto secundario solo se
// arma si se informó alguno de sus campos.
func applyClientInput(c *entity.Client, in entity.ClientInput, now time.Time) {
	c.TaxID = strings.TrimSpace(in.TaxID)
	c.LegalName = strings.TrimSpace(in.LegalName)
	c.Address = strings.TrimSpace(in.Address)
	c.PrimaryContact = trimContact(in.Primary)
	c.SecondaryContact = nil
	if in.HasSecondary() {
		secondary := trimContact(in.Secondary)
		c.SecondaryContact = &secondary
	}
	c.UpdatedAt = now
}

func trimContact(c entity.Contact) entity.Contact {
	return entity.Contact{
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
		Email: strings.TrimSpace(c.Email),
	}
}
