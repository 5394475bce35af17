package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/awfacturas/internal/application/dto"
	"github.com/jhoicas/awfacturas/internal/application/query"
	"github.com/jhoicas/awfacturas/internal/domain"
	"github.com/jhoicas/awfacturas/internal/domain/entity"
	"github.com/jhoicas/awfacturas/internal/domain/repository"
	"github.com/jhoicas/awfacturas/internal/domain/validation"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// ClientUseCase casos de uso para el registro de clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
	log  *logger.Logger
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository, log *logger.Logger) *ClientUseCase {
	return &ClientUseCase{repo: repo, log: log.Component("billing.clients")}
}

// Register valida el formulario, verifica que el RUC/DNI no exista y guarda el cliente.
func (uc *ClientUseCase) Register(ctx context.Context, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if res := validation.ValidateFullClient(toFullClient(in)); !res.Valid {
		return nil, invalid(res.Errors...)
	}
	taxID := strings.TrimSpace(in.TaxID)
	c, err := uc.repo.AddUnique(ctx, toClientInput(in))
	if errors.Is(err, domain.ErrDuplicate) {
		return nil, duplicateTaxID(taxID)
	}
	if err != nil {
		return nil, fmt.Errorf("clientes: registrar: %w", err)
	}
	uc.log.Info().Str("id", c.ID).Str("tax_id", c.TaxID).Msg("cliente registrado")
	out := toClientResponse(c)
	return &out, nil
}

// Update edita un cliente. El RUC/DNI debe seguir siendo único.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.ClientRequest) (*dto.ClientResponse, error) {
	if res := validation.ValidateFullClient(toFullClient(in)); !res.Valid {
		return nil, invalid(res.Errors...)
	}
	c, err := uc.repo.UpdateUnique(ctx, id, toClientInput(in))
	switch {
	case errors.Is(err, domain.ErrDuplicate):
		return nil, duplicateTaxID(strings.TrimSpace(in.TaxID))
	case errors.Is(err, domain.ErrNotFound):
		return nil, domain.ErrNotFound
	case err != nil:
		return nil, fmt.Errorf("clientes: actualizar: %w", err)
	}
	out := toClientResponse(c)
	return &out, nil
}

func duplicateTaxID(taxID string) error {
	return fmt.Errorf("%w: el RUC/DNI %s ya está registrado", domain.ErrDuplicate, taxID)
}

// Delete elimina el cliente. Sus facturas conservan la copia de nombre y RUC.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	removed, err := uc.repo.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("clientes: eliminar: %w", err)
	}
	if !removed {
		return domain.ErrNotFound
	}
	uc.log.Info().Str("id", id).Msg("cliente eliminado")
	return nil
}

// Get obtiene un cliente por ID.
func (uc *ClientUseCase) Get(ctx context.Context, id string) (*dto.ClientResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	out := toClientResponse(c)
	return &out, nil
}

// List busca y pagina según el estado de la tabla; state queda con la página efectiva.
func (uc *ClientUseCase) List(ctx context.Context, state *query.ViewState) (*dto.ClientListResponse, error) {
	list, err := uc.repo.Search(ctx, state.Query)
	if err != nil {
		return nil, fmt.Errorf("clientes: listar: %w", err)
	}
	page := query.Apply(state, list)
	out := &dto.ClientListResponse{
		PageResponse: toPageResponse(page, state.Query),
		Items:        make([]dto.ClientResponse, 0, len(page.Items)),
	}
	for _, c := range page.Items {
		out.Items = append(out.Items, toClientResponse(c))
	}
	return out, nil
}

// Options lista de clientes para el select del formulario de facturas.
func (uc *ClientUseCase) Options(ctx context.Context) ([]dto.ClientOption, error) {
	list, err := uc.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("clientes: opciones: %w", err)
	}
	out := make([]dto.ClientOption, 0, len(list))
	for _, c := range list {
		out = append(out, dto.ClientOption{
			ID:    c.ID,
			TaxID: c.TaxID,
			Label: fmt.Sprintf("%s (%s)", c.LegalName, c.TaxID),
		})
	}
	return out, nil
}

func toFullClient(in dto.ClientRequest) validation.FullClient {
	return validation.FullClient{
		ClientCore: validation.ClientCore{TaxID: in.TaxID, LegalName: in.LegalName, Address: in.Address},
		Primary:    validation.ContactFields(in.PrimaryContact),
		Secondary:  validation.ContactFields(in.SecondaryContact),
	}
}

func toClientInput(in dto.ClientRequest) entity.ClientInput {
	return entity.ClientInput{
		TaxID:     in.TaxID,
		LegalName: in.LegalName,
		Address:   in.Address,
		Primary:   entity.Contact(in.PrimaryContact),
		Secondary: entity.Contact(in.SecondaryContact),
	}
}
