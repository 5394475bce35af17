package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/awfacturas/internal/application/dto"
	"github.com/jhoicas/awfacturas/internal/application/query"
	"github.com/jhoicas/awfacturas/internal/domain"
	"github.com/jhoicas/awfacturas/internal/domain/entity"
	"github.com/jhoicas/awfacturas/internal/domain/repository"
	"github.com/jhoicas/awfacturas/internal/domain/validation"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// Mensajes cuando se intenta cruzar el par terminal PAID ↔ CANCELED.
const (
	msgPaidOverCanceled = "No se puede marcar como PAGADA una factura CANCELADA."
	msgCancelOverPaid   = "No se puede CANCELAR una factura PAGADA."
)

// InvoiceUseCase registro de facturas, cambios de estado y gestiones de cobranza.
type InvoiceUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clientRepo  repository.ClientRepository
	log         *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoiceRepo repository.InvoiceRepository,
	clientRepo repository.ClientRepository,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		log:         log.Component("billing.invoices"),
	}
}

// Create valida el formulario, resuelve el cliente y registra la factura al inicio del listado.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	form := validation.InvoiceForm{
		ClientID:      in.ClientID,
		InvoiceNumber: in.InvoiceNumber,
		Amount:        in.Amount,
		Currency:      strings.ToUpper(strings.TrimSpace(in.Currency)),
		IssueDate:     in.IssueDate,
		DueDate:       in.DueDate,
		Status:        strings.ToUpper(strings.TrimSpace(in.Status)),
	}
	if res := validation.ValidateInvoiceForm(form); !res.Valid {
		return nil, invalid(res.Errors...)
	}

	client, err := uc.clientRepo.GetByID(ctx, strings.TrimSpace(in.ClientID))
	if err != nil {
		return nil, fmt.Errorf("facturas: obtener cliente: %w", err)
	}
	if client == nil {
		return nil, invalid("Selecciona un cliente.")
	}

	// Las fechas ya fueron validadas.
	issue, _ := entity.ParseDate(strings.TrimSpace(in.IssueDate))
	due, _ := entity.ParseDate(strings.TrimSpace(in.DueDate))

	status := entity.Status(form.Status)
	if status == "" {
		status = entity.StatusPending
	}
	inv, err := uc.invoiceRepo.Add(ctx, client, entity.InvoiceInput{
		ClientID:      client.ID,
		InvoiceNumber: in.InvoiceNumber,
		Amount:        in.Amount,
		Currency:      entity.Currency(form.Currency),
		IssueDate:     issue,
		DueDate:       due,
		Status:        status,
	})
	if err != nil {
		return nil, fmt.Errorf("facturas: registrar: %w", err)
	}
	uc.log.Info().Str("id", inv.ID).Str("number", inv.InvoiceNumber).Str("client_id", client.ID).Msg("factura registrada")
	out := toInvoiceResponse(inv)
	return &out, nil
}

// Get obtiene una factura por ID.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toInvoiceResponse(inv)
	return &out, nil
}

// List busca y pagina según el estado de la tabla.
func (uc *InvoiceUseCase) List(ctx context.Context, state *query.ViewState) (*dto.InvoiceListResponse, error) {
	list, err := uc.invoiceRepo.Search(ctx, state.Query)
	if err != nil {
		return nil, fmt.Errorf("facturas: listar: %w", err)
	}
	page := query.Apply(state, list)
	out := &dto.InvoiceListResponse{
		PageResponse: toPageResponse(page, state.Query),
		Items:        make([]dto.InvoiceResponse, 0, len(page.Items)),
	}
	for _, inv := range page.Items {
		out.Items = append(out.Items, toInvoiceResponse(inv))
	}
	return out, nil
}

// Edit corrige número, monto, moneda o fechas. El estado no se toca aquí.
func (uc *InvoiceUseCase) Edit(ctx context.Context, id string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	patch, errs := buildPatch(in)
	if len(errs) > 0 {
		return nil, invalid(errs...)
	}
	inv, err := uc.invoiceRepo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	out := toInvoiceResponse(inv)
	return &out, nil
}

func buildPatch(in dto.UpdateInvoiceRequest) (entity.InvoicePatch, []string) {
	var (
		patch entity.InvoicePatch
		errs  []string
	)
	if in.InvoiceNumber != nil {
		number := strings.TrimSpace(*in.InvoiceNumber)
		if number == "" {
			errs = append(errs, "Ingresa el número de factura.")
		}
		patch.InvoiceNumber = &number
	}
	if in.Amount != nil {
		if !in.Amount.GreaterThan(decimal.Zero) {
			errs = append(errs, "Ingresa un monto válido.")
		}
		patch.Amount = in.Amount
	}
	if in.Currency != nil {
		currency := entity.Currency(strings.ToUpper(strings.TrimSpace(*in.Currency)))
		if currency != entity.CurrencyPEN && currency != entity.CurrencyUSD {
			errs = append(errs, "La moneda debe ser PEN o USD.")
		}
		patch.Currency = &currency
	}
	if in.IssueDate != nil {
		d, err := entity.ParseDate(strings.TrimSpace(*in.IssueDate))
		if err != nil {
			errs = append(errs, "La fecha de emisión no es válida.")
		}
		patch.IssueDate = &d
	}
	if in.DueDate != nil {
		d, err := entity.ParseDate(strings.TrimSpace(*in.DueDate))
		if err != nil {
			errs = append(errs, "La fecha de vencimiento no es válida.")
		}
		patch.DueDate = &d
	}
	return patch, errs
}

// MarkPaid marca la factura como PAID; rechazado si está CANCELED.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.changeStatus(ctx, id, entity.StatusPaid)
}

// MarkCanceled marca la factura como CANCELED; rechazado si está PAID.
func (uc *InvoiceUseCase) MarkCanceled(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	return uc.changeStatus(ctx, id, entity.StatusCanceled)
}

// SetStatus cambio de estado genérico (incluye volver a PENDING).
func (uc *InvoiceUseCase) SetStatus(ctx context.Context, id, status string) (*dto.InvoiceResponse, error) {
	st := entity.Status(strings.ToUpper(strings.TrimSpace(status)))
	if !st.Valid() {
		return nil, invalid("El estado debe ser PENDING, PAID o CANCELED.")
	}
	return uc.changeStatus(ctx, id, st)
}

func (uc *InvoiceUseCase) changeStatus(ctx context.Context, id string, status entity.Status) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.SetStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidTransition) {
			msg := msgCancelOverPaid
			if status == entity.StatusPaid {
				msg = msgPaidOverCanceled
			}
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidTransition, msg)
		}
		return nil, err
	}
	uc.log.Info().Str("id", id).Str("status", string(status)).Msg("estado de factura actualizado")
	out := toInvoiceResponse(inv)
	return &out, nil
}

// AddFollowup registra una gestión y devuelve el historial actualizado.
func (uc *InvoiceUseCase) AddFollowup(ctx context.Context, id string, in dto.FollowupRequest) (*dto.FollowupHistoryResponse, error) {
	form := validation.FollowupForm{
		Date:    in.Date,
		Channel: strings.ToUpper(strings.TrimSpace(in.Channel)),
		Comment: in.Comment,
	}
	if res := validation.ValidateFollowupForm(form); !res.Valid {
		return nil, invalid(res.Errors...)
	}
	date, _ := entity.ParseDate(strings.TrimSpace(in.Date))

	inv, err := uc.invoiceRepo.AppendFollowup(ctx, id, entity.Followup{
		Date:    date,
		Channel: entity.FollowupChannel(form.Channel),
		Comment: strings.TrimSpace(in.Comment),
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("id", id).Str("channel", form.Channel).Msg("gestión registrada")
	return historyResponse(inv), nil
}

// History gestiones de la factura, la más reciente primero.
func (uc *InvoiceUseCase) History(ctx context.Context, id string) (*dto.FollowupHistoryResponse, error) {
	inv, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return historyResponse(inv), nil
}

// Delete elimina la factura.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	removed, err := uc.invoiceRepo.Remove(ctx, id)
	if err != nil {
		return fmt.Errorf("facturas: eliminar: %w", err)
	}
	if !removed {
		return domain.ErrNotFound
	}
	uc.log.Info().Str("id", id).Msg("factura eliminada")
	return nil
}

func (uc *InvoiceUseCase) find(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("facturas: obtener: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}

// NewestFirst copia invertida del historial; el orden guardado no cambia.
func NewestFirst(list []entity.Followup) []entity.Followup {
	out := make([]entity.Followup, len(list))
	for i, f := range list {
		out[len(list)-1-i] = f
	}
	return out
}

func historyResponse(inv *entity.Invoice) *dto.FollowupHistoryResponse {
	return &dto.FollowupHistoryResponse{
		InvoiceID: inv.ID,
		Items:     toFollowupList(NewestFirst(inv.Followups)),
	}
}
