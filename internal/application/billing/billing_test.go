package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/awfacturas/internal/application/analytics"
	"github.com/jhoicas/awfacturas/internal/application/billing"
	"github.com/jhoicas/awfacturas/internal/application/dto"
	"github.com/jhoicas/awfacturas/internal/application/query"
	"github.com/jhoicas/awfacturas/internal/domain"
	"github.com/jhoicas/awfacturas/internal/domain/entity"
	"github.com/jhoicas/awfacturas/internal/infrastructure/kvrepo"
	"github.com/jhoicas/awfacturas/internal/infrastructure/kvstore"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

type fixture struct {
	clients     *billing.ClientUseCase
	invoices    *billing.InvoiceUseCase
	clientRepo  *kvrepo.ClientRepo
	invoiceRepo *kvrepo.InvoiceRepo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := kvstore.NewMemoryStore()
	cr := kvrepo.NewClientRepository(store, logger.Nop())
	ir := kvrepo.NewInvoiceRepository(store, logger.Nop())
	return fixture{
		clients:     billing.NewClientUseCase(cr, logger.Nop()),
		invoices:    billing.NewInvoiceUseCase(ir, cr, logger.Nop()),
		clientRepo:  cr,
		invoiceRepo: ir,
	}
}

func clientReq(taxID, name string) dto.ClientRequest {
	return dto.ClientRequest{
		TaxID:          taxID,
		LegalName:      name,
		Address:        "Av. Arequipa 100",
		PrimaryContact: dto.ContactDTO{Name: "Rosa", Phone: "912345678", Email: "rosa@mail.pe"},
	}
}

func TestClientUseCase_RegisterValidaYRechazaDuplicados(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.clients.Register(ctx, dto.ClientRequest{TaxID: "123"})
	var verr *billing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, verr.Errors, "El RUC/DNI debe tener 8 ó 11 dígitos")

	c, err := f.clients.Register(ctx, clientReq("20123456789", "ACME SAC"))
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Nil(t, c.SecondaryContact)

	_, err = f.clients.Register(ctx, clientReq(" 20123456789 ", "Otra"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	all, _ := f.clientRepo.GetAll(ctx)
	assert.Len(t, all, 1)
}

func TestClientUseCase_UpdateMantieneUnicidad(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	a, err := f.clients.Register(ctx, clientReq("20123456789", "ACME"))
	require.NoError(t, err)
	b, err := f.clients.Register(ctx, clientReq("12345678", "Juan"))
	require.NoError(t, err)

	_, err = f.clients.Update(ctx, b.ID, clientReq("20123456789", "Juan"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	updated, err := f.clients.Update(ctx, a.ID, clientReq("20123456789", "ACME PERU"))
	require.NoError(t, err, "conservar el propio RUC no es duplicado")
	assert.Equal(t, "ACME PERU", updated.LegalName)

	_, err = f.clients.Update(ctx, "nope", clientReq("87654321", "X"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// ningún par de clientes comparte RUC/DNI
	all, _ := f.clientRepo.GetAll(ctx)
	seen := map[string]bool{}
	for _, c := range all {
		assert.False(t, seen[c.TaxID], c.TaxID)
		seen[c.TaxID] = true
	}
}

func TestClientUseCase_ListOptionsDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for _, tc := range []struct{ taxID, name string }{
		{"10000000001", "Alfa"}, {"10000000002", "Beta"}, {"10000000003", "Gamma"},
		{"10000000004", "Delta"}, {"10000000005", "Épsilon"}, {"10000000006", "Zeta"},
	} {
		_, err := f.clients.Register(ctx, clientReq(tc.taxID, tc.name))
		require.NoError(t, err)
	}

	state := query.NewViewState(5)
	state.Goto(9)
	page, err := f.clients.List(ctx, &state)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, state.PageIndex)
	assert.Equal(t, 6, page.TotalItems)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Zeta", page.Items[0].LegalName)
	assert.Equal(t, 6, page.ShownFrom)

	state.SetQuery("épsilon")
	page, err = f.clients.List(ctx, &state)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 1, page.Page)

	opts, err := f.clients.Options(ctx)
	require.NoError(t, err)
	require.Len(t, opts, 6)
	assert.Equal(t, "Alfa (10000000001)", opts[0].Label)

	require.NoError(t, f.clients.Delete(ctx, opts[0].ID))
	assert.ErrorIs(t, f.clients.Delete(ctx, opts[0].ID), domain.ErrNotFound)
	_, err = f.clients.Get(ctx, opts[0].ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUseCase_CreateValida(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{})
	var verr *billing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{
		"Selecciona un cliente.",
		"Ingresa el número de factura.",
		"Selecciona la fecha de emisión.",
		"Selecciona la fecha de vencimiento.",
		"Ingresa un monto válido.",
	}, verr.Errors)

	_, err = f.invoices.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: "client_inexistente", InvoiceNumber: "F1", Amount: decimal.NewFromInt(1),
		IssueDate: "2024-06-01", DueDate: "2024-06-30",
	})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Selecciona un cliente."}, verr.Errors)
}

// Escenario completo: cliente, factura pendiente, pago, cancelación rechazada y monto cobrado.
func TestEndToEnd(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	today := entity.DateOf(time.Now())

	c, err := f.clients.Register(ctx, clientReq("12345678", "Juan Pérez"))
	require.NoError(t, err)

	inv, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{
		ClientID:      c.ID,
		InvoiceNumber: "E001-1",
		Amount:        decimal.NewFromInt(100),
		IssueDate:     today.String(),
		DueDate:       today.String(),
		Status:        "PENDING",
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", inv.Status)
	assert.Equal(t, "PEN", inv.Currency)
	assert.Equal(t, "12345678", inv.ClientTaxID)
	assert.Equal(t, "S/ 100.00", inv.AmountLabel)

	paid, err := f.invoices.MarkPaid(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "PAID", paid.Status)

	_, err = f.invoices.MarkCanceled(ctx, inv.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "No se puede CANCELAR una factura PAGADA.")

	all, err := f.invoiceRepo.GetAll(ctx)
	require.NoError(t, err)
	assert.True(t, analytics.SumCollected(all).Equal(decimal.NewFromInt(100)))
}

func TestInvoiceUseCase_SetStatusYTerminales(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, _ := f.clients.Register(ctx, clientReq("12345678", "Juan"))
	inv, err := f.invoices.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: c.ID, InvoiceNumber: "F1", Amount: decimal.NewFromInt(10),
		IssueDate: "2024-06-01", DueDate: "2024-06-30",
	})
	require.NoError(t, err)

	_, err = f.invoices.SetStatus(ctx, inv.ID, "PAGADA")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.invoices.SetStatus(ctx, inv.ID, "canceled")
	require.NoError(t, err)

	_, err = f.invoices.MarkPaid(ctx, inv.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "No se puede marcar como PAGADA una factura CANCELADA.")

	back, err := f.invoices.SetStatus(ctx, inv.ID, "PENDING")
	require.NoError(t, err, "volver a PENDING está permitido")
	assert.Equal(t, "PENDING", back.Status)

	_, err = f.invoices.MarkPaid(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUseCase_FollowupsYHistorial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, _ := f.clients.Register(ctx, clientReq("12345678", "Juan"))
	inv, _ := f.invoices.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: c.ID, InvoiceNumber: "F1", Amount: decimal.NewFromInt(10),
		IssueDate: "2024-06-01", DueDate: "2024-06-30",
	})

	_, err := f.invoices.AddFollowup(ctx, inv.ID, dto.FollowupRequest{})
	var verr *billing.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"Selecciona la fecha de gestión.", "Selecciona el medio.", "Escribe un comentario."}, verr.Errors)

	_, err = f.invoices.AddFollowup(ctx, inv.ID, dto.FollowupRequest{Date: "2024-06-02", Channel: "llamada", Comment: "primera"})
	require.NoError(t, err)
	hist, err := f.invoices.AddFollowup(ctx, inv.ID, dto.FollowupRequest{Date: "2024-06-05", Channel: "EMAIL", Comment: "segunda"})
	require.NoError(t, err)
	require.Len(t, hist.Items, 2)
	assert.Equal(t, "segunda", hist.Items[0].Comment, "más reciente primero")
	assert.Equal(t, "LLAMADA", hist.Items[1].Channel)

	stored, _ := f.invoiceRepo.GetByID(ctx, inv.ID)
	assert.Equal(t, "primera", stored.Followups[0].Comment, "el orden guardado no cambia")

	_, err = f.invoices.AddFollowup(ctx, "nope", dto.FollowupRequest{Date: "2024-06-02", Channel: "OTRO", Comment: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.invoices.History(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestInvoiceUseCase_EditListDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, _ := f.clients.Register(ctx, clientReq("20123456789", "ACME"))
	inv, _ := f.invoices.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: c.ID, InvoiceNumber: "F1", Amount: decimal.NewFromInt(10),
		IssueDate: "2024-06-01", DueDate: "2024-06-30",
	})

	zero := decimal.Zero
	_, err := f.invoices.Edit(ctx, inv.ID, dto.UpdateInvoiceRequest{Amount: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	amount := decimal.NewFromInt(25)
	usd := "usd"
	edited, err := f.invoices.Edit(ctx, inv.ID, dto.UpdateInvoiceRequest{Amount: &amount, Currency: &usd})
	require.NoError(t, err)
	assert.Equal(t, "$ 25.00", edited.AmountLabel)
	assert.Equal(t, "F1", edited.InvoiceNumber)

	_, err = f.invoices.Edit(ctx, "nope", dto.UpdateInvoiceRequest{Amount: &amount})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	state := query.NewViewState(5)
	state.SetQuery("acme")
	page, err := f.invoices.List(ctx, &state)
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, f.invoices.Delete(ctx, inv.ID))
	assert.ErrorIs(t, f.invoices.Delete(ctx, inv.ID), domain.ErrNotFound)
}

type fakeGenerator struct {
	history []entity.Followup
	client  *entity.Client
	err     error
}

func (g *fakeGenerator) GenerateStatementPDF(_ context.Context, _ *entity.Invoice, c *entity.Client, h []entity.Followup) ([]byte, error) {
	g.client = c
	g.history = h
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4"), nil
}

func TestStatementUseCase_Download(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	c, _ := f.clients.Register(ctx, clientReq("20123456789", "ACME"))
	inv, _ := f.invoices.Create(ctx, dto.CreateInvoiceRequest{
		ClientID: c.ID, InvoiceNumber: "E001/9", Amount: decimal.NewFromInt(10),
		IssueDate: "2024-06-01", DueDate: "2024-06-30",
	})
	_, _ = f.invoices.AddFollowup(ctx, inv.ID, dto.FollowupRequest{Date: "2024-06-02", Channel: "OTRO", Comment: "a"})
	_, _ = f.invoices.AddFollowup(ctx, inv.ID, dto.FollowupRequest{Date: "2024-06-03", Channel: "OTRO", Comment: "b"})

	gen := &fakeGenerator{}
	now := func() time.Time { return time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC) }
	uc := billing.NewStatementUseCase(f.invoiceRepo, f.clientRepo, gen, now)

	pdf, name, err := uc.Download(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4", string(pdf))
	assert.Equal(t, "estado_cuenta_E001_9_20240610.pdf", name)
	require.Len(t, gen.history, 2)
	assert.Equal(t, "b", gen.history[0].Comment)

	// cliente eliminado: se usa la copia guardada en la factura
	require.NoError(t, f.clients.Delete(ctx, c.ID))
	_, _, err = uc.Download(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME", gen.client.LegalName)

	_, _, err = uc.Download(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	gen.err = errors.New("sin fuentes")
	_, _, err = uc.Download(ctx, inv.ID)
	assert.Error(t, err)
}
