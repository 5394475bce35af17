package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/awfacturas/internal/application/analytics"
	"github.com/jhoicas/awfacturas/internal/application/billing"
	"github.com/jhoicas/awfacturas/internal/application/changefeed"
	"github.com/jhoicas/awfacturas/internal/application/dto"
	"github.com/jhoicas/awfacturas/internal/infrastructure/kvrepo"
	"github.com/jhoicas/awfacturas/internal/infrastructure/kvstore"
	infrapdf "github.com/jhoicas/awfacturas/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/awfacturas/internal/interfaces/http"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

var testNow = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

// buildTestApp arma la API completa sobre un almacén en memoria.
func buildTestApp(t *testing.T) (*fiber.App, *changefeed.Feed) {
	t.Helper()
	log := logger.Nop()
	store := kvstore.NewMemoryStore()
	clientRepo := kvrepo.NewClientRepository(store, log)
	invoiceRepo := kvrepo.NewInvoiceRepository(store, log)
	feed := changefeed.New(log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		ClientUC:  billing.NewClientUseCase(clientRepo, log),
		InvoiceUC: billing.NewInvoiceUseCase(invoiceRepo, clientRepo, log),
		StatementUC: billing.NewStatementUseCase(invoiceRepo, clientRepo,
			infrapdf.NewMarotoStatementGenerator("AW Facturas", testNow), testNow),
		DashboardUC: appanalytics.NewDashboardUseCase(clientRepo, invoiceRepo, 3, 4),
		Feed:        feed,
		PageSize:    5,
		Location:    time.UTC,
		Now:         testNow,
		SyncWait:    200 * time.Millisecond,
		Log:         log,
	})
	return app, feed
}

func do(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func clientBody(taxID, name string) dto.ClientRequest {
	return dto.ClientRequest{
		TaxID:          taxID,
		LegalName:      name,
		Address:        "Av. Brasil 200",
		PrimaryContact: dto.ContactDTO{Name: "Carla", Phone: "955555555", Email: "carla@mail.pe"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestClients_CRUD(t *testing.T) {
	app, _ := buildTestApp(t)

	resp := do(t, app, fiber.MethodPost, "/api/clients", clientBody("20123456789", "ACME SAC"))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.ClientResponse](t, resp)
	assert.Equal(t, "ACME SAC", created.LegalName)

	resp = do(t, app, fiber.MethodPost, "/api/clients", clientBody("20123456789", "Otra"))
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, fiber.MethodPost, "/api/clients", dto.ClientRequest{TaxID: "1"})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	verr := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", verr.Code)
	assert.Contains(t, verr.Details, "La razón social es obligatoria")

	resp = do(t, app, fiber.MethodGet, "/api/clients?q=acme", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	list := decode[dto.ClientListResponse](t, resp)
	assert.Equal(t, 1, list.TotalItems)
	assert.Equal(t, "acme", list.Query)

	resp = do(t, app, fiber.MethodGet, "/api/clients/options", nil)
	opts := decode[[]dto.ClientOption](t, resp)
	require.Len(t, opts, 1)
	assert.Equal(t, "ACME SAC (20123456789)", opts[0].Label)

	upd := clientBody("20123456789", "ACME PERU SAC")
	resp = do(t, app, fiber.MethodPut, "/api/clients/"+created.ID, upd)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACME PERU SAC", decode[dto.ClientResponse](t, resp).LegalName)

	resp = do(t, app, fiber.MethodDelete, "/api/clients/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = do(t, app, fiber.MethodGet, "/api/clients/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestClients_PaginaFueraDeRango(t *testing.T) {
	app, _ := buildTestApp(t)
	for _, id := range []string{"10000000001", "10000000002", "10000000003"} {
		resp := do(t, app, fiber.MethodPost, "/api/clients", clientBody(id, "Cliente "+id))
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}

	resp := do(t, app, fiber.MethodGet, "/api/clients?page=7&page_size=2", nil)
	list := decode[dto.ClientListResponse](t, resp)
	assert.Equal(t, 2, list.Page)
	assert.Equal(t, 2, list.TotalPages)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 3, list.ShownFrom)
	assert.Equal(t, 3, list.ShownTo)
}

func TestInvoices_Flujo(t *testing.T) {
	app, _ := buildTestApp(t)

	client := decode[dto.ClientResponse](t, do(t, app, fiber.MethodPost, "/api/clients", clientBody("12345678", "Juan Pérez")))

	resp := do(t, app, fiber.MethodPost, "/api/invoices", map[string]any{
		"client_id":      client.ID,
		"invoice_number": "E001-1",
		"amount":         "100",
		"issue_date":     "2024-05-01",
		"due_date":       "2024-05-30",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	inv := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "PENDING", inv.Status)
	assert.Equal(t, "S/ 100.00", inv.AmountLabel)

	resp = do(t, app, fiber.MethodPost, "/api/invoices/"+inv.ID+"/followups", dto.FollowupRequest{
		Date: "2024-05-31", Channel: "WHATSAPP", Comment: "Recordatorio enviado",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	hist := decode[dto.FollowupHistoryResponse](t, resp)
	require.Len(t, hist.Items, 1)

	resp = do(t, app, fiber.MethodGet, "/api/dashboard/summary", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	sum := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, "2024-06-01", sum.Today)
	require.Len(t, sum.Overdue, 1)
	assert.Equal(t, 2, sum.Overdue[0].Days)

	resp = do(t, app, fiber.MethodGet, "/api/invoices/"+inv.ID+"/statement.pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get(fiber.HeaderContentType))
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "estado_cuenta_E001-1_20240601.pdf")

	resp = do(t, app, fiber.MethodPost, "/api/invoices/"+inv.ID+"/paid", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = do(t, app, fiber.MethodPost, "/api/invoices/"+inv.ID+"/canceled", nil)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INVALID_TRANSITION", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, fiber.MethodPut, "/api/invoices/"+inv.ID+"/status", dto.SetStatusRequest{Status: "PENDING"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = do(t, app, fiber.MethodPatch, "/api/invoices/"+inv.ID, map[string]any{"invoice_number": "E001-2"})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "E001-2", decode[dto.InvoiceResponse](t, resp).InvoiceNumber)

	resp = do(t, app, fiber.MethodGet, "/api/invoices?q=juan", nil)
	assert.Equal(t, 1, decode[dto.InvoiceListResponse](t, resp).TotalItems)

	resp = do(t, app, fiber.MethodDelete, "/api/invoices/"+inv.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	resp = do(t, app, fiber.MethodGet, "/api/invoices/"+inv.ID+"/followups", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestInvoices_CuerpoInvalido(t *testing.T) {
	app, _ := buildTestApp(t)
	req := httptest.NewRequest(fiber.MethodPost, "/api/invoices", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_BODY", decode[dto.ErrorResponse](t, resp).Code)
}

func TestDashboard_FechaInvalida(t *testing.T) {
	app, _ := buildTestApp(t)
	resp := do(t, app, fiber.MethodGet, "/api/dashboard/summary?today=ayer", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestSync_Revisiones(t *testing.T) {
	app, feed := buildTestApp(t)
	feed.Notify(kvrepo.InvoicesKey)

	resp := do(t, app, fiber.MethodGet, "/api/sync", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[apphttp.SyncResponse](t, resp)
	assert.Equal(t, uint64(1), got.Revisions[kvrepo.InvoicesKey])
}

func TestSync_EsperaCambioDeUnaClave(t *testing.T) {
	app, feed := buildTestApp(t)
	time.AfterFunc(20*time.Millisecond, func() { feed.Notify(kvrepo.ClientsKey) })

	resp := do(t, app, fiber.MethodGet, "/api/sync?key="+kvrepo.ClientsKey+"&since=0", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[apphttp.KeySyncResponse](t, resp)
	assert.True(t, got.Changed)
	assert.Equal(t, uint64(1), got.Revision)
}

func TestSync_SinCambiosVenceLaEspera(t *testing.T) {
	app, feed := buildTestApp(t)
	feed.Notify(kvrepo.InvoicesKey)

	resp := do(t, app, fiber.MethodGet, "/api/sync?key="+kvrepo.InvoicesKey+"&since=1", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[apphttp.KeySyncResponse](t, resp)
	assert.False(t, got.Changed)
	assert.Equal(t, uint64(1), got.Revision)

	resp = do(t, app, fiber.MethodGet, "/api/sync?key=x&since=abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestListados_ParametrosDePaginaInvalidos(t *testing.T) {
	app, _ := buildTestApp(t)
	for _, path := range []string{"/api/clients?page=abc", "/api/invoices?page_size=x"} {
		resp := do(t, app, fiber.MethodGet, path, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, path)
		assert.Equal(t, "VALIDATION", decode[dto.ErrorResponse](t, resp).Code, path)
	}
}

func TestConcurrencia_FollowupsYRegistroDuplicado(t *testing.T) {
	app, _ := buildTestApp(t)
	client := decode[dto.ClientResponse](t, do(t, app, fiber.MethodPost, "/api/clients", clientBody("12345678", "Juan Pérez")))
	inv := decode[dto.InvoiceResponse](t, do(t, app, fiber.MethodPost, "/api/invoices", map[string]any{
		"client_id":      client.ID,
		"invoice_number": "E001-9",
		"amount":         "50",
		"issue_date":     "2024-05-01",
		"due_date":       "2024-05-30",
	}))

	const n = 20
	statuses := make(chan int, 2*n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			resp := do(t, app, fiber.MethodPost, "/api/invoices/"+inv.ID+"/followups", dto.FollowupRequest{
				Date: "2024-05-31", Channel: "EMAIL", Comment: "aviso",
			})
			resp.Body.Close()
			assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
		}()
		go func() {
			defer wg.Done()
			resp := do(t, app, fiber.MethodPost, "/api/clients", clientBody("20111111111", "Duplicada SAC"))
			resp.Body.Close()
			statuses <- resp.StatusCode
		}()
	}
	wg.Wait()
	close(statuses)

	created := 0
	for code := range statuses {
		if code == fiber.StatusCreated {
			created++
		} else {
			assert.Equal(t, fiber.StatusConflict, code)
		}
	}
	assert.Equal(t, 1, created)

	hist := decode[dto.FollowupHistoryResponse](t, do(t, app, fiber.MethodGet, "/api/invoices/"+inv.ID+"/followups", nil))
	assert.Len(t, hist.Items, n)

	list := decode[dto.ClientListResponse](t, do(t, app, fiber.MethodGet, "/api/clients?page_size=50", nil))
	assert.Equal(t, 2, list.TotalItems)
}
