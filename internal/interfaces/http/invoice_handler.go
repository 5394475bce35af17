package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/awfacturas/internal/application/billing"
	"github.com/jhoicas/awfacturas/internal/application/dto"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// InvoiceHandler maneja facturas, estados, gestiones y estado de cuenta.
type InvoiceHandler struct {
	uc          *billing.InvoiceUseCase
	statementUC *billing.StatementUseCase
	pageSize    int
	log         *logger.Logger
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, statementUC *billing.StatementUseCase, pageSize int, log *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{uc: uc, statementUC: statementUC, pageSize: pageSize, log: log}
}

// Create POST /api/invoices
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(inv)
}

// List GET /api/invoices?q=&page=1
func (h *InvoiceHandler) List(c *fiber.Ctx) error {
	state, err := viewState(c, h.pageSize)
	if err != nil {
		return respondError(c, h.log, err)
	}
	page, err := h.uc.List(c.UserContext(), &state)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(page)
}

// GetByID GET /api/invoices/:id
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	inv, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inv)
}

// Update PATCH /api/invoices/:id
func (h *InvoiceHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.Edit(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inv)
}

// MarkPaid POST /api/invoices/:id/paid
func (h *InvoiceHandler) MarkPaid(c *fiber.Ctx) error {
	inv, err := h.uc.MarkPaid(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inv)
}

// MarkCanceled POST /api/invoices/:id/canceled
func (h *InvoiceHandler) MarkCanceled(c *fiber.Ctx) error {
	inv, err := h.uc.MarkCanceled(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inv)
}

// SetStatus PUT /api/invoices/:id/status  body: {"status":"PENDING"}
func (h *InvoiceHandler) SetStatus(c *fiber.Ctx) error {
	var in dto.SetStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inv, err := h.uc.SetStatus(c.UserContext(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(inv)
}

// Delete DELETE /api/invoices/:id
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// History GET /api/invoices/:id/followups
func (h *InvoiceHandler) History(c *fiber.Ctx) error {
	hist, err := h.uc.History(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(hist)
}

// AddFollowup POST /api/invoices/:id/followups
func (h *InvoiceHandler) AddFollowup(c *fiber.Ctx) error {
	var in dto.FollowupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	hist, err := h.uc.AddFollowup(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(hist)
}

// Statement GET /api/invoices/:id/statement.pdf
func (h *InvoiceHandler) Statement(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.statementUC.Download(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}
