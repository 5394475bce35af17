package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/awfacturas/internal/application/billing"
	"github.com/jhoicas/awfacturas/internal/application/dto"
	"github.com/jhoicas/awfacturas/internal/application/query"
	"github.com/jhoicas/awfacturas/pkg/logger"
)

// ClientHandler maneja las peticiones HTTP de clientes.
type ClientHandler struct {
	uc       *billing.ClientUseCase
	pageSize int
	log      *logger.Logger
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *billing.ClientUseCase, pageSize int, log *logger.Logger) *ClientHandler {
	return &ClientHandler{uc: uc, pageSize: pageSize, log: log}
}

// Create POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	client, err := h.uc.Register(c.UserContext(), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// List GET /api/clients?q=&page=1&page_size=5
func (h *ClientHandler) List(c *fiber.Ctx) error {
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

// Options GET /api/clients/options
func (h *ClientHandler) Options(c *fiber.Ctx) error {
	opts, err := h.uc.Options(c.UserContext())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(opts)
}

// GetByID GET /api/clients/:id
func (h *ClientHandler) GetByID(c *fiber.Ctx) error {
	client, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(client)
}

// Update PUT /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	var in dto.ClientRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	client, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(client)
}

// Delete DELETE /api/clients/:id
func (h *ClientHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// viewState arma el estado de la tabla desde ?q=&page=&page_size=.
func viewState(c *fiber.Ctx, defaultSize int) (query.ViewState, error) {
	var req dto.PageRequest
	if err := c.QueryParser(&req); err != nil {
		return query.ViewState{}, invalidQuery(err)
	}
	size := req.PageSize
	if size < 1 {
		size = defaultSize
	}
	state := query.NewViewState(size)
	state.SetQuery(req.Query)
	if req.Page > 0 {
		state.Goto(req.Page)
	}
	return state, nil
}
