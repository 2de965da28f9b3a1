package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/encenape/event-service/internal/api/dto"
	"github.com/encenape/event-service/internal/auth"
	"github.com/encenape/event-service/internal/service"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// TicketsHandler manages purchase and ticket management endpoints.
type TicketsHandler struct {
	service *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService) *TicketsHandler {
	return &TicketsHandler{service: ticketService}
}

// Purchase POST /ingressos.
func (h *TicketsHandler) Purchase(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.PurchaseTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.EventID == "" {
		return apperrors.NewValidationError("event_id required", nil)
	}

	ticket, err := h.service.Purchase(c.UserContext(), user, req.EventID, req.Quantity, req.PaymentMethod)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// ListMine GET /ingressos/me.
func (h *TicketsHandler) ListMine(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.service.ListMine(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// ListMinePaginated GET /ingressos/me/paginado.
func (h *TicketsHandler) ListMinePaginated(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.service.ListMinePaginated(c.UserContext(), user.ID,
		parseIntQuery(c, "limit", 20), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// ListMineActive GET /ingressos/me/ativos.
func (h *TicketsHandler) ListMineActive(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	tickets, err := h.service.ListMineActive(c.UserContext(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponses(tickets)})
}

// GetByCode GET /ingressos/codigo/:codigo.
func (h *TicketsHandler) GetByCode(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	ticket, err := h.service.GetByCode(c.UserContext(), c.Params("codigo"))
	if err != nil {
		return err
	}
	if ticket.UserID != user.ID && !user.IsAdmin() {
		return apperrors.NewForbidden("ingresso não pertence ao usuário")
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Cancel POST /ingressos/:id/cancel.
func (h *TicketsHandler) Cancel(c *fiber.Ctx) error {
	user, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.CancelTicketRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.service.Cancel(c.UserContext(), c.Params("id"), user, req.Reason); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "ingresso cancelado com sucesso"})
}
