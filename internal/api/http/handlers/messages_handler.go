package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/encenape/event-service/internal/api/dto"
	"github.com/encenape/event-service/internal/auth"
	"github.com/encenape/event-service/internal/service"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// MessagesHandler manages the contact form and the admin response endpoints.
type MessagesHandler struct {
	service *service.MessageService
}

// NewMessagesHandler constructs handler.
func NewMessagesHandler(messageService *service.MessageService) *MessagesHandler {
	return &MessagesHandler{service: messageService}
}

// Create POST /mensagens. Public, no authentication required.
func (h *MessagesHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	message, err := h.service.Create(c.UserContext(), req.Sender, req.Text, req.ContactEmail)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewMessageResponse(message)})
}

// List GET /mensagens. Admin only.
func (h *MessagesHandler) List(c *fiber.Ctx) error {
	messages, err := h.service.ListAll(c.UserContext(), parseIntQuery(c, "limit", 100), 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMessageResponses(messages)})
}

// ListPaginated GET /mensagens/paginado. Admin only.
func (h *MessagesHandler) ListPaginated(c *fiber.Ctx) error {
	messages, err := h.service.ListAll(c.UserContext(),
		parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMessageResponses(messages)})
}

// ListOpen GET /mensagens/abertas. Admin only.
func (h *MessagesHandler) ListOpen(c *fiber.Ctx) error {
	messages, err := h.service.ListOpen(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMessageResponses(messages)})
}

// Respond POST /mensagens/:id/responder. Admin only.
func (h *MessagesHandler) Respond(c *fiber.Ctx) error {
	admin, ok := auth.UserFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("user required")
	}
	var req dto.RespondMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	message, err := h.service.Respond(c.UserContext(), c.Params("id"), req.Response, admin)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewMessageResponse(message)})
}
