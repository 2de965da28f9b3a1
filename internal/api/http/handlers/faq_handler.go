package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/encenape/event-service/internal/api/dto"
	"github.com/encenape/event-service/internal/service"
)

// FAQHandler serves the public FAQ endpoints.
type FAQHandler struct {
	service *service.FAQService
}

// NewFAQHandler constructs handler.
func NewFAQHandler(faqService *service.FAQService) *FAQHandler {
	return &FAQHandler{service: faqService}
}

// List GET /faq.
func (h *FAQHandler) List(c *fiber.Ctx) error {
	faqs, err := h.service.List(c.UserContext(), 0, 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFAQResponses(faqs)})
}

// ListPaginated GET /faq/paginado.
func (h *FAQHandler) ListPaginated(c *fiber.Ctx) error {
	faqs, err := h.service.List(c.UserContext(),
		parseIntQuery(c, "limit", 20), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFAQResponses(faqs)})
}

// ListByCategory GET /faq/categoria/:categoria.
func (h *FAQHandler) ListByCategory(c *fiber.Ctx) error {
	faqs, err := h.service.ListByCategory(c.UserContext(), c.Params("categoria"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFAQResponses(faqs)})
}

// Search GET /faq/search.
func (h *FAQHandler) Search(c *fiber.Ctx) error {
	faqs, err := h.service.Search(c.UserContext(), c.Query("q"), 0, 0)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFAQResponses(faqs)})
}

// SearchPaginated GET /faq/search/paginado.
func (h *FAQHandler) SearchPaginated(c *fiber.Ctx) error {
	faqs, err := h.service.Search(c.UserContext(), c.Query("q"),
		parseIntQuery(c, "limit", 20), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewFAQResponses(faqs)})
}

// Categories GET /faq/categorias.
func (h *FAQHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}
