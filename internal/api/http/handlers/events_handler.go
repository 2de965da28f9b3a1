package handlers

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/encenape/event-service/internal/api/dto"
	"github.com/encenape/event-service/internal/clock"
	"github.com/encenape/event-service/internal/repository"
	"github.com/encenape/event-service/internal/service"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// EventsHandler manages the public catalog and the admin CRUD endpoints.
type EventsHandler struct {
	service *service.EventService
	clock   clock.Clock
}

// NewEventsHandler constructs handler.
func NewEventsHandler(eventService *service.EventService, clk clock.Clock) *EventsHandler {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &EventsHandler{service: eventService, clock: clk}
}

// List GET /eventos. Filters are all optional.
func (h *EventsHandler) List(c *fiber.Ctx) error {
	filter := repository.EventFilter{
		Limit:  parseIntQuery(c, "limit", 20),
		Offset: parseIntQuery(c, "offset", 0),
	}
	if v := c.Query("categoria"); v != "" {
		filter.Category = &v
	}
	if v := c.Query("cidade"); v != "" {
		filter.City = &v
	}
	if v := c.Query("busca"); v != "" {
		filter.Search = &v
	}
	if v := c.Query("de"); v != "" {
		from, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return apperrors.NewValidationError("parâmetro 'de' deve ser RFC3339", nil)
		}
		filter.From = &from
	}
	if v := c.Query("ate"); v != "" {
		to, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return apperrors.NewValidationError("parâmetro 'ate' deve ser RFC3339", nil)
		}
		filter.To = &to
	}

	eventList, err := h.service.Search(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(eventList, h.clock.Now())})
}

// ListUpcoming GET /eventos/proximos.
func (h *EventsHandler) ListUpcoming(c *fiber.Ctx) error {
	eventList, err := h.service.ListUpcoming(c.UserContext(),
		parseIntQuery(c, "limit", 20), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(eventList, h.clock.Now())})
}

// ListAvailable GET /eventos/disponiveis.
func (h *EventsHandler) ListAvailable(c *fiber.Ctx) error {
	eventList, err := h.service.ListAvailable(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(eventList, h.clock.Now())})
}

// Categories GET /eventos/categorias.
func (h *EventsHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.service.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": categories})
}

// Cities GET /eventos/cidades.
func (h *EventsHandler) Cities(c *fiber.Ctx) error {
	cities, err := h.service.Cities(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": cities})
}

// Get GET /eventos/:id. The full venue record is embedded when the event
// is bound to one.
func (h *EventsHandler) Get(c *fiber.Ctx) error {
	event, err := h.service.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	resp := dto.NewEventResponse(event, h.clock.Now())
	venue, err := h.service.GetVenue(c.UserContext(), event.VenueID)
	if err != nil {
		return err
	}
	if venue != nil {
		resp.VenueDetail = dto.NewVenueResponse(venue)
	}
	return c.JSON(fiber.Map{"data": resp})
}

// ListVenues GET /eventos/espacos.
func (h *EventsHandler) ListVenues(c *fiber.Ctx) error {
	venues, err := h.service.ListVenues(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewVenueResponses(venues)})
}

// ListAll GET /eventos/admin. Includes inactive and past events.
func (h *EventsHandler) ListAll(c *fiber.Ctx) error {
	eventList, err := h.service.ListAll(c.UserContext(),
		parseIntQuery(c, "limit", 50), parseIntQuery(c, "offset", 0))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponses(eventList, h.clock.Now())})
}

// Create POST /eventos. Admin only.
func (h *EventsHandler) Create(c *fiber.Ctx) error {
	input, err := parseEventRequest(c)
	if err != nil {
		return err
	}
	event, err := h.service.Create(c.UserContext(), input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewEventResponse(event, h.clock.Now())})
}

// Update PUT /eventos/:id. Admin only.
func (h *EventsHandler) Update(c *fiber.Ctx) error {
	input, err := parseEventRequest(c)
	if err != nil {
		return err
	}
	event, err := h.service.Update(c.UserContext(), c.Params("id"), input)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEventResponse(event, h.clock.Now())})
}

// Delete DELETE /eventos/:id. Admin only.
func (h *EventsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func parseEventRequest(c *fiber.Ctx) (service.EventInput, error) {
	var req dto.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return service.EventInput{}, apperrors.NewValidationError("invalid payload", nil)
	}
	return service.EventInput{
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		City:         req.City,
		Venue:        req.Venue,
		Address:      req.Address,
		StartsAt:     req.StartsAt,
		DurationMin:  req.DurationMin,
		Price:        req.Price,
		TotalTickets: req.TotalTickets,
		ImageURL:     req.ImageURL,
		Active:       req.Active,
		VenueID:      req.VenueID,
	}, nil
}

func parseIntQuery(c *fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
