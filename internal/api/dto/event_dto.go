package dto

import (
	"time"

	"github.com/encenape/event-service/internal/domain"
)

// EventRequest payload for create and update.
type EventRequest struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	City         string    `json:"city"`
	Venue        string    `json:"venue"`
	Address      string    `json:"address"`
	StartsAt     time.Time `json:"starts_at"`
	DurationMin  int       `json:"duration_min"`
	Price        string    `json:"price"`
	TotalTickets int       `json:"total_tickets"`
	ImageURL     string    `json:"image_url"`
	Active       bool      `json:"active"`
	VenueID      *string   `json:"venue_id"`
}

// VenueResponse is the public view of a venue.
type VenueResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	Capacity    int    `json:"capacity"`
	Available   bool   `json:"available"`
}

// NewVenueResponse maps the domain venue.
func NewVenueResponse(venue *domain.Venue) *VenueResponse {
	if venue == nil {
		return nil
	}
	return &VenueResponse{
		ID:          venue.ID,
		Name:        venue.Name,
		Description: venue.Description,
		Address:     venue.Address,
		City:        venue.City,
		Capacity:    venue.Capacity,
		Available:   venue.Available,
	}
}

// NewVenueResponses maps a slice of venues.
func NewVenueResponses(venues []domain.Venue) []VenueResponse {
	items := make([]VenueResponse, 0, len(venues))
	for i := range venues {
		items = append(items, *NewVenueResponse(&venues[i]))
	}
	return items
}

// EventResponse is the public view of an event.
type EventResponse struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	Category         string         `json:"category"`
	City             string         `json:"city"`
	Venue            string         `json:"venue"`
	Address          string         `json:"address"`
	StartsAt         time.Time      `json:"starts_at"`
	DurationMin      int            `json:"duration_min"`
	Price            string         `json:"price"`
	TotalTickets     int            `json:"total_tickets"`
	TicketsAvailable int            `json:"tickets_available"`
	ImageURL         string         `json:"image_url,omitempty"`
	Active           bool           `json:"active"`
	Available        bool           `json:"available"`
	VenueID          *string        `json:"venue_id,omitempty"`
	VenueDetail      *VenueResponse `json:"venue_detail,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// NewEventResponse maps the domain event; availability is computed against
// the given instant.
func NewEventResponse(event *domain.Event, now time.Time) EventResponse {
	return EventResponse{
		ID:               event.ID,
		Title:            event.Title,
		Description:      event.Description,
		Category:         event.Category,
		City:             event.City,
		Venue:            event.Venue,
		Address:          event.Address,
		StartsAt:         event.StartsAt,
		DurationMin:      event.DurationMin,
		Price:            event.Price.StringFixed(2),
		TotalTickets:     event.TotalTickets,
		TicketsAvailable: event.TicketsAvailable,
		ImageURL:         event.ImageURL,
		Active:           event.Active,
		Available:        event.IsAvailable(now),
		VenueID:          event.VenueID,
		CreatedAt:        event.CreatedAt,
		UpdatedAt:        event.UpdatedAt,
	}
}

// NewEventResponses maps a slice of events.
func NewEventResponses(eventList []domain.Event, now time.Time) []EventResponse {
	items := make([]EventResponse, 0, len(eventList))
	for i := range eventList {
		items = append(items, NewEventResponse(&eventList[i], now))
	}
	return items
}
