package service

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/encenape/event-service/internal/cache"
	"github.com/encenape/event-service/internal/clock"
	"github.com/encenape/event-service/internal/domain"
	"github.com/encenape/event-service/internal/repository"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// EventService serves the public catalog and the administrative CRUD surface.
type EventService struct {
	repo   repository.EventRepository
	venues repository.VenueRepository
	cache  *cache.EventCache
	clock  clock.Clock
	logger *zap.Logger
}

// NewEventService constructs the service. The cache may be nil, in which
// case every read goes to the database.
func NewEventService(repo repository.EventRepository, venues repository.VenueRepository, eventCache *cache.EventCache, clk clock.Clock, logger *zap.Logger) *EventService {
	if clk == nil {
		clk = clock.NewSystem()
	}
	return &EventService{repo: repo, venues: venues, cache: eventCache, clock: clk, logger: logger}
}

// EventInput carries the writable fields for create and update.
type EventInput struct {
	Title        string
	Description  string
	Category     string
	City         string
	Venue        string
	Address      string
	StartsAt     time.Time
	DurationMin  int
	Price        string
	TotalTickets int
	ImageURL     string
	Active       bool
	VenueID      *string
}

// GetByID resolves a single event, consulting the cache first.
func (s *EventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if s.cache != nil {
		if event := s.cache.GetEvent(ctx, id); event != nil {
			return event, nil
		}
	}
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("evento", nil)
		}
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.SetEvent(ctx, event)
	}
	return event, nil
}

// ListUpcoming returns active future events ordered by start time.
func (s *EventService) ListUpcoming(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	list, err := s.repo.ListUpcoming(ctx, s.clock.Now(), limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListAvailable returns events tickets can currently be bought for.
func (s *EventService) ListAvailable(ctx context.Context) ([]domain.Event, error) {
	list, err := s.repo.ListAvailable(ctx, s.clock.Now())
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Search filters the public catalog by category, city, date range and free text.
func (s *EventService) Search(ctx context.Context, filter repository.EventFilter) ([]domain.Event, error) {
	list, err := s.repo.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Categories returns the distinct categories present in the catalog.
func (s *EventService) Categories(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if cached := s.cache.GetCategories(ctx); cached != nil {
			return cached, nil
		}
	}
	categories, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.SetCategories(ctx, categories)
	}
	return categories, nil
}

// Cities returns the distinct cities present in the catalog.
func (s *EventService) Cities(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		if cached := s.cache.GetCities(ctx); cached != nil {
			return cached, nil
		}
	}
	cities, err := s.repo.DistinctCities(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.SetCities(ctx, cities)
	}
	return cities, nil
}

// ListAll returns every event including inactive and past ones. Admin only.
func (s *EventService) ListAll(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	list, err := s.repo.ListAll(ctx, limit, offset)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Create inserts a new event. The full capacity starts available.
func (s *EventService) Create(ctx context.Context, input EventInput) (*domain.Event, error) {
	event, err := s.buildEvent(input)
	if err != nil {
		return nil, err
	}
	if err := s.checkVenue(ctx, event.VenueID); err != nil {
		return nil, err
	}
	event.TicketsAvailable = event.TotalTickets

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.invalidateLists(ctx)
	return event, nil
}

// Update replaces the writable fields of an existing event. The available
// count is never set from input; it only moves through sales and
// cancellations, except that growing the capacity grows availability by the
// same amount.
func (s *EventService) Update(ctx context.Context, id string, input EventInput) (*domain.Event, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.NewNotFound("evento", nil)
		}
		return nil, apperrors.MapError(err)
	}

	updated, err := s.buildEvent(input)
	if err != nil {
		return nil, err
	}
	if err := s.checkVenue(ctx, updated.VenueID); err != nil {
		return nil, err
	}
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt

	// Availability moves relative to the stored count, applied atomically in
	// the UPDATE itself; concurrent sales are never overwritten.
	if err := s.repo.Update(ctx, updated, updated.TotalTickets-current.TotalTickets); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.InvalidateEvent(ctx, id)
	}
	s.invalidateLists(ctx)
	return updated, nil
}

// Delete removes an event. Sold tickets keep their rows; their event
// reference dangles deliberately so purchase history survives.
func (s *EventService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("evento", nil)
		}
		return apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.InvalidateEvent(ctx, id)
	}
	s.invalidateLists(ctx)
	return nil
}

func (s *EventService) buildEvent(input EventInput) (*domain.Event, error) {
	if input.Title == "" {
		return nil, apperrors.NewValidationError("título é obrigatório", nil)
	}
	if input.TotalTickets < 0 {
		return nil, apperrors.NewValidationError("total de ingressos não pode ser negativo", nil)
	}
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, err
	}
	duration := input.DurationMin
	if duration <= 0 {
		duration = domain.DefaultDurationMin
	}
	return &domain.Event{
		Title:        input.Title,
		Description:  input.Description,
		Category:     input.Category,
		City:         input.City,
		Venue:        input.Venue,
		Address:      input.Address,
		StartsAt:     input.StartsAt,
		DurationMin:  duration,
		Price:        price,
		TotalTickets: input.TotalTickets,
		ImageURL:     input.ImageURL,
		Active:       input.Active,
		VenueID:      input.VenueID,
	}, nil
}

// GetVenue resolves an event's venue reference, or nil when the event has
// none.
func (s *EventService) GetVenue(ctx context.Context, venueID *string) (*domain.Venue, error) {
	if venueID == nil || s.venues == nil {
		return nil, nil
	}
	venue, err := s.venues.GetByID(ctx, *venueID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, apperrors.MapError(err)
	}
	return venue, nil
}

// ListVenues returns venues currently open for scheduling.
func (s *EventService) ListVenues(ctx context.Context) ([]domain.Venue, error) {
	if s.venues == nil {
		return nil, nil
	}
	venues, err := s.venues.ListAvailable(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return venues, nil
}

func (s *EventService) checkVenue(ctx context.Context, venueID *string) error {
	if venueID == nil || s.venues == nil {
		return nil
	}
	if _, err := s.venues.GetByID(ctx, *venueID); err != nil {
		if err == pgx.ErrNoRows {
			return apperrors.NewNotFound("espaço", nil)
		}
		return apperrors.MapError(err)
	}
	return nil
}

func (s *EventService) invalidateLists(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateLists(ctx)
	}
}
