package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/encenape/event-service/internal/domain"
)

// ErrInsufficientInventory signals a conditional decrement that found fewer
// tickets than requested.
var ErrInsufficientInventory = errors.New("insufficient tickets available")

// EventFilter captures public event search parameters.
type EventFilter struct {
	Category *string
	City     *string
	From     *time.Time
	To       *time.Time
	Search   *string
	Limit    int
	Offset   int
}

// EventRepository encapsulates event persistence.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event, capacityDelta int) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListUpcoming(ctx context.Context, now time.Time, limit, offset int) ([]domain.Event, error)
	ListAvailable(ctx context.Context, now time.Time) ([]domain.Event, error)
	ListWithFilter(ctx context.Context, filter EventFilter) ([]domain.Event, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Event, error)
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctCities(ctx context.Context) ([]string, error)
	ReserveTickets(ctx context.Context, eventID string, quantity int) (int, error)
	RestoreTickets(ctx context.Context, eventID string, quantity int) error
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository instantiates repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, title, description, category, city, venue, address, starts_at, duration_min,
               price, total_tickets, tickets_available, image_url, active, venue_id, created_at, updated_at`

func (r *eventRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, r.pool, fn)
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (title, description, category, city, venue, address, starts_at, duration_min,
                            price, total_tickets, tickets_available, image_url, active, venue_id)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return queryTarget(ctx, r.pool).QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Category,
		event.City,
		event.Venue,
		event.Address,
		event.StartsAt,
		event.DurationMin,
		event.Price,
		event.TotalTickets,
		event.TicketsAvailable,
		event.ImageURL,
		event.Active,
		event.VenueID,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

// Update rewrites the writable fields. The available count is adjusted
// relative to the stored value inside the statement, so a purchase that
// commits between the caller's read and this write is never overwritten.
func (r *eventRepository) Update(ctx context.Context, event *domain.Event, capacityDelta int) error {
	const query = `
        UPDATE events SET title=$1, description=$2, category=$3, city=$4, venue=$5, address=$6,
            starts_at=$7, duration_min=$8, price=$9, total_tickets=$10,
            tickets_available = LEAST($10, GREATEST(0, tickets_available + $11)),
            image_url=$12, active=$13, venue_id=$14, updated_at=NOW()
        WHERE id=$15
        RETURNING tickets_available`
	return queryTarget(ctx, r.pool).QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Category,
		event.City,
		event.Venue,
		event.Address,
		event.StartsAt,
		event.DurationMin,
		event.Price,
		event.TotalTickets,
		capacityDelta,
		event.ImageURL,
		event.Active,
		event.VenueID,
		event.ID,
	).Scan(&event.TicketsAvailable)
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := queryTarget(ctx, r.pool).Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events WHERE id=$1`, eventColumns)
	var event domain.Event
	if err := scanEvent(queryTarget(ctx, r.pool).QueryRow(ctx, query, id), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) ListUpcoming(ctx context.Context, now time.Time, limit, offset int) ([]domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events
             WHERE active AND starts_at > $1
             ORDER BY starts_at ASC LIMIT %d OFFSET %d`,
		eventColumns, normalizeLimit(limit), normalizeOffset(offset))
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) ListAvailable(ctx context.Context, now time.Time) ([]domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events
             WHERE active AND tickets_available > 0 AND starts_at > $1
             ORDER BY starts_at ASC`, eventColumns)
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) ListWithFilter(ctx context.Context, filter EventFilter) ([]domain.Event, error) {
	clauses := []string{"active"}
	args := []any{}

	if filter.Category != nil {
		args = append(args, *filter.Category)
		clauses = append(clauses, fmt.Sprintf("category=$%d", len(args)))
	}
	if filter.City != nil {
		args = append(args, *filter.City)
		clauses = append(clauses, fmt.Sprintf("city=$%d", len(args)))
	}
	if filter.From != nil {
		args = append(args, *filter.From)
		clauses = append(clauses, fmt.Sprintf("starts_at >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		clauses = append(clauses, fmt.Sprintf("starts_at <= $%d", len(args)))
	}
	if filter.Search != nil && strings.TrimSpace(*filter.Search) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.Search)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	query := fmt.Sprintf(`SELECT %s FROM events WHERE %s ORDER BY starts_at ASC LIMIT %d OFFSET %d`,
		eventColumns, strings.Join(clauses, " AND "), normalizeLimit(filter.Limit), normalizeOffset(filter.Offset))

	rows, err := queryTarget(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	query := fmt.Sprintf(`SELECT %s FROM events ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		eventColumns, normalizeLimit(limit), normalizeOffset(offset))
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEvents(rows)
}

func (r *eventRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT category FROM events WHERE active AND category <> '' ORDER BY category`
	return r.stringList(ctx, query)
}

func (r *eventRepository) DistinctCities(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT city FROM events WHERE active AND city <> '' ORDER BY city`
	return r.stringList(ctx, query)
}

// ReserveTickets atomically decrements the available count if at least
// quantity tickets remain. Returns the available count at decision time and
// ErrInsufficientInventory when the conditional update matched nothing.
func (r *eventRepository) ReserveTickets(ctx context.Context, eventID string, quantity int) (int, error) {
	const query = `
        UPDATE events SET tickets_available = tickets_available - $2, updated_at=NOW()
        WHERE id=$1 AND tickets_available >= $2
        RETURNING tickets_available + $2`
	var before int
	err := queryTarget(ctx, r.pool).QueryRow(ctx, query, eventID, quantity).Scan(&before)
	if err == nil {
		return before, nil
	}
	if err != pgx.ErrNoRows {
		return 0, err
	}

	var available int
	if err := queryTarget(ctx, r.pool).QueryRow(ctx,
		`SELECT tickets_available FROM events WHERE id=$1`, eventID).Scan(&available); err != nil {
		return 0, err
	}
	return available, ErrInsufficientInventory
}

// RestoreTickets returns quantity tickets to the event, capped at the total.
func (r *eventRepository) RestoreTickets(ctx context.Context, eventID string, quantity int) error {
	const query = `
        UPDATE events SET tickets_available = LEAST(total_tickets, tickets_available + $2), updated_at=NOW()
        WHERE id=$1`
	cmd, err := queryTarget(ctx, r.pool).Exec(ctx, query, eventID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) stringList(ctx context.Context, query string) ([]string, error) {
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}
	return values, rows.Err()
}

func scanEvent(row pgx.Row, event *domain.Event) error {
	return row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.City,
		&event.Venue,
		&event.Address,
		&event.StartsAt,
		&event.DurationMin,
		&event.Price,
		&event.TotalTickets,
		&event.TicketsAvailable,
		&event.ImageURL,
		&event.Active,
		&event.VenueID,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}

func scanEvents(rows pgx.Rows) ([]domain.Event, error) {
	var result []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return 20
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
