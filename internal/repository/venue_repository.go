package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/encenape/event-service/internal/domain"
)

// VenueRepository encapsulates venue persistence.
type VenueRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Venue, error)
	ListAvailable(ctx context.Context) ([]domain.Venue, error)
}

type venueRepository struct {
	pool *pgxpool.Pool
}

// NewVenueRepository instantiates repository.
func NewVenueRepository(pool *pgxpool.Pool) VenueRepository {
	return &venueRepository{pool: pool}
}

const venueColumns = `id, name, description, address, city, capacity, available, created_at, updated_at`

func (r *venueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM venues WHERE id=$1`, venueColumns)
	return scanVenue(queryTarget(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *venueRepository) ListAvailable(ctx context.Context) ([]domain.Venue, error) {
	query := fmt.Sprintf(`SELECT %s FROM venues WHERE available ORDER BY name ASC`, venueColumns)
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var venues []domain.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, *venue)
	}
	return venues, rows.Err()
}

func scanVenue(row pgx.Row) (*domain.Venue, error) {
	var venue domain.Venue
	err := row.Scan(
		&venue.ID,
		&venue.Name,
		&venue.Description,
		&venue.Address,
		&venue.City,
		&venue.Capacity,
		&venue.Available,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &venue, nil
}
