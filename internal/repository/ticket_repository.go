package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/encenape/event-service/internal/domain"
)

// ErrTicketNotActive signals a conditional cancel that found the ticket
// already out of the ACTIVE status.
var ErrTicketNotActive = errors.New("ticket is not active")

// TicketRepository encapsulates purchased-ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	Cancel(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
	ListByUserPaginated(ctx context.Context, userID string, limit, offset int) ([]domain.Ticket, error)
	ListActiveByUser(ctx context.Context, userID string) ([]domain.Ticket, error)
	SetQRCode(ctx context.Context, id, qrCodeURL string) error
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

const ticketColumns = `id, user_id, event_id, quantity, code, qr_code_url, status, total_value,
               payment_method, cancel_reason, created_at, canceled_at`

func (r *ticketRepository) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return WithTx(ctx, r.pool, fn)
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, event_id, quantity, code, qr_code_url, status, total_value, payment_method)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return queryTarget(ctx, r.pool).QueryRow(ctx, query,
		ticket.UserID,
		ticket.EventID,
		ticket.Quantity,
		ticket.Code,
		ticket.QRCodeURL,
		ticket.Status,
		ticket.TotalValue,
		ticket.PaymentMethod,
	).Scan(&ticket.ID, &ticket.CreatedAt)
}

// Cancel flips the ticket to CANCELED only while it is still ACTIVE, so two
// concurrent cancels can never both commit. Returns ErrTicketNotActive when
// the conditional update matched nothing but the row exists.
func (r *ticketRepository) Cancel(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        UPDATE tickets SET status=$1, cancel_reason=$2, canceled_at=$3
        WHERE id=$4 AND status=$5`
	cmd, err := queryTarget(ctx, r.pool).Exec(ctx, query,
		ticket.Status,
		ticket.CancelReason,
		ticket.CanceledAt,
		ticket.ID,
		domain.TicketStatusActive,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}

	var status domain.TicketStatus
	if err := queryTarget(ctx, r.pool).QueryRow(ctx,
		`SELECT status FROM tickets WHERE id=$1`, ticket.ID).Scan(&status); err != nil {
		return err
	}
	return ErrTicketNotActive
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE id=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE code=$1`, ticketColumns)
	return r.fetchSingle(ctx, query, code)
}

func (r *ticketRepository) ListByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE user_id=$1 ORDER BY created_at DESC`, ticketColumns)
	return r.list(ctx, query, userID)
}

func (r *ticketRepository) ListByUserPaginated(ctx context.Context, userID string, limit, offset int) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE user_id=$1 ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		ticketColumns, normalizeLimit(limit), normalizeOffset(offset))
	return r.list(ctx, query, userID)
}

func (r *ticketRepository) ListActiveByUser(ctx context.Context, userID string) ([]domain.Ticket, error) {
	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE user_id=$1 AND status=$2 ORDER BY created_at DESC`, ticketColumns)
	return r.list(ctx, query, userID, domain.TicketStatusActive)
}

func (r *ticketRepository) SetQRCode(ctx context.Context, id, qrCodeURL string) error {
	_, err := queryTarget(ctx, r.pool).Exec(ctx,
		`UPDATE tickets SET qr_code_url=$1 WHERE id=$2`, qrCodeURL, id)
	return err
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(queryTarget(ctx, r.pool).QueryRow(ctx, query, arg), &ticket); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) list(ctx context.Context, query string, args ...any) ([]domain.Ticket, error) {
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Ticket
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.EventID,
		&ticket.Quantity,
		&ticket.Code,
		&ticket.QRCodeURL,
		&ticket.Status,
		&ticket.TotalValue,
		&ticket.PaymentMethod,
		&ticket.CancelReason,
		&ticket.CreatedAt,
		&ticket.CanceledAt,
	)
}
