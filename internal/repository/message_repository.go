package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/encenape/event-service/internal/domain"
)

// MessageRepository encapsulates support-message persistence.
type MessageRepository interface {
	Create(ctx context.Context, message *domain.Message) error
	Update(ctx context.Context, message *domain.Message) error
	GetByID(ctx context.Context, id string) (*domain.Message, error)
	ListAll(ctx context.Context, limit, offset int) ([]domain.Message, error)
	ListOpen(ctx context.Context) ([]domain.Message, error)
}

type messageRepository struct {
	pool *pgxpool.Pool
}

// NewMessageRepository instantiates repository.
func NewMessageRepository(pool *pgxpool.Pool) MessageRepository {
	return &messageRepository{pool: pool}
}

const messageColumns = `id, sender, text, contact_email, status, response, responded_by_id, created_at, responded_at`

func (r *messageRepository) Create(ctx context.Context, message *domain.Message) error {
	const query = `
        INSERT INTO messages (sender, text, contact_email, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`
	return queryTarget(ctx, r.pool).QueryRow(ctx, query,
		message.Sender,
		message.Text,
		message.ContactEmail,
		message.Status,
	).Scan(&message.ID, &message.CreatedAt)
}

func (r *messageRepository) Update(ctx context.Context, message *domain.Message) error {
	const query = `
        UPDATE messages SET status=$1, response=$2, responded_by_id=$3, responded_at=$4
        WHERE id=$5`
	cmd, err := queryTarget(ctx, r.pool).Exec(ctx, query,
		message.Status,
		message.Response,
		message.RespondedByID,
		message.RespondedAt,
		message.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id string) (*domain.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM messages WHERE id=$1`, messageColumns)
	var message domain.Message
	if err := scanMessage(queryTarget(ctx, r.pool).QueryRow(ctx, query, id), &message); err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) ListAll(ctx context.Context, limit, offset int) ([]domain.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM messages ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		messageColumns, normalizeLimit(limit), normalizeOffset(offset))
	return r.list(ctx, query)
}

func (r *messageRepository) ListOpen(ctx context.Context) ([]domain.Message, error) {
	query := fmt.Sprintf(`SELECT %s FROM messages WHERE status=$1 ORDER BY created_at ASC`, messageColumns)
	return r.list(ctx, query, domain.MessageStatusOpen)
}

func (r *messageRepository) list(ctx context.Context, query string, args ...any) ([]domain.Message, error) {
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Message
	for rows.Next() {
		var message domain.Message
		if err := scanMessage(rows, &message); err != nil {
			return nil, err
		}
		result = append(result, message)
	}
	return result, rows.Err()
}

func scanMessage(row pgx.Row, message *domain.Message) error {
	return row.Scan(
		&message.ID,
		&message.Sender,
		&message.Text,
		&message.ContactEmail,
		&message.Status,
		&message.Response,
		&message.RespondedByID,
		&message.CreatedAt,
		&message.RespondedAt,
	)
}
