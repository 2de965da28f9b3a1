package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/encenape/event-service/internal/domain"
)

// FAQRepository encapsulates FAQ persistence.
type FAQRepository interface {
	ListActive(ctx context.Context) ([]domain.FAQ, error)
	ListActivePaginated(ctx context.Context, limit, offset int) ([]domain.FAQ, error)
	ListByCategory(ctx context.Context, category string) ([]domain.FAQ, error)
	Search(ctx context.Context, query string) ([]domain.FAQ, error)
	SearchPaginated(ctx context.Context, query string, limit, offset int) ([]domain.FAQ, error)
	DistinctCategories(ctx context.Context) ([]string, error)
}

type faqRepository struct {
	pool *pgxpool.Pool
}

// NewFAQRepository instantiates repository.
func NewFAQRepository(pool *pgxpool.Pool) FAQRepository {
	return &faqRepository{pool: pool}
}

const faqColumns = `id, question, answer, tags, category, position, active, created_at, updated_at`

func (r *faqRepository) ListActive(ctx context.Context) ([]domain.FAQ, error) {
	query := fmt.Sprintf(`SELECT %s FROM faqs WHERE active ORDER BY position ASC`, faqColumns)
	return r.list(ctx, query)
}

func (r *faqRepository) ListActivePaginated(ctx context.Context, limit, offset int) ([]domain.FAQ, error) {
	query := fmt.Sprintf(`SELECT %s FROM faqs WHERE active ORDER BY position ASC LIMIT %d OFFSET %d`,
		faqColumns, normalizeLimit(limit), normalizeOffset(offset))
	return r.list(ctx, query)
}

func (r *faqRepository) ListByCategory(ctx context.Context, category string) ([]domain.FAQ, error) {
	query := fmt.Sprintf(`SELECT %s FROM faqs WHERE active AND category=$1 ORDER BY position ASC`, faqColumns)
	return r.list(ctx, query, category)
}

func (r *faqRepository) Search(ctx context.Context, search string) ([]domain.FAQ, error) {
	query := fmt.Sprintf(`SELECT %s FROM faqs
             WHERE active AND (LOWER(question) LIKE $1 OR LOWER(answer) LIKE $1 OR LOWER(tags) LIKE $1)
             ORDER BY position ASC`, faqColumns)
	return r.list(ctx, query, searchPattern(search))
}

func (r *faqRepository) SearchPaginated(ctx context.Context, search string, limit, offset int) ([]domain.FAQ, error) {
	query := fmt.Sprintf(`SELECT %s FROM faqs
             WHERE active AND (LOWER(question) LIKE $1 OR LOWER(answer) LIKE $1 OR LOWER(tags) LIKE $1)
             ORDER BY position ASC LIMIT %d OFFSET %d`,
		faqColumns, normalizeLimit(limit), normalizeOffset(offset))
	return r.list(ctx, query, searchPattern(search))
}

func (r *faqRepository) DistinctCategories(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT category FROM faqs WHERE active AND category <> '' ORDER BY category`
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *faqRepository) list(ctx context.Context, query string, args ...any) ([]domain.FAQ, error) {
	rows, err := queryTarget(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.FAQ
	for rows.Next() {
		var faq domain.FAQ
		if err := scanFAQ(rows, &faq); err != nil {
			return nil, err
		}
		result = append(result, faq)
	}
	return result, rows.Err()
}

func scanFAQ(row pgx.Row, faq *domain.FAQ) error {
	return row.Scan(
		&faq.ID,
		&faq.Question,
		&faq.Answer,
		&faq.Tags,
		&faq.Category,
		&faq.Position,
		&faq.Active,
		&faq.CreatedAt,
		&faq.UpdatedAt,
	)
}

func searchPattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
