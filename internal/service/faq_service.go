package service

import (
	"context"
	"strings"

	"github.com/encenape/event-service/internal/domain"
	"github.com/encenape/event-service/internal/repository"
	apperrors "github.com/encenape/event-service/pkg/util/errorutil"
)

// FAQService serves the published FAQ catalog.
type FAQService struct {
	repo repository.FAQRepository
}

// NewFAQService constructs the service.
func NewFAQService(repo repository.FAQRepository) *FAQService {
	return &FAQService{repo: repo}
}

// List returns active entries in display order, optionally paginated.
func (s *FAQService) List(ctx context.Context, limit, offset int) ([]domain.FAQ, error) {
	var (
		list []domain.FAQ
		err  error
	)
	if limit > 0 {
		list, err = s.repo.ListActivePaginated(ctx, limit, offset)
	} else {
		list, err = s.repo.ListActive(ctx)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListByCategory returns active entries for a single category.
func (s *FAQService) ListByCategory(ctx context.Context, category string) ([]domain.FAQ, error) {
	list, err := s.repo.ListByCategory(ctx, category)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Search matches the query against questions, answers and tags. A blank
// query falls back to the plain listing.
func (s *FAQService) Search(ctx context.Context, query string, limit, offset int) ([]domain.FAQ, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return s.List(ctx, limit, offset)
	}
	var (
		list []domain.FAQ
		err  error
	)
	if limit > 0 {
		list, err = s.repo.SearchPaginated(ctx, query, limit, offset)
	} else {
		list, err = s.repo.Search(ctx, query)
	}
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Categories returns the distinct categories among active entries.
func (s *FAQService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.repo.DistinctCategories(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return categories, nil
}
