package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	apperrors "github.com/Abobakr505/Skandr-Shop/pkg/errors"

	"github.com/Abobakr505/Skandr-Shop/internal/catalog/domain"
	"github.com/Abobakr505/Skandr-Shop/internal/catalog/repository"
)

const (
	// DefaultRelatedLimit is the number of related products returned when
	// the caller does not specify a limit.
	DefaultRelatedLimit = 3
	// MaxRelatedLimit caps the related products list size.
	MaxRelatedLimit = 12
)

// CatalogService serves the product catalog from an in-memory snapshot that
// is refreshed from the repository when it grows older than cacheTTL. The
// storefront menu is small and read-heavy, so a full snapshot beats per-query
// round trips.
type CatalogService struct {
	repo     repository.ProductRepository
	logger   *slog.Logger
	cacheTTL time.Duration

	mu        sync.RWMutex
	snapshot  []domain.Product
	fetchedAt time.Time
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(repo repository.ProductRepository, logger *slog.Logger, cacheTTL time.Duration) *CatalogService {
	return &CatalogService{
		repo:     repo,
		logger:   logger,
		cacheTTL: cacheTTL,
	}
}

// ListProducts returns the catalog, optionally filtered by a case-insensitive
// substring match on the product name. Ordering (featured first, newest
// first) comes from the repository and is preserved through filtering.
func (s *CatalogService) ListProducts(ctx context.Context, query string) ([]domain.Product, error) {
	products, err := s.products(ctx)
	if err != nil {
		return nil, err
	}

	if query == "" {
		return products, nil
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	filtered := make([]domain.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			filtered = append(filtered, p)
		}
	}

	return filtered, nil
}

// GetProduct retrieves a single product by ID, bypassing the snapshot so a
// product page always reflects current data.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}

	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get product by id: %w", err)
	}

	return product, nil
}

// RelatedProducts returns up to limit other products to show alongside the
// given one. Limit defaults to DefaultRelatedLimit and is capped.
func (s *CatalogService) RelatedProducts(ctx context.Context, id string, limit int) ([]domain.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("product id is required")
	}
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	if limit > MaxRelatedLimit {
		limit = MaxRelatedLimit
	}

	products, err := s.repo.ListRelated(ctx, id, limit)
	if err != nil {
		return nil, fmt.Errorf("list related products: %w", err)
	}

	return products, nil
}

// ListCategories returns all catalog categories.
func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

// products returns a copy of the snapshot, refreshing it when stale. A
// refresh failure with a warm snapshot serves the stale data and logs; with
// a cold cache it propagates.
func (s *CatalogService) products(ctx context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	fresh := !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.cacheTTL
	if fresh {
		snapshot := s.copySnapshotLocked()
		s.mu.RUnlock()
		return snapshot, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	if !s.fetchedAt.IsZero() && time.Since(s.fetchedAt) < s.cacheTTL {
		return s.copySnapshotLocked(), nil
	}

	rows, err := s.repo.List(ctx)
	if err != nil {
		if s.fetchedAt.IsZero() {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		s.logger.WarnContext(ctx, "catalog refresh failed, serving stale snapshot",
			slog.Time("fetched_at", s.fetchedAt),
			slog.String("error", err.Error()),
		)
		return s.copySnapshotLocked(), nil
	}

	valid := make([]domain.Product, 0, len(rows))
	for _, p := range rows {
		if err := p.Validate(); err != nil {
			s.logger.WarnContext(ctx, "dropping malformed catalog row",
				slog.String("product_id", p.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		valid = append(valid, p)
	}

	s.snapshot = valid
	s.fetchedAt = time.Now().UTC()

	return s.copySnapshotLocked(), nil
}

func (s *CatalogService) copySnapshotLocked() []domain.Product {
	out := make([]domain.Product, len(s.snapshot))
	copy(out, s.snapshot)
	return out
}
