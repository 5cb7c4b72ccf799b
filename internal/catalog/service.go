package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/icevibe/pos-terminal/internal/order"
	"github.com/icevibe/pos-terminal/pkg/backend"
	pkgerrors "github.com/icevibe/pos-terminal/pkg/errors"
	"github.com/icevibe/pos-terminal/pkg/logger"
	"github.com/icevibe/pos-terminal/pkg/metrics"
)

// CategoryAll is the pseudo-category that matches every product.
const CategoryAll = "TODAS"

// Source is the slice of the backend client the catalog needs.
type Source interface {
	ActiveProducts(ctx context.Context) ([]backend.Product, error)
}

// Service keeps an in-memory copy of the sellable catalog and refreshes
// it on a fixed interval. A refresh replaces the whole snapshot; there is
// no per-product patching. A failed refresh keeps the last good snapshot.
type Service struct {
	source   Source
	interval time.Duration
	logger   *logger.Logger
	metrics  *metrics.POSMetrics

	mu          sync.RWMutex
	products    []backend.Product
	refreshedAt time.Time
}

func NewService(source Source, interval time.Duration, logg *logger.Logger, m *metrics.POSMetrics) *Service {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Service{
		source:   source,
		interval: interval,
		logger:   logg,
		metrics:  m,
	}
}

// Refresh fetches the active products and swaps the snapshot.
func (s *Service) Refresh(ctx context.Context) error {
	products, err := s.source.ActiveProducts(ctx)
	if err != nil {
		s.metrics.IncRefresh("failure")
		if s.logger != nil {
			s.logger.Warn(ctx, "catalog refresh failed: "+err.Error())
		}
		return err
	}

	s.mu.Lock()
	s.products = products
	s.refreshedAt = time.Now()
	s.mu.Unlock()

	s.metrics.IncRefresh("success")
	s.metrics.SetCatalogSize(len(products))
	return nil
}

// Run refreshes immediately, then on every tick until the context ends.
func (s *Service) Run(ctx context.Context) {
	_ = s.Refresh(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}

// Snapshot returns a copy of the cached products.
func (s *Service) Snapshot() []backend.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]backend.Product, len(s.products))
	copy(out, s.products)
	return out
}

// RefreshedAt reports when the snapshot was last replaced.
func (s *Service) RefreshedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshedAt
}

// ByID resolves a product from the cache.
func (s *Service) ByID(productID int64) (order.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == productID {
			return order.Product{
				ID:    p.ID,
				Name:  p.Name,
				Price: p.Price,
				Stock: p.Stock,
			}, nil
		}
	}
	return order.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not in catalog")
}

// Categories lists the distinct categories present, sorted, with the
// all-products pseudo-category first.
func (s *Service) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, p := range s.products {
		if c := strings.TrimSpace(p.Category); c != "" {
			seen[c] = struct{}{}
		}
	}

	out := make([]string, 0, len(seen)+1)
	for c := range seen {
		out = append(out, c)
	}
	sort.Strings(out)
	return append([]string{CategoryAll}, out...)
}

// FilterByCategory returns the snapshot filtered to one category.
func (s *Service) FilterByCategory(category string) []backend.Product {
	category = strings.TrimSpace(category)
	if category == "" || strings.EqualFold(category, CategoryAll) {
		return s.Snapshot()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []backend.Product
	for _, p := range s.products {
		if strings.EqualFold(p.Category, category) {
			out = append(out, p)
		}
	}
	return out
}
