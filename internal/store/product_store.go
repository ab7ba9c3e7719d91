package store

import (
	"context"
	"sync"

	"b2b-catalog/internal/domain"

	"go.uber.org/zap"
)

const productsSnapshot = "products"

// ProductStore holds the product list, including trashed entries, and
// persists the whole collection after every mutation. Mutations are
// serialized behind a mutex; services hold the only reference.
type ProductStore struct {
	mu        sync.RWMutex
	snapshots *Snapshots
	logger    *zap.Logger
	products  []*domain.Product
}

// NewProductStore loads the product snapshot, falling back to the sample
// catalog when the snapshot is missing or unreadable.
func NewProductStore(ctx context.Context, snapshots *Snapshots, logger *zap.Logger) *ProductStore {
	s := &ProductStore{
		snapshots: snapshots,
		logger:    logger,
	}

	var loaded []*domain.Product
	if snapshots.Load(ctx, productsSnapshot, &loaded) {
		s.products = loaded
	} else {
		s.products = SampleProducts()
		if err := s.save(ctx); err != nil {
			logger.Warn("Failed to persist seeded products", zap.Error(err))
		}
	}

	logger.Info("Product store initialized", zap.Int("count", len(s.products)))
	return s
}

// save must be called with the mutex held (or from the constructor).
func (s *ProductStore) save(ctx context.Context) error {
	return s.snapshots.Save(ctx, productsSnapshot, s.products)
}

// All returns every product, trashed or not, in stored order.
func (s *ProductStore) All() []*domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// FindByID returns the product with the given id, trashed or not.
func (s *ProductStore) FindByID(id string) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, ErrProductNotFound
}

// Insert prepends a new product to the catalog.
func (s *ProductStore) Insert(ctx context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = append([]*domain.Product{product}, s.products...)
	return s.save(ctx)
}

// Update replaces the stored product with the same id.
func (s *ProductStore) Update(ctx context.Context, product *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == product.ID {
			s.products[i] = product
			return s.save(ctx)
		}
	}
	return ErrProductNotFound
}

// SetTrashed moves a product into or out of the trash.
func (s *ProductStore) SetTrashed(ctx context.Context, id string, trashed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			cp := *p
			cp.IsTrashed = trashed
			s.products[i] = &cp
			return s.save(ctx)
		}
	}
	return ErrProductNotFound
}

// Delete permanently removes a product. Only trash-view callers should
// reach this; soft deletion goes through SetTrashed.
func (s *ProductStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, p := range s.products {
		if p.ID == id {
			s.products = append(s.products[:i], s.products[i+1:]...)
			return s.save(ctx)
		}
	}
	return ErrProductNotFound
}

// EmptyTrash permanently removes every trashed product at once and
// returns how many were removed.
func (s *ProductStore) EmptyTrash(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.products[:0]
	removed := 0
	for _, p := range s.products {
		if p.IsTrashed {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	s.products = kept

	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(ctx)
}

// Upsert merges a batch of imported products into the catalog. A product
// matching an existing entry by id or name replaces it; the rest are
// prepended as new entries. Returns (created, updated) counts.
func (s *ProductStore) Upsert(ctx context.Context, batch []*domain.Product) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	created, updated := 0, 0
	for _, incoming := range batch {
		matched := false
		for i, existing := range s.products {
			if existing.ID == incoming.ID || existing.Name == incoming.Name {
				incoming.ID = existing.ID
				s.products[i] = incoming
				updated++
				matched = true
				break
			}
		}
		if !matched {
			s.products = append([]*domain.Product{incoming}, s.products...)
			created++
		}
	}

	return created, updated, s.save(ctx)
}
