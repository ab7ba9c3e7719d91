package store

import (
	"context"
	"sync"

	"b2b-catalog/internal/domain"

	"go.uber.org/zap"
)

const cartSnapshotPrefix = "cart:"

// CartStore holds each session's cart, one snapshot per user. A cart is
// loaded once when its owner first touches it and rewritten wholesale on
// every mutation; logout drops both the snapshot and the cached copy.
type CartStore struct {
	mu        sync.Mutex
	snapshots *Snapshots
	logger    *zap.Logger
	carts     map[string][]domain.CartItem
}

// NewCartStore creates the cart store. Carts load lazily per user, so
// there is nothing to read up front.
func NewCartStore(snapshots *Snapshots, logger *zap.Logger) *CartStore {
	return &CartStore{
		snapshots: snapshots,
		logger:    logger,
		carts:     make(map[string][]domain.CartItem),
	}
}

// load must be called with the mutex held.
func (s *CartStore) load(ctx context.Context, userID string) []domain.CartItem {
	if items, ok := s.carts[userID]; ok {
		return items
	}

	var items []domain.CartItem
	if !s.snapshots.Load(ctx, cartSnapshotPrefix+userID, &items) {
		items = nil
	}
	s.carts[userID] = items
	return items
}

// Get returns a copy of the user's cart items.
func (s *CartStore) Get(ctx context.Context, userID string) []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.load(ctx, userID)
	out := make([]domain.CartItem, len(items))
	copy(out, items)
	return out
}

// Put replaces the user's cart and persists it.
func (s *CartStore) Put(ctx context.Context, userID string, items []domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.carts[userID] = items
	return s.snapshots.Save(ctx, cartSnapshotPrefix+userID, items)
}

// Clear empties the user's cart and removes its snapshot.
func (s *CartStore) Clear(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, userID)
	return s.snapshots.Delete(ctx, cartSnapshotPrefix+userID)
}
