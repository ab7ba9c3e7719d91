package store

import (
	"context"
	"sync"

	"b2b-catalog/internal/domain"

	"go.uber.org/zap"
)

const ordersSnapshot = "orders"

// OrderStore holds the order ledger, newest first. Orders are appended
// by checkout and mutated only through status and evidence updates;
// they are never deleted.
//
// Order dates travel through the snapshot as RFC 3339 text and are
// reparsed into time.Time on load by the JSON codec.
type OrderStore struct {
	mu        sync.RWMutex
	snapshots *Snapshots
	logger    *zap.Logger
	orders    []*domain.Order
}

// NewOrderStore loads the order snapshot, starting from an empty ledger
// when the snapshot is missing or unreadable.
func NewOrderStore(ctx context.Context, snapshots *Snapshots, logger *zap.Logger) *OrderStore {
	s := &OrderStore{
		snapshots: snapshots,
		logger:    logger,
	}

	var loaded []*domain.Order
	if snapshots.Load(ctx, ordersSnapshot, &loaded) {
		s.orders = loaded
	}

	logger.Info("Order store initialized", zap.Int("count", len(s.orders)))
	return s
}

func (s *OrderStore) save(ctx context.Context) error {
	return s.snapshots.Save(ctx, ordersSnapshot, s.orders)
}

// All returns the full ledger, newest first. Read scoping by role is the
// caller's responsibility.
func (s *OrderStore) All() []*domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// FindByID returns the order with the given id.
func (s *OrderStore) FindByID(id string) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, o := range s.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, ErrOrderNotFound
}

// Prepend adds a freshly created order to the head of the ledger.
func (s *OrderStore) Prepend(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.orders = append([]*domain.Order{order}, s.orders...)
	return s.save(ctx)
}

// Update replaces the stored order with the same id.
func (s *OrderStore) Update(ctx context.Context, order *domain.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, o := range s.orders {
		if o.ID == order.ID {
			s.orders[i] = order
			return s.save(ctx)
		}
	}
	return ErrOrderNotFound
}
