package service

import (
	"context"
	"errors"
	"fmt"

	"b2b-catalog/internal/domain"
	"b2b-catalog/internal/store"

	"go.uber.org/zap"
)

// ErrInvalidQuantity rejects a cart add with a non-positive quantity or
// one exceeding the product's current stock.
var ErrInvalidQuantity = errors.New("invalid quantity or insufficient stock")

// CartView is the derived read model of a cart. Totals are recomputed
// from the items and the owner's discount rate on every read.
type CartView struct {
	Items  []domain.CartItem `json:"items"`
	Totals domain.CartTotals `json:"totals"`
}

// CartService defines the per-session cart logic. Quantities are bounded
// by the product's stock at mutation time; later stock drift is not
// re-validated.
type CartService interface {
	Get(ctx context.Context, user *domain.User) *CartView
	Add(ctx context.Context, user *domain.User, productID string, quantity int) (*CartView, bool, error)
	UpdateQuantity(ctx context.Context, user *domain.User, productID string, quantity int) (*CartView, bool, error)
	Remove(ctx context.Context, user *domain.User, productID string) (*CartView, error)
	Clear(ctx context.Context, user *domain.User) error
}

type cartService struct {
	carts    *store.CartStore
	products *store.ProductStore
	logger   *zap.Logger
}

// NewCartService creates a new instance of CartService.
func NewCartService(carts *store.CartStore, products *store.ProductStore, logger *zap.Logger) CartService {
	return &cartService{carts: carts, products: products, logger: logger}
}

// Get returns the cart with its derived totals.
func (s *cartService) Get(ctx context.Context, user *domain.User) *CartView {
	return s.view(s.carts.Get(ctx, user.ID), user)
}

// Add puts quantity units of a product into the cart. An invalid
// quantity leaves the cart untouched; adding to an existing entry clamps
// the sum to the product's stock instead of erroring. The bool reports
// whether clamping occurred.
func (s *cartService) Add(ctx context.Context, user *domain.User, productID string, quantity int) (*CartView, bool, error) {
	product, err := s.products.FindByID(productID)
	if err != nil {
		return nil, false, err
	}
	if product.IsTrashed {
		return nil, false, store.ErrProductNotFound
	}
	if quantity <= 0 || quantity > product.Stock {
		return nil, false, ErrInvalidQuantity
	}

	items := s.carts.Get(ctx, user.ID)
	clamped := false
	found := false
	for i := range items {
		if items[i].Product.ID == productID {
			next := items[i].Quantity + quantity
			if next > product.Stock {
				next = product.Stock
				clamped = true
			}
			items[i].Quantity = next
			found = true
			break
		}
	}
	if !found {
		items = append(items, domain.CartItem{Product: *product, Quantity: quantity})
	}

	if err := s.carts.Put(ctx, user.ID, items); err != nil {
		return nil, false, fmt.Errorf("failed to save cart: %w", err)
	}

	s.logger.Debug("Cart item added",
		zap.String("user_id", user.ID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
		zap.Bool("clamped", clamped),
	)
	return s.view(items, user), clamped, nil
}

// UpdateQuantity sets an entry's quantity exactly. Zero or negative
// removes the entry; a value above stock clamps to stock and reports the
// clamp.
func (s *cartService) UpdateQuantity(ctx context.Context, user *domain.User, productID string, quantity int) (*CartView, bool, error) {
	items := s.carts.Get(ctx, user.ID)

	index := -1
	for i := range items {
		if items[i].Product.ID == productID {
			index = i
			break
		}
	}
	if index < 0 {
		return s.view(items, user), false, nil
	}

	clamped := false
	if quantity <= 0 {
		items = append(items[:index], items[index+1:]...)
	} else {
		stock := items[index].Product.Stock
		if current, err := s.products.FindByID(productID); err == nil {
			stock = current.Stock
		}
		if quantity > stock {
			quantity = stock
			clamped = true
		}
		items[index].Quantity = quantity
	}

	if err := s.carts.Put(ctx, user.ID, items); err != nil {
		return nil, false, fmt.Errorf("failed to save cart: %w", err)
	}
	return s.view(items, user), clamped, nil
}

// Remove drops an entry if present; removing a missing entry is a no-op.
func (s *cartService) Remove(ctx context.Context, user *domain.User, productID string) (*CartView, error) {
	items := s.carts.Get(ctx, user.ID)

	kept := items[:0]
	for _, item := range items {
		if item.Product.ID != productID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(items) {
		return s.view(items, user), nil
	}

	if err := s.carts.Put(ctx, user.ID, kept); err != nil {
		return nil, fmt.Errorf("failed to save cart: %w", err)
	}
	return s.view(kept, user), nil
}

// Clear empties the cart unconditionally.
func (s *cartService) Clear(ctx context.Context, user *domain.User) error {
	if err := s.carts.Clear(ctx, user.ID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

func (s *cartService) view(items []domain.CartItem, user *domain.User) *CartView {
	if items == nil {
		items = []domain.CartItem{}
	}
	return &CartView{
		Items:  items,
		Totals: domain.ComputeCartTotals(items, user.DiscountRate),
	}
}
