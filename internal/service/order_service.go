package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"b2b-catalog/internal/domain"
	"b2b-catalog/internal/notify"
	"b2b-catalog/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart          = errors.New("cannot create an order from an empty cart")
	ErrNoAuthenticated    = errors.New("an authenticated user is required")
	ErrUnknownOrderStatus = errors.New("unknown order status")
	ErrMissingFileRef     = errors.New("a file reference is required")
)

// OrderService defines the order ledger logic: checkout, role-scoped
// reads, and the admin-directed status/evidence mutations.
type OrderService interface {
	Create(ctx context.Context, user *domain.User) (*domain.Order, error)
	ListFor(user *domain.User) []*domain.Order
	Get(user *domain.User, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, adminNotes string) (*domain.Order, error)
	UploadPaymentProof(ctx context.Context, user *domain.User, id, fileName, customerNotes string) (*domain.Order, error)
	UploadContainerPhoto(ctx context.Context, id, fileName string) (*domain.Order, error)
}

type orderService struct {
	orders   *store.OrderStore
	carts    *store.CartStore
	users    *store.UserStore
	notifier notify.Notifier
	logger   *zap.Logger
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	orders *store.OrderStore,
	carts *store.CartStore,
	users *store.UserStore,
	notifier notify.Notifier,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orders:   orders,
		carts:    carts,
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// Create checks out the user's cart: it snapshots the items, computes
// the totals with the user's discount rate at this instant, prepends the
// order to the ledger and clears the cart. The totals are frozen from
// here on, whatever happens to product prices later.
func (s *orderService) Create(ctx context.Context, user *domain.User) (*domain.Order, error) {
	if user == nil {
		return nil, ErrNoAuthenticated
	}

	items := s.carts.Get(ctx, user.ID)
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	totals := domain.ComputeCartTotals(items, user.DiscountRate)
	order := &domain.Order{
		ID:              uuid.New().String(),
		UserID:          user.ID,
		OrderDate:       time.Now(),
		Items:           items,
		Subtotal:        totals.Subtotal,
		DiscountApplied: totals.Discount,
		GrandTotal:      totals.GrandTotal,
		Status:          domain.StatusOrderConfirmed,
	}

	if err := s.orders.Prepend(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to record order: %w", err)
	}
	if err := s.carts.Clear(ctx, user.ID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout",
			zap.String("user_id", user.ID),
			zap.Error(err),
		)
	}

	customerBody := fmt.Sprintf(
		"Your order (#%s) was created and is now in status %q. Please make your payment by bank transfer to the listed accounts.",
		order.ID, order.Status,
	)
	s.notifier.Notify(notify.ChannelEmail, user.Email, fmt.Sprintf("Order received #%s", order.ID), customerBody)
	s.notifier.Notify(notify.ChannelSMS, user.PhoneNumber, "",
		fmt.Sprintf("Your order (#%s) was confirmed. Awaiting payment.", order.ID))

	adminBody := fmt.Sprintf(
		"Customer %s (%s) placed a new order (#%s) for %.2f on %s, now in status %q. Please review it.",
		user.Name, user.Email, order.ID, order.GrandTotal, order.OrderDate.Format(time.RFC1123), order.Status,
	)
	for _, admin := range s.users.Admins() {
		s.notifier.Notify(notify.ChannelEmail, admin.Email, fmt.Sprintf("New order received #%s", order.ID), adminBody)
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", user.ID),
		zap.Float64("grand_total", order.GrandTotal),
	)
	return order, nil
}

// ListFor returns the ledger scoped for the viewer: admins and managers
// see everything, a plain user only their own orders.
func (s *orderService) ListFor(user *domain.User) []*domain.Order {
	all := s.orders.All()
	if user.IsAdmin() {
		return all
	}

	var own []*domain.Order
	for _, o := range all {
		if o.UserID == user.ID {
			own = append(own, o)
		}
	}
	return own
}

// Get returns one order, applying the same read scoping as ListFor. A
// plain user probing someone else's order gets a not-found, not a
// confirmation the order exists.
func (s *orderService) Get(user *domain.User, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(id)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() && order.UserID != user.ID {
		return nil, store.ErrOrderNotFound
	}
	return order, nil
}

// UpdateStatus overwrites the order's status with the given target. Any
// status is reachable from any status: transitions are admin-directed
// and deliberately unvalidated against the nominal sequence. Empty admin
// notes keep the prior notes.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus, adminNotes string) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, ErrUnknownOrderStatus
	}

	existing, err := s.orders.FindByID(id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.Status = status
	if adminNotes != "" {
		updated.AdminNotes = adminNotes
	}

	if err := s.orders.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.notifyStatusChange(&updated)
	s.logger.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("status", string(status)),
	)
	return &updated, nil
}

// UploadPaymentProof attaches the customer's payment evidence and forces
// the status to PAYMENT_PROOF_UPLOADED regardless of the current state.
func (s *orderService) UploadPaymentProof(ctx context.Context, user *domain.User, id, fileName, customerNotes string) (*domain.Order, error) {
	if fileName == "" {
		return nil, ErrMissingFileRef
	}

	existing, err := s.Get(user, id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.PaymentProofURL = "simulated_uploads/payment/" + fileName
	updated.CustomerNotes = customerNotes
	updated.Status = domain.StatusPaymentProofUploaded

	if err := s.orders.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to attach payment proof: %w", err)
	}

	s.notifyStatusChange(&updated)
	adminBody := fmt.Sprintf("The customer uploaded a payment receipt for order #%s. Please review it.", id)
	for _, admin := range s.users.Admins() {
		s.notifier.Notify(notify.ChannelEmail, admin.Email, fmt.Sprintf("Payment receipt uploaded #%s", id), adminBody)
	}

	s.logger.Info("Payment proof uploaded", zap.String("order_id", id))
	return &updated, nil
}

// UploadContainerPhoto attaches shipment evidence. It changes nothing
// else: no status transition, no notification.
func (s *orderService) UploadContainerPhoto(ctx context.Context, id, fileName string) (*domain.Order, error) {
	if fileName == "" {
		return nil, ErrMissingFileRef
	}

	existing, err := s.orders.FindByID(id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.ContainerPhotoURL = "simulated_uploads/containers/" + fileName

	if err := s.orders.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to attach container photo: %w", err)
	}

	s.logger.Info("Container photo uploaded", zap.String("order_id", id))
	return &updated, nil
}

func (s *orderService) notifyStatusChange(order *domain.Order) {
	customer, err := s.users.FindByID(order.UserID)
	if err != nil {
		return
	}

	body := fmt.Sprintf("The status of your order (#%s) was updated to %q.", order.ID, order.Status)
	s.notifier.Notify(notify.ChannelEmail, customer.Email, fmt.Sprintf("Order status update #%s", order.ID), body)
	s.notifier.Notify(notify.ChannelSMS, customer.PhoneNumber, "", body)
}
