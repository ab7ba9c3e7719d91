package service

import (
	"context"
	"strings"
	"testing"

	"b2b-catalog/internal/domain"
	"b2b-catalog/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newOrderService(f *fixture) OrderService {
	return NewOrderService(f.orders, f.carts, f.users, f.notifier, zap.NewNop())
}

func checkoutCart(t *testing.T, f *fixture, buyer *domain.User) *domain.Order {
	t.Helper()

	order, err := newOrderService(f).Create(context.Background(), buyer)
	require.NoError(t, err)
	return order
}

func TestOrderCreateRequiresUserAndItems(t *testing.T) {
	f := newFixture(t)
	service := newOrderService(f)
	ctx := context.Background()

	_, err := service.Create(ctx, nil)
	assert.ErrorIs(t, err, ErrNoAuthenticated)

	buyer := f.addUser(t, activeBuyer("buyer-empty", 0))
	_, err = service.Create(ctx, buyer)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, f.orders.All(), "a failed checkout must not touch the ledger")
}

func TestOrderCreateFreezesTotalsAndClearsCart(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addProduct(t, "prod-order", 50, 10)
	buyer := f.addUser(t, activeBuyer("buyer-order", 0.1))

	carts := newCartService(f)
	_, _, err := carts.Add(ctx, buyer, "prod-order", 2)
	require.NoError(t, err)

	order := checkoutCart(t, f, buyer)

	assert.InDelta(t, 100.0, order.Subtotal, 1e-9)
	assert.InDelta(t, 10.0, order.DiscountApplied, 1e-9)
	assert.InDelta(t, 90.0, order.GrandTotal, 1e-9)
	assert.Equal(t, domain.StatusOrderConfirmed, order.Status)

	assert.Empty(t, carts.Get(ctx, buyer).Items, "checkout empties the cart")

	// A later price change must not reach the recorded totals.
	p, err := f.products.FindByID("prod-order")
	require.NoError(t, err)
	changed := *p
	changed.Price = 999
	require.NoError(t, f.products.Update(ctx, &changed))

	recorded, err := f.orders.FindByID(order.ID)
	require.NoError(t, err)
	assert.InDelta(t, 90.0, recorded.GrandTotal, 1e-9)
}

func TestOrderCreateNotifiesCustomerAndAdmins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.addProduct(t, "prod-notify", 20, 10)
	buyer := f.addUser(t, activeBuyer("buyer-notify", 0))

	_, _, err := newCartService(f).Add(ctx, buyer, "prod-notify", 1)
	require.NoError(t, err)

	checkoutCart(t, f, buyer)

	assert.Len(t, f.notifier.sentTo(buyer.Email), 1)
	assert.Len(t, f.notifier.sentTo(buyer.PhoneNumber), 1)
	assert.Len(t, f.notifier.sentTo("admin@example.com"), 1)
	assert.Len(t, f.notifier.sentTo("manager@example.com"), 1)
}

func TestOrderListScopedByRole(t *testing.T) {
	f := newFixture(t)
	service := newOrderService(f)
	ctx := context.Background()

	f.addProduct(t, "prod-scope", 10, 100)
	alice := f.addUser(t, activeBuyer("alice", 0))
	bob := f.addUser(t, activeBuyer("bob", 0))

	carts := newCartService(f)
	_, _, err := carts.Add(ctx, alice, "prod-scope", 1)
	require.NoError(t, err)
	aliceOrder := checkoutCart(t, f, alice)

	_, _, err = carts.Add(ctx, bob, "prod-scope", 2)
	require.NoError(t, err)
	checkoutCart(t, f, bob)

	admin, err := f.users.FindByID("superadmin-001")
	require.NoError(t, err)

	assert.Len(t, service.ListFor(admin), 2)

	own := service.ListFor(alice)
	require.Len(t, own, 1)
	assert.Equal(t, aliceOrder.ID, own[0].ID)

	t.Run("cross-user read looks like not found", func(t *testing.T) {
		_, err := service.Get(bob, aliceOrder.ID)
		assert.ErrorIs(t, err, store.ErrOrderNotFound)
	})

	t.Run("owner and admin can read", func(t *testing.T) {
		_, err := service.Get(alice, aliceOrder.ID)
		assert.NoError(t, err)
		_, err = service.Get(admin, aliceOrder.ID)
		assert.NoError(t, err)
	})
}

func TestOrderUpdateStatusAllowsAnyTransition(t *testing.T) {
	f := newFixture(t)
	service := newOrderService(f)
	ctx := context.Background()

	f.addProduct(t, "prod-status", 10, 10)
	buyer := f.addUser(t, activeBuyer("buyer-status", 0))
	_, _, err := newCartService(f).Add(ctx, buyer, "prod-status", 1)
	require.NoError(t, err)
	order := checkoutCart(t, f, buyer)

	updated, err := service.UpdateStatus(ctx, order.ID, domain.StatusDelivered, "shipped direct")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDelivered, updated.Status)

	// Backwards is fine too; transitions are admin-directed.
	updated, err = service.UpdateStatus(ctx, order.ID, domain.StatusOrderConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOrderConfirmed, updated.Status)
	assert.Equal(t, "shipped direct", updated.AdminNotes, "empty notes keep the prior notes")

	_, err = service.UpdateStatus(ctx, order.ID, domain.OrderStatus("TELEPORTED"), "")
	assert.ErrorIs(t, err, ErrUnknownOrderStatus)
}

func TestOrderUploadPaymentProofForcesStatus(t *testing.T) {
	f := newFixture(t)
	service := newOrderService(f)
	ctx := context.Background()

	f.addProduct(t, "prod-proof", 10, 10)
	buyer := f.addUser(t, activeBuyer("buyer-proof", 0))
	_, _, err := newCartService(f).Add(ctx, buyer, "prod-proof", 1)
	require.NoError(t, err)
	order := checkoutCart(t, f, buyer)

	_, err = service.UpdateStatus(ctx, order.ID, domain.StatusProcessing, "")
	require.NoError(t, err)

	updated, err := service.UploadPaymentProof(ctx, buyer, order.ID, "receipt.pdf", "paid friday")
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPaymentProofUploaded, updated.Status)
	assert.True(t, strings.HasPrefix(updated.PaymentProofURL, "simulated_uploads/payment/"))
	assert.Equal(t, "paid friday", updated.CustomerNotes)

	_, err = service.UploadPaymentProof(ctx, buyer, order.ID, "", "")
	assert.ErrorIs(t, err, ErrMissingFileRef)
}

func TestOrderUploadContainerPhotoOnlyAttachesEvidence(t *testing.T) {
	f := newFixture(t)
	service := newOrderService(f)
	ctx := context.Background()

	f.addProduct(t, "prod-photo", 10, 10)
	buyer := f.addUser(t, activeBuyer("buyer-photo", 0))
	_, _, err := newCartService(f).Add(ctx, buyer, "prod-photo", 1)
	require.NoError(t, err)
	order := checkoutCart(t, f, buyer)

	before := f.notifier.count()

	updated, err := service.UploadContainerPhoto(ctx, order.ID, "container.jpg")
	require.NoError(t, err)

	assert.Equal(t, order.Status, updated.Status, "no status transition")
	assert.True(t, strings.HasPrefix(updated.ContainerPhotoURL, "simulated_uploads/containers/"))
	assert.Equal(t, before, f.notifier.count(), "no notification for shipment evidence")
}
