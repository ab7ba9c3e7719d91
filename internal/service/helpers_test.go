package service

import (
	"context"
	"sync"
	"testing"

	"b2b-catalog/internal/domain"
	"b2b-catalog/internal/notify"
	"b2b-catalog/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// recordingNotifier captures notifications instead of delivering them.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
}

type sentNotification struct {
	Channel   notify.Channel
	Recipient string
	Subject   string
	Body      string
}

func (n *recordingNotifier) Notify(channel notify.Channel, recipient, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentNotification{Channel: channel, Recipient: recipient, Subject: subject, Body: body})
}

func (n *recordingNotifier) sentTo(recipient string) []sentNotification {
	n.mu.Lock()
	defer n.mu.Unlock()

	var out []sentNotification
	for _, s := range n.sent {
		if s.Recipient == recipient {
			out = append(out, s)
		}
	}
	return out
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.sent)
}

// fixture wires real stores against an in-process redis so service
// tests exercise the same persistence path production does.
type fixture struct {
	products *store.ProductStore
	users    *store.UserStore
	orders   *store.OrderStore
	carts    *store.CartStore
	notifier *recordingNotifier
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err, "failed to start miniredis")
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	snapshots := store.NewSnapshots(rdb, "test", zap.NewNop())
	ctx := context.Background()

	return &fixture{
		products: store.NewProductStore(ctx, snapshots, zap.NewNop()),
		users:    store.NewUserStore(ctx, snapshots, zap.NewNop()),
		orders:   store.NewOrderStore(ctx, snapshots, zap.NewNop()),
		carts:    store.NewCartStore(snapshots, zap.NewNop()),
		notifier: &recordingNotifier{},
	}
}

func (f *fixture) addProduct(t *testing.T, id string, price float64, stock int) *domain.Product {
	t.Helper()

	p := &domain.Product{
		ID:       id,
		Name:     "Test Product " + id,
		Category: domain.CategoryHardware,
		Price:    price,
		Stock:    stock,
	}
	require.NoError(t, f.products.Insert(context.Background(), p))
	return p
}

func (f *fixture) addUser(t *testing.T, u *domain.User) *domain.User {
	t.Helper()
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func activeBuyer(id string, discountRate float64) *domain.User {
	return &domain.User{
		ID:           id,
		Email:        id + "@example.com",
		Username:     id,
		Name:         "Buyer " + id,
		Password:     "secret",
		Role:         domain.RoleUser,
		DiscountRate: discountRate,
		IsActive:     true,
		PhoneNumber:  "+15550100",
	}
}
