package store

import (
	"context"
	"testing"

	"b2b-catalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestUserStoreSeedsDefaultAccounts(t *testing.T) {
	snapshots, _ := newTestSnapshots(t)
	ctx := context.Background()

	s := NewUserStore(ctx, snapshots, zap.NewNop())

	admin, err := s.FindByLogin("admin")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleSuperAdmin, admin.Role)
	assert.True(t, admin.IsActive)
}

func TestUserStoreFindByLoginIsCaseInsensitive(t *testing.T) {
	snapshots, _ := newTestSnapshots(t)
	ctx := context.Background()

	s := NewUserStore(ctx, snapshots, zap.NewNop())

	byUsername, err := s.FindByLogin("ADMIN")
	require.NoError(t, err)

	byEmail, err := s.FindByLogin("Admin@Example.COM")
	require.NoError(t, err)

	assert.Equal(t, byUsername.ID, byEmail.ID)
}

func TestUserStoreRejectsDuplicateIdentity(t *testing.T) {
	snapshots, _ := newTestSnapshots(t)
	ctx := context.Background()

	s := NewUserStore(ctx, snapshots, zap.NewNop())

	err := s.Create(ctx, &domain.User{
		ID:       "dup-1",
		Email:    "ADMIN@example.com",
		Username: "someone-else",
		Role:     domain.RoleUser,
	})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUserStoreAdminsIncludesManagersAndSuperAdmins(t *testing.T) {
	snapshots, _ := newTestSnapshots(t)
	ctx := context.Background()

	s := NewUserStore(ctx, snapshots, zap.NewNop())
	require.NoError(t, s.Create(ctx, &domain.User{
		ID:       "plain-1",
		Email:    "plain@example.com",
		Username: "plain",
		Role:     domain.RoleUser,
	}))

	admins := s.Admins()
	assert.Len(t, admins, 2)
	for _, a := range admins {
		assert.True(t, a.IsAdmin())
	}
}

func TestCartStorePerUserRoundTrip(t *testing.T) {
	snapshots, _ := newTestSnapshots(t)
	ctx := context.Background()

	s := NewCartStore(snapshots, zap.NewNop())
	items := []domain.CartItem{
		{Product: domain.Product{ID: "p1", Name: "Widget", Price: 10}, Quantity: 3},
	}
	require.NoError(t, s.Put(ctx, "user-a", items))

	// Another user's cart is independent.
	assert.Empty(t, s.Get(ctx, "user-b"))

	// A fresh store over the same snapshots sees the persisted cart.
	reloaded := NewCartStore(snapshots, zap.NewNop())
	got := reloaded.Get(ctx, "user-a")
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Quantity)

	require.NoError(t, s.Clear(ctx, "user-a"))
	assert.Empty(t, s.Get(ctx, "user-a"))

	reloadedAgain := NewCartStore(snapshots, zap.NewNop())
	assert.Empty(t, reloadedAgain.Get(ctx, "user-a"), "clear must drop the snapshot too")
}
