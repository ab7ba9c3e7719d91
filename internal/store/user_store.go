package store

import (
	"context"
	"strings"
	"sync"

	"b2b-catalog/internal/domain"

	"go.uber.org/zap"
)

const usersSnapshot = "users"

// UserStore holds the user roster. Users are never removed, only
// deactivated, so the collection grows monotonically.
type UserStore struct {
	mu        sync.RWMutex
	snapshots *Snapshots
	logger    *zap.Logger
	users     []*domain.User
}

// NewUserStore loads the user snapshot, falling back to the built-in
// super admin and manager accounts when the snapshot is missing or
// unreadable.
func NewUserStore(ctx context.Context, snapshots *Snapshots, logger *zap.Logger) *UserStore {
	s := &UserStore{
		snapshots: snapshots,
		logger:    logger,
	}

	var loaded []*domain.User
	if snapshots.Load(ctx, usersSnapshot, &loaded) && len(loaded) > 0 {
		s.users = loaded
	} else {
		s.users = DefaultUsers()
		if err := s.save(ctx); err != nil {
			logger.Warn("Failed to persist seeded users", zap.Error(err))
		}
	}

	logger.Info("User store initialized", zap.Int("count", len(s.users)))
	return s
}

func (s *UserStore) save(ctx context.Context) error {
	return s.snapshots.Save(ctx, usersSnapshot, s.users)
}

// All returns every user in stored order.
func (s *UserStore) All() []*domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.User, len(s.users))
	copy(out, s.users)
	return out
}

// FindByID returns the user with the given id.
func (s *UserStore) FindByID(id string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// FindByLogin returns the user whose username or email matches the given
// identifier, compared case-insensitively.
func (s *UserStore) FindByLogin(usernameOrEmail string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(usernameOrEmail)
	for _, u := range s.users {
		if strings.ToLower(u.Username) == needle || strings.ToLower(u.Email) == needle {
			return u, nil
		}
	}
	return nil, ErrUserNotFound
}

// Admins returns every user holding an administrative role.
func (s *UserStore) Admins() []*domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var admins []*domain.User
	for _, u := range s.users {
		if u.IsAdmin() {
			admins = append(admins, u)
		}
	}
	return admins
}

// Create appends a new user. It rejects a duplicate username or email
// (case-insensitive) so logins stay unambiguous.
func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) || strings.EqualFold(existing.Username, user.Username) {
			return ErrUserAlreadyExists
		}
	}

	s.users = append(s.users, user)
	return s.save(ctx)
}

// Update replaces the stored user with the same id. Field merging is the
// service layer's concern; the store persists whatever it is handed.
func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, u := range s.users {
		if u.ID == user.ID {
			s.users[i] = user
			return s.save(ctx)
		}
	}
	return ErrUserNotFound
}
