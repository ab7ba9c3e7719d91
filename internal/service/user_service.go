package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"b2b-catalog/internal/domain"
	"b2b-catalog/internal/notify"
	"b2b-catalog/internal/store"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInvalidCredentials deliberately covers both "no such account"
	// and "wrong password" so login cannot be used to enumerate users.
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrAccountPending     = errors.New("account is pending admin approval")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrInvalidToken       = errors.New("invalid token")

	ErrNotPermitted       = errors.New("operation not permitted")
	ErrInvalidDiscount    = errors.New("discount rate must be between 0 and 1")
	ErrInvalidRole        = errors.New("unknown role")
	ErrMissingCredentials = errors.New("username, email and password are required")
)

// Claims represents the session token claims.
type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// RegisterInput is the public self-registration payload. Elevated fields
// a client might attempt to smuggle in (role, discount, category access,
// active/pending flags) are force-overwritten by SelfRegister.
type RegisterInput struct {
	Name        string
	Email       string
	Username    string
	Password    string
	CompanyName string
	TaxID       string
	PhoneNumber string

	// Ignored regardless of what the caller sends.
	Role                 domain.Role
	DiscountRate         float64
	AccessibleCategories []domain.Category
	IsActive             bool
	IsPendingApproval    bool
}

// CreateUserInput is the admin-side account creation payload. Values are
// stored as provided; admin-created accounts are pre-approved.
type CreateUserInput struct {
	Name                 string
	Email                string
	Username             string
	Password             string
	Role                 domain.Role
	DiscountRate         float64
	AccessibleCategories []domain.Category
	IsActive             bool
	CompanyName          string
	TaxID                string
	PhoneNumber          string
	CanSetUserDiscounts  bool
	CanCreateNewUsers    bool
	CanManageAllProducts bool
}

// UserPatch carries a partial update; nil fields keep their prior
// values.
type UserPatch struct {
	Name                 *string
	Email                *string
	Username             *string
	Password             *string
	Role                 *domain.Role
	DiscountRate         *float64
	AccessibleCategories *[]domain.Category
	CompanyName          *string
	TaxID                *string
	PhoneNumber          *string
	CanSetUserDiscounts  *bool
	CanCreateNewUsers    *bool
	CanManageAllProducts *bool
}

// UserService defines the identity and approval business logic.
type UserService interface {
	Login(ctx context.Context, usernameOrEmail, password string) (token string, user *domain.User, err error)
	ValidateToken(tokenString string) (*Claims, error)
	SelfRegister(ctx context.Context, input RegisterInput) (*domain.User, error)
	CreateUser(ctx context.Context, actor *domain.User, input CreateUserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, actor *domain.User, id string, patch UserPatch) (*domain.User, error)
	ApproveUser(ctx context.Context, id string) (*domain.User, error)
	ToggleActive(ctx context.Context, id string) (*domain.User, error)
	GetUser(id string) (*domain.User, error)
	ListUsers() []*domain.User
}

type userService struct {
	users        *store.UserStore
	notifier     notify.Notifier
	jwtSecret    string
	accessExpiry time.Duration
	logger       *zap.Logger
}

// NewUserService creates a new instance of UserService.
func NewUserService(
	users *store.UserStore,
	notifier notify.Notifier,
	jwtSecret string,
	accessExpiry time.Duration,
	logger *zap.Logger,
) UserService {
	return &userService{
		users:        users,
		notifier:     notifier,
		jwtSecret:    jwtSecret,
		accessExpiry: accessExpiry,
		logger:       logger,
	}
}

// Login matches username or email case-insensitively and compares the
// credential exactly. Pending and inactive accounts get distinct
// signals; an unknown identity and a wrong password share one.
//
// The plaintext comparison is a deliberate carry-over: credential
// hashing is an external capability to be supplied, not silently
// introduced here.
func (s *userService) Login(ctx context.Context, usernameOrEmail, password string) (string, *domain.User, error) {
	user, err := s.users.FindByLogin(usernameOrEmail)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}
	if user.Password != password {
		return "", nil, ErrInvalidCredentials
	}

	if user.IsPendingApproval {
		return "", nil, ErrAccountPending
	}
	if !user.IsActive {
		return "", nil, ErrAccountInactive
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate session token: %w", err)
	}

	s.logger.Info("User logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return token, user, nil
}

// ValidateToken validates a session token and returns its claims.
func (s *userService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SelfRegister creates a pending account. Whatever the caller sent, the
// account starts as a plain user with no discount, no category access,
// inactive and awaiting approval.
func (s *userService) SelfRegister(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Username == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}

	user := &domain.User{
		ID:                   uuid.New().String(),
		Email:                input.Email,
		Username:             input.Username,
		Name:                 input.Name,
		Password:             input.Password,
		Role:                 domain.RoleUser,
		DiscountRate:         0,
		AccessibleCategories: nil,
		IsActive:             false,
		IsPendingApproval:    true,
		CompanyName:          input.CompanyName,
		TaxID:                input.TaxID,
		PhoneNumber:          input.PhoneNumber,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	confirmation := "Your registration request has been received. Our team will review it within 24 hours and get back to you."
	s.notifier.Notify(notify.ChannelEmail, user.Email, "Registration request received", confirmation)
	s.notifier.Notify(notify.ChannelSMS, user.PhoneNumber, "", confirmation)

	adminBody := fmt.Sprintf("A new membership request was received. User: %s (%s). Please review it in the user management panel.", user.Name, user.Email)
	for _, admin := range s.users.Admins() {
		s.notifier.Notify(notify.ChannelEmail, admin.Email, "New membership request: "+user.Username, adminBody)
	}

	s.logger.Info("User self-registered", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// CreateUser creates a pre-approved account with the given role,
// capabilities, discount and category access.
func (s *userService) CreateUser(ctx context.Context, actor *domain.User, input CreateUserInput) (*domain.User, error) {
	if !actor.CanManageUsers() {
		return nil, ErrNotPermitted
	}
	if input.Email == "" || input.Username == "" || input.Password == "" {
		return nil, ErrMissingCredentials
	}
	if !domain.ValidRole(input.Role) {
		return nil, ErrInvalidRole
	}
	if input.DiscountRate < 0 || input.DiscountRate > 1 {
		return nil, ErrInvalidDiscount
	}
	if input.DiscountRate > 0 && !actor.CanAdjustDiscounts() {
		return nil, ErrNotPermitted
	}

	user := &domain.User{
		ID:                   uuid.New().String(),
		Email:                input.Email,
		Username:             input.Username,
		Name:                 input.Name,
		Password:             input.Password,
		Role:                 input.Role,
		DiscountRate:         input.DiscountRate,
		AccessibleCategories: input.AccessibleCategories,
		IsActive:             input.IsActive,
		IsPendingApproval:    false,
		CompanyName:          input.CompanyName,
		TaxID:                input.TaxID,
		PhoneNumber:          input.PhoneNumber,
		CanSetUserDiscounts:  input.CanSetUserDiscounts,
		CanCreateNewUsers:    input.CanCreateNewUsers,
		CanManageAllProducts: input.CanManageAllProducts,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User created by admin",
		zap.String("user_id", user.ID),
		zap.String("actor_id", actor.ID),
		zap.String("role", string(user.Role)),
	)
	return user, nil
}

// UpdateUser merges the provided fields into the existing record.
func (s *userService) UpdateUser(ctx context.Context, actor *domain.User, id string, patch UserPatch) (*domain.User, error) {
	if !actor.CanManageUsers() {
		return nil, ErrNotPermitted
	}

	existing, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.Username != nil {
		updated.Username = *patch.Username
	}
	if patch.Password != nil {
		updated.Password = *patch.Password
	}
	if patch.Role != nil {
		if !domain.ValidRole(*patch.Role) {
			return nil, ErrInvalidRole
		}
		updated.Role = *patch.Role
	}
	if patch.DiscountRate != nil {
		if !actor.CanAdjustDiscounts() {
			return nil, ErrNotPermitted
		}
		if *patch.DiscountRate < 0 || *patch.DiscountRate > 1 {
			return nil, ErrInvalidDiscount
		}
		updated.DiscountRate = *patch.DiscountRate
	}
	if patch.AccessibleCategories != nil {
		updated.AccessibleCategories = *patch.AccessibleCategories
	}
	if patch.CompanyName != nil {
		updated.CompanyName = *patch.CompanyName
	}
	if patch.TaxID != nil {
		updated.TaxID = *patch.TaxID
	}
	if patch.PhoneNumber != nil {
		updated.PhoneNumber = *patch.PhoneNumber
	}
	if patch.CanSetUserDiscounts != nil {
		updated.CanSetUserDiscounts = *patch.CanSetUserDiscounts
	}
	if patch.CanCreateNewUsers != nil {
		updated.CanCreateNewUsers = *patch.CanCreateNewUsers
	}
	if patch.CanManageAllProducts != nil {
		updated.CanManageAllProducts = *patch.CanManageAllProducts
	}

	// A patched login identifier must stay unique across the roster, the
	// same rule Create enforces.
	if patch.Email != nil || patch.Username != nil {
		for _, login := range []string{updated.Email, updated.Username} {
			if other, err := s.users.FindByLogin(login); err == nil && other.ID != updated.ID {
				return nil, store.ErrUserAlreadyExists
			}
		}
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", zap.String("user_id", id), zap.String("actor_id", actor.ID))
	return &updated, nil
}

// ApproveUser activates a pending account. Approval is the only
// operation that clears both flags at once.
func (s *userService) ApproveUser(ctx context.Context, id string) (*domain.User, error) {
	existing, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}

	updated := *existing
	updated.IsActive = true
	updated.IsPendingApproval = false

	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to approve user: %w", err)
	}

	s.notifier.Notify(notify.ChannelEmail, updated.Email, "Account approved",
		"Your account has been approved. You can now sign in to the catalog.")

	s.logger.Info("User approved", zap.String("user_id", id))
	return &updated, nil
}

// ToggleActive flips the active flag. A pending account cannot be
// toggled; it must go through ApproveUser first.
func (s *userService) ToggleActive(ctx context.Context, id string) (*domain.User, error) {
	existing, err := s.users.FindByID(id)
	if err != nil {
		return nil, err
	}
	if existing.IsPendingApproval {
		return existing, nil
	}

	updated := *existing
	updated.IsActive = !updated.IsActive

	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("failed to toggle user status: %w", err)
	}

	s.logger.Info("User active flag toggled",
		zap.String("user_id", id),
		zap.Bool("active", updated.IsActive),
	)
	return &updated, nil
}

// GetUser retrieves a user by id.
func (s *userService) GetUser(id string) (*domain.User, error) {
	return s.users.FindByID(id)
}

// ListUsers returns the whole roster.
func (s *userService) ListUsers() []*domain.User {
	return s.users.All()
}

// generateToken creates a session token with user id and role claims.
func (s *userService) generateToken(user *domain.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExpiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
