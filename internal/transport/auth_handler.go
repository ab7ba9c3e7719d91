package transport

import (
	"errors"
	"net/http"

	"b2b-catalog/internal/domain"
	"b2b-catalog/internal/middleware"
	"b2b-catalog/internal/service"
	"b2b-catalog/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LoginRequest represents the login request payload
type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail" validate:"required"`
	Password        string `json:"password" validate:"required"`
}

// RegisterRequest represents the self-registration request payload
type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Username    string `json:"username" validate:"required,min=3"`
	Password    string `json:"password" validate:"required,min=6"`
	CompanyName string `json:"companyName"`
	TaxID       string `json:"taxId"`
	PhoneNumber string `json:"phoneNumber"`

	// Accepted but ignored: self-registration cannot grant privileges.
	Role         string  `json:"role"`
	DiscountRate float64 `json:"discountRate"`
	IsActive     bool    `json:"isActive"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Token string      `json:"token"`
	User  UserProfile `json:"user"`
}

// UserProfile is the public view of an account. The credential never
// leaves the server.
type UserProfile struct {
	ID                   string            `json:"id"`
	Email                string            `json:"email"`
	Username             string            `json:"username"`
	Name                 string            `json:"name"`
	Role                 string            `json:"role"`
	DiscountRate         float64           `json:"discountRate"`
	AccessibleCategories []domain.Category `json:"accessibleCategories"`
	IsActive             bool              `json:"isActive"`
	IsPendingApproval    bool              `json:"isPendingApproval"`
	CompanyName          string            `json:"companyName,omitempty"`
	TaxID                string            `json:"taxId,omitempty"`
	PhoneNumber          string            `json:"phoneNumber,omitempty"`
	CanSetUserDiscounts  bool              `json:"canSetUserDiscounts,omitempty"`
	CanCreateNewUsers    bool              `json:"canCreateNewUsers,omitempty"`
	CanManageAllProducts bool              `json:"canManageAllProducts,omitempty"`
}

func toProfile(u *domain.User) UserProfile {
	return UserProfile{
		ID:                   u.ID,
		Email:                u.Email,
		Username:             u.Username,
		Name:                 u.Name,
		Role:                 string(u.Role),
		DiscountRate:         u.DiscountRate,
		AccessibleCategories: u.AccessibleCategories,
		IsActive:             u.IsActive,
		IsPendingApproval:    u.IsPendingApproval,
		CompanyName:          u.CompanyName,
		TaxID:                u.TaxID,
		PhoneNumber:          u.PhoneNumber,
		CanSetUserDiscounts:  u.CanSetUserDiscounts,
		CanCreateNewUsers:    u.CanCreateNewUsers,
		CanManageAllProducts: u.CanManageAllProducts,
	}
}

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	userService service.UserService
	cartService service.CartService
	chatService service.ChatService
	logger      *zap.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	userService service.UserService,
	cartService service.CartService,
	chatService service.ChatService,
	logger *zap.Logger,
) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		cartService: cartService,
		chatService: chatService,
		logger:      logger,
	}
}

// RegisterRoutes registers all auth routes
func (h *AuthHandler) RegisterRoutes(r chi.Router, authMiddleware, rateLimit func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(rateLimit)
			r.Post("/login", h.Login)
			r.Post("/register", h.Register)
		})

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Post("/logout", h.Logout)
			r.Get("/me", h.Me)
		})
	})
}

// Login handles user authentication
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Login validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, user, err := h.userService.Login(r.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		h.logger.Debug("Login failed", zap.Error(err))

		switch {
		case errors.Is(err, service.ErrAccountPending):
			middleware.RespondWithError(w, http.StatusForbidden, "account is pending admin approval")
		case errors.Is(err, service.ErrAccountInactive):
			middleware.RespondWithError(w, http.StatusForbidden, "account is inactive")
		case errors.Is(err, service.ErrInvalidCredentials):
			middleware.RespondWithError(w, http.StatusUnauthorized, "invalid username/email or password")
		default:
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to login")
		}
		return
	}

	h.logger.Info("User logged in successfully", zap.String("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusOK, LoginResponse{
		Token: token,
		User:  toProfile(user),
	})
}

// Register handles public self-registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Registration validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.SelfRegister(r.Context(), service.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Username:    req.Username,
		Password:    req.Password,
		CompanyName: req.CompanyName,
		TaxID:       req.TaxID,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		h.logger.Error("Registration failed", zap.Error(err))

		if errors.Is(err, store.ErrUserAlreadyExists) {
			middleware.RespondWithError(w, http.StatusConflict, "an account with this username or email already exists")
			return
		}
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to register")
		return
	}

	h.logger.Info("User registered successfully", zap.String("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, toProfile(user))
}

// Logout drops the caller's session state: the cart snapshot and the
// chat conversation. The token simply expires; there is no denylist.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.cartService.Clear(r.Context(), user); err != nil {
		h.logger.Warn("Failed to clear cart on logout", zap.String("user_id", user.ID), zap.Error(err))
	}
	h.chatService.Close(user.ID)

	h.logger.Info("User logged out", zap.String("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "logged out successfully"})
}

// Me returns the authenticated account's profile
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProfile(user))
}
