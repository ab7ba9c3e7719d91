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

// CreateUserRequest represents the admin-side account creation payload
type CreateUserRequest struct {
	Name                 string            `json:"name" validate:"required"`
	Email                string            `json:"email" validate:"required,email"`
	Username             string            `json:"username" validate:"required,min=3"`
	Password             string            `json:"password" validate:"required,min=6"`
	Role                 string            `json:"role" validate:"required"`
	DiscountRate         float64           `json:"discountRate" validate:"gte=0,lte=1"`
	AccessibleCategories []domain.Category `json:"accessibleCategories"`
	IsActive             bool              `json:"isActive"`
	CompanyName          string            `json:"companyName"`
	TaxID                string            `json:"taxId"`
	PhoneNumber          string            `json:"phoneNumber"`
	CanSetUserDiscounts  bool              `json:"canSetUserDiscounts"`
	CanCreateNewUsers    bool              `json:"canCreateNewUsers"`
	CanManageAllProducts bool              `json:"canManageAllProducts"`
}

// UpdateUserRequest represents a partial account update; absent fields
// keep their prior values
type UpdateUserRequest struct {
	Name                 *string            `json:"name"`
	Email                *string            `json:"email"`
	Username             *string            `json:"username"`
	Password             *string            `json:"password"`
	Role                 *string            `json:"role"`
	DiscountRate         *float64           `json:"discountRate"`
	AccessibleCategories *[]domain.Category `json:"accessibleCategories"`
	CompanyName          *string            `json:"companyName"`
	TaxID                *string            `json:"taxId"`
	PhoneNumber          *string            `json:"phoneNumber"`
	CanSetUserDiscounts  *bool              `json:"canSetUserDiscounts"`
	CanCreateNewUsers    *bool              `json:"canCreateNewUsers"`
	CanManageAllProducts *bool              `json:"canManageAllProducts"`
}

// UserHandler handles HTTP requests for user management
type UserHandler struct {
	userService service.UserService
	logger      *zap.Logger
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService service.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// RegisterRoutes registers all user management routes
func (h *UserHandler) RegisterRoutes(r chi.Router, authMiddleware, requireUsers func(http.Handler) http.Handler) {
	r.Route("/api/users", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireUsers)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Post("/{id}/approve", h.Approve)
		r.Post("/{id}/toggle-active", h.ToggleActive)
	})
}

// List returns the whole roster
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users := h.userService.ListUsers()

	profiles := make([]UserProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, toProfile(u))
	}
	middleware.RespondWithJSON(w, http.StatusOK, profiles)
}

// Create handles admin-side account creation
func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("User creation validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.userService.CreateUser(r.Context(), actor, service.CreateUserInput{
		Name:                 req.Name,
		Email:                req.Email,
		Username:             req.Username,
		Password:             req.Password,
		Role:                 domain.Role(req.Role),
		DiscountRate:         req.DiscountRate,
		AccessibleCategories: req.AccessibleCategories,
		IsActive:             req.IsActive,
		CompanyName:          req.CompanyName,
		TaxID:                req.TaxID,
		PhoneNumber:          req.PhoneNumber,
		CanSetUserDiscounts:  req.CanSetUserDiscounts,
		CanCreateNewUsers:    req.CanCreateNewUsers,
		CanManageAllProducts: req.CanManageAllProducts,
	})
	if err != nil {
		h.respondUserError(w, err, "failed to create user")
		return
	}

	h.logger.Info("User created", zap.String("user_id", user.ID), zap.String("actor_id", actor.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, toProfile(user))
}

// Update handles partial account updates
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateUserRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	patch := service.UserPatch{
		Name:                 req.Name,
		Email:                req.Email,
		Username:             req.Username,
		Password:             req.Password,
		DiscountRate:         req.DiscountRate,
		AccessibleCategories: req.AccessibleCategories,
		CompanyName:          req.CompanyName,
		TaxID:                req.TaxID,
		PhoneNumber:          req.PhoneNumber,
		CanSetUserDiscounts:  req.CanSetUserDiscounts,
		CanCreateNewUsers:    req.CanCreateNewUsers,
		CanManageAllProducts: req.CanManageAllProducts,
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		patch.Role = &role
	}

	user, err := h.userService.UpdateUser(r.Context(), actor, chi.URLParam(r, "id"), patch)
	if err != nil {
		h.respondUserError(w, err, "failed to update user")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProfile(user))
}

// Approve activates a pending account
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ApproveUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondUserError(w, err, "failed to approve user")
		return
	}

	h.logger.Info("User approved", zap.String("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusOK, toProfile(user))
}

// ToggleActive flips an approved account's active flag
func (h *UserHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ToggleActive(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondUserError(w, err, "failed to toggle user status")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, toProfile(user))
}

func (h *UserHandler) respondUserError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "user not found")
	case errors.Is(err, store.ErrUserAlreadyExists):
		middleware.RespondWithError(w, http.StatusConflict, "an account with this username or email already exists")
	case errors.Is(err, service.ErrNotPermitted):
		middleware.RespondWithError(w, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidDiscount),
		errors.Is(err, service.ErrMissingCredentials):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("User operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
