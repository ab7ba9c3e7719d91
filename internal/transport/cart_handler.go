package transport

import (
	"errors"
	"net/http"

	"b2b-catalog/internal/middleware"
	"b2b-catalog/internal/service"
	"b2b-catalog/internal/store"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// AddCartItemRequest represents the add-to-cart payload
type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateCartItemRequest represents the set-quantity payload. Zero or
// negative removes the item.
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

// CartResponse wraps the cart view with a clamp notice so the client
// can tell the user the quantity was capped at stock.
type CartResponse struct {
	*service.CartView
	Clamped bool `json:"clamped,omitempty"`
}

// CartHandler handles HTTP requests for the session cart
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// RegisterRoutes registers all cart routes
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.Get)
		r.Delete("/", h.Clear)
		r.Post("/items", h.AddItem)
		r.Put("/items/{productID}", h.UpdateItem)
		r.Delete("/items/{productID}", h.RemoveItem)
	})
}

// Get returns the caller's cart with derived totals
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view := h.cartService.Get(r.Context(), user)
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{CartView: view})
}

// AddItem puts a product into the cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req AddCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, clamped, err := h.cartService.Add(r.Context(), user, req.ProductID, req.Quantity)
	if err != nil {
		h.respondCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{CartView: view, Clamped: clamped})
}

// UpdateItem sets an entry's quantity exactly
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req UpdateCartItemRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	view, clamped, err := h.cartService.UpdateQuantity(r.Context(), user, chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		h.respondCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{CartView: view, Clamped: clamped})
}

// RemoveItem drops an entry from the cart
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	view, err := h.cartService.Remove(r.Context(), user, chi.URLParam(r, "productID"))
	if err != nil {
		h.respondCartError(w, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{CartView: view})
}

// Clear empties the cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.cartService.Clear(r.Context(), user); err != nil {
		h.logger.Error("Failed to clear cart", zap.String("user_id", user.ID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to clear cart")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "cart cleared"})
}

func (h *CartHandler) respondCartError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrInvalidQuantity):
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid quantity or insufficient stock")
	default:
		h.logger.Error("Cart operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "cart operation failed")
	}
}
