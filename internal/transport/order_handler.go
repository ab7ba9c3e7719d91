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

// UpdateStatusRequest represents the admin status change payload
type UpdateStatusRequest struct {
	Status     string `json:"status" validate:"required"`
	AdminNotes string `json:"adminNotes"`
}

// PaymentProofRequest represents the payment evidence payload. The file
// itself is not transferred; only its name is recorded.
type PaymentProofRequest struct {
	FileName      string `json:"fileName" validate:"required"`
	CustomerNotes string `json:"customerNotes"`
}

// ContainerPhotoRequest represents the shipment evidence payload
type ContainerPhotoRequest struct {
	FileName string `json:"fileName" validate:"required"`
}

// OrderHandler handles HTTP requests for the order ledger
type OrderHandler struct {
	orderService service.OrderService
	logger       *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
		logger:       logger,
	}
}

// RegisterRoutes registers all order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Post("/{id}/payment-proof", h.UploadPaymentProof)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Patch("/{id}/status", h.UpdateStatus)
			r.Post("/{id}/container-photo", h.UploadContainerPhoto)
		})
	})
}

// Create checks out the caller's cart into a new order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.orderService.Create(r.Context(), user)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			middleware.RespondWithError(w, http.StatusBadRequest, "cart is empty")
			return
		}
		h.logger.Error("Checkout failed", zap.String("user_id", user.ID), zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create order")
		return
	}

	h.logger.Info("Order placed", zap.String("order_id", order.ID), zap.String("user_id", user.ID))
	middleware.RespondWithJSON(w, http.StatusCreated, order)
}

// List returns the ledger scoped for the caller
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders := h.orderService.ListFor(user)
	if orders == nil {
		orders = []*domain.Order{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// Get returns one order, scoped for the caller
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	order, err := h.orderService.Get(user, chi.URLParam(r, "id"))
	if err != nil {
		h.respondOrderError(w, err, "failed to get order")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// UpdateStatus overwrites an order's status
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), domain.OrderStatus(req.Status), req.AdminNotes)
	if err != nil {
		h.respondOrderError(w, err, "failed to update order status")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// UploadPaymentProof attaches the customer's payment evidence
func (h *OrderHandler) UploadPaymentProof(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req PaymentProofRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UploadPaymentProof(r.Context(), user, chi.URLParam(r, "id"), req.FileName, req.CustomerNotes)
	if err != nil {
		h.respondOrderError(w, err, "failed to upload payment proof")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// UploadContainerPhoto attaches shipment evidence
func (h *OrderHandler) UploadContainerPhoto(w http.ResponseWriter, r *http.Request) {
	var req ContainerPhotoRequest
	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	order, err := h.orderService.UploadContainerPhoto(r.Context(), chi.URLParam(r, "id"), req.FileName)
	if err != nil {
		h.respondOrderError(w, err, "failed to upload container photo")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, order)
}

func (h *OrderHandler) respondOrderError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrOrderNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, service.ErrUnknownOrderStatus):
		middleware.RespondWithError(w, http.StatusBadRequest, "unknown order status")
	case errors.Is(err, service.ErrMissingFileRef):
		middleware.RespondWithError(w, http.StatusBadRequest, "a file reference is required")
	default:
		h.logger.Error("Order operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
