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

// ProductRequest represents a product create/update payload
type ProductRequest struct {
	Name           string            `json:"name" validate:"required"`
	Category       string            `json:"category" validate:"required"`
	Price          float64           `json:"price" validate:"gte=0"`
	Description    string            `json:"description"`
	ImageURL       string            `json:"imageUrl"`
	Specifications map[string]string `json:"specifications"`
	Stock          int               `json:"stock" validate:"gte=0"`
}

// ImportRequest represents a bulk import payload
type ImportRequest struct {
	Products []ImportRow `json:"products" validate:"required,min=1,dive"`
}

// ImportRow is one product row of a bulk import
type ImportRow struct {
	ID             string            `json:"id"`
	Name           string            `json:"name" validate:"required"`
	Category       string            `json:"category" validate:"required"`
	Price          float64           `json:"price" validate:"gte=0"`
	Description    string            `json:"description"`
	ImageURL       string            `json:"imageUrl"`
	Specifications map[string]string `json:"specifications"`
	Stock          int               `json:"stock" validate:"gte=0"`
}

// CatalogResponse is the customer-facing storefront view
type CatalogResponse struct {
	Products   []*domain.Product `json:"products"`
	Categories []domain.Category `json:"categories"`
}

func (req ProductRequest) toInput() service.ProductInput {
	return service.ProductInput{
		Name:           req.Name,
		Category:       domain.Category(req.Category),
		Price:          req.Price,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Specifications: req.Specifications,
		Stock:          req.Stock,
	}
}

// ProductHandler handles HTTP requests for the catalog and product
// management
type ProductHandler struct {
	productService service.ProductService
	logger         *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService service.ProductService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// RegisterRoutes registers catalog and product management routes
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware, requireProducts, requireSuperAdmin func(http.Handler) http.Handler) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.Catalog)
		r.Get("/categories", h.Categories)
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(requireProducts)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/import", h.Import)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.SoftDelete)

		// The trash is the super admin's domain.
		r.Group(func(r chi.Router) {
			r.Use(requireSuperAdmin)
			r.Get("/trash", h.ListTrash)
			r.Delete("/trash", h.EmptyTrash)
			r.Post("/{id}/restore", h.Restore)
			r.Delete("/{id}/permanent", h.PermanentDelete)
		})
	})
}

// Catalog returns the products visible to the caller, narrowed by the
// optional category and search query parameters
func (h *ProductHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	category := domain.Category(r.URL.Query().Get("category"))
	search := r.URL.Query().Get("q")

	products := h.productService.Visible(user, category, search)
	if products == nil {
		products = []*domain.Product{}
	}

	middleware.RespondWithJSON(w, http.StatusOK, CatalogResponse{
		Products:   products,
		Categories: h.productService.Categories(user),
	})
}

// Categories returns the category filter choices for the caller
func (h *ProductHandler) Categories(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, h.productService.Categories(user))
}

// List returns every non-trashed product for the management view
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products := h.productService.ListManaged()
	if products == nil {
		products = []*domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Create handles product creation
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Create(r.Context(), req.toInput())
	if err != nil {
		h.respondProductError(w, err, "failed to create product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update handles product updates
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product, err := h.productService.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		h.respondProductError(w, err, "failed to update product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// SoftDelete moves a product to the trash
func (h *ProductHandler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.SoftDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondProductError(w, err, "failed to delete product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product moved to trash"})
}

// ListTrash returns the trashed products
func (h *ProductHandler) ListTrash(w http.ResponseWriter, r *http.Request) {
	products := h.productService.ListTrash()
	if products == nil {
		products = []*domain.Product{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Restore moves a trashed product back into the catalog
func (h *ProductHandler) Restore(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.Restore(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondProductError(w, err, "failed to restore product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product restored"})
}

// PermanentDelete removes a trashed product for good
func (h *ProductHandler) PermanentDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.productService.PermanentDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.respondProductError(w, err, "failed to delete product")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product permanently deleted"})
}

// EmptyTrash permanently removes everything in the trash
func (h *ProductHandler) EmptyTrash(w http.ResponseWriter, r *http.Request) {
	removed, err := h.productService.EmptyTrash(r.Context())
	if err != nil {
		h.logger.Error("Failed to empty trash", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to empty trash")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// Import handles bulk product import
func (h *ProductHandler) Import(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	inputs := make([]service.ProductInput, 0, len(req.Products))
	for _, row := range req.Products {
		inputs = append(inputs, service.ProductInput{
			ID:             row.ID,
			Name:           row.Name,
			Category:       domain.Category(row.Category),
			Price:          row.Price,
			Description:    row.Description,
			ImageURL:       row.ImageURL,
			Specifications: row.Specifications,
			Stock:          row.Stock,
		})
	}

	result, err := h.productService.Import(r.Context(), inputs)
	if err != nil {
		h.respondProductError(w, err, "failed to import products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, result)
}

func (h *ProductHandler) respondProductError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		middleware.RespondWithError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, service.ErrProductNotInTrash):
		middleware.RespondWithError(w, http.StatusConflict, "product is not in the trash")
	case errors.Is(err, service.ErrInvalidProductName),
		errors.Is(err, service.ErrInvalidCategory),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidStock),
		errors.Is(err, service.ErrNothingToImport):
		middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("Product operation failed", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, fallback)
	}
}
