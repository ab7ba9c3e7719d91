package service

import (
	"context"
	"errors"
	"fmt"

	"b2b-catalog/internal/catalog"
	"b2b-catalog/internal/domain"
	"b2b-catalog/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidProductName = errors.New("product name is required")
	ErrInvalidCategory    = errors.New("unknown product category")
	ErrInvalidPrice       = errors.New("price must not be negative")
	ErrInvalidStock       = errors.New("stock must not be negative")
	ErrProductNotInTrash  = errors.New("product is not in the trash")
	ErrNothingToImport    = errors.New("import batch is empty")
)

// ProductInput carries the attributes of a created or updated product.
type ProductInput struct {
	ID             string
	Name           string
	Category       domain.Category
	Price          float64
	Description    string
	ImageURL       string
	Specifications map[string]string
	Stock          int
}

// ImportResult reports a bulk import outcome.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ProductService defines the catalog business logic: customer-facing
// visibility plus the admin management and trash operations.
type ProductService interface {
	Visible(user *domain.User, category domain.Category, search string) []*domain.Product
	Categories(user *domain.User) []domain.Category
	ListManaged() []*domain.Product
	ListTrash() []*domain.Product
	Create(ctx context.Context, input ProductInput) (*domain.Product, error)
	Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
	PermanentDelete(ctx context.Context, id string) error
	EmptyTrash(ctx context.Context) (int, error)
	Import(ctx context.Context, inputs []ProductInput) (*ImportResult, error)
}

type productService struct {
	products *store.ProductStore
	logger   *zap.Logger
}

// NewProductService creates a new instance of ProductService.
func NewProductService(products *store.ProductStore, logger *zap.Logger) ProductService {
	return &productService{products: products, logger: logger}
}

// Visible returns the products the user may see, narrowed by the
// optional category filter and search term.
func (s *productService) Visible(user *domain.User, category domain.Category, search string) []*domain.Product {
	return catalog.VisibleProducts(s.products.All(), user, category, search)
}

// Categories returns the category filter choices for the user.
func (s *productService) Categories(user *domain.User) []domain.Category {
	return catalog.AvailableCategories(user)
}

// ListManaged returns every non-trashed product for the management view.
func (s *productService) ListManaged() []*domain.Product {
	var out []*domain.Product
	for _, p := range s.products.All() {
		if !p.IsTrashed {
			out = append(out, p)
		}
	}
	return out
}

// ListTrash returns every trashed product.
func (s *productService) ListTrash() []*domain.Product {
	var out []*domain.Product
	for _, p := range s.products.All() {
		if p.IsTrashed {
			out = append(out, p)
		}
	}
	return out
}

// Create adds a single product to the head of the catalog.
func (s *productService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		ID:             uuid.New().String(),
		Name:           input.Name,
		Category:       input.Category,
		Price:          input.Price,
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		Specifications: input.Specifications,
		Stock:          input.Stock,
		IsTrashed:      false,
	}

	if err := s.products.Insert(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", zap.String("product_id", product.ID), zap.String("name", product.Name))
	return product, nil
}

// Update replaces a product's attributes in place. The id and trash flag
// are not touched.
func (s *productService) Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	existing, err := s.products.FindByID(id)
	if err != nil {
		return nil, err
	}

	updated := &domain.Product{
		ID:             existing.ID,
		Name:           input.Name,
		Category:       input.Category,
		Price:          input.Price,
		Description:    input.Description,
		ImageURL:       input.ImageURL,
		Specifications: input.Specifications,
		Stock:          input.Stock,
		IsTrashed:      existing.IsTrashed,
	}

	if err := s.products.Update(ctx, updated); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.logger.Info("Product updated", zap.String("product_id", id))
	return updated, nil
}

// SoftDelete moves a product to the trash.
func (s *productService) SoftDelete(ctx context.Context, id string) error {
	if err := s.products.SetTrashed(ctx, id, true); err != nil {
		return err
	}
	s.logger.Info("Product trashed", zap.String("product_id", id))
	return nil
}

// Restore moves a trashed product back into the catalog.
func (s *productService) Restore(ctx context.Context, id string) error {
	product, err := s.products.FindByID(id)
	if err != nil {
		return err
	}
	if !product.IsTrashed {
		return ErrProductNotInTrash
	}

	if err := s.products.SetTrashed(ctx, id, false); err != nil {
		return err
	}
	s.logger.Info("Product restored", zap.String("product_id", id))
	return nil
}

// PermanentDelete removes a product for good. Only trashed products can
// be permanently deleted; the catalog view soft-deletes.
func (s *productService) PermanentDelete(ctx context.Context, id string) error {
	product, err := s.products.FindByID(id)
	if err != nil {
		return err
	}
	if !product.IsTrashed {
		return ErrProductNotInTrash
	}

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Product permanently deleted", zap.String("product_id", id))
	return nil
}

// EmptyTrash permanently removes everything in the trash.
func (s *productService) EmptyTrash(ctx context.Context) (int, error) {
	removed, err := s.products.EmptyTrash(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to empty trash: %w", err)
	}
	s.logger.Info("Trash emptied", zap.Int("removed", removed))
	return removed, nil
}

// Import upserts a batch of products: rows matching an existing product
// by id or name update it, the rest are added as new products.
func (s *productService) Import(ctx context.Context, inputs []ProductInput) (*ImportResult, error) {
	if len(inputs) == 0 {
		return nil, ErrNothingToImport
	}

	batch := make([]*domain.Product, 0, len(inputs))
	for _, input := range inputs {
		if err := validateProductInput(input); err != nil {
			return nil, fmt.Errorf("invalid import row %q: %w", input.Name, err)
		}
		id := input.ID
		if id == "" {
			id = uuid.New().String()
		}
		batch = append(batch, &domain.Product{
			ID:             id,
			Name:           input.Name,
			Category:       input.Category,
			Price:          input.Price,
			Description:    input.Description,
			ImageURL:       input.ImageURL,
			Specifications: input.Specifications,
			Stock:          input.Stock,
			IsTrashed:      false,
		})
	}

	created, updated, err := s.products.Upsert(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to import products: %w", err)
	}

	s.logger.Info("Products imported", zap.Int("created", created), zap.Int("updated", updated))
	return &ImportResult{Created: created, Updated: updated}, nil
}

func validateProductInput(input ProductInput) error {
	if input.Name == "" {
		return ErrInvalidProductName
	}
	if !domain.ValidCategory(input.Category) {
		return ErrInvalidCategory
	}
	if input.Price < 0 {
		return ErrInvalidPrice
	}
	if input.Stock < 0 {
		return ErrInvalidStock
	}
	return nil
}
