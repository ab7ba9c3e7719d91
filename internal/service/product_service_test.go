package service

import (
	"context"
	"testing"

	"b2b-catalog/internal/domain"
	"b2b-catalog/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProductService(f *fixture) ProductService {
	return NewProductService(f.products, zap.NewNop())
}

func TestProductCreateValidation(t *testing.T) {
	f := newFixture(t)
	service := newProductService(f)
	ctx := context.Background()

	cases := []struct {
		name  string
		input ProductInput
		want  error
	}{
		{"missing name", ProductInput{Category: domain.CategoryHardware, Price: 1, Stock: 1}, ErrInvalidProductName},
		{"unknown category", ProductInput{Name: "X", Category: "Groceries", Price: 1, Stock: 1}, ErrInvalidCategory},
		{"negative price", ProductInput{Name: "X", Category: domain.CategoryHardware, Price: -1, Stock: 1}, ErrInvalidPrice},
		{"negative stock", ProductInput{Name: "X", Category: domain.CategoryHardware, Price: 1, Stock: -1}, ErrInvalidStock},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.Create(ctx, tc.input)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestProductCreatePrependsToCatalog(t *testing.T) {
	f := newFixture(t)
	service := newProductService(f)
	ctx := context.Background()

	created, err := service.Create(ctx, ProductInput{
		Name:     "Fresh Arrival",
		Category: domain.CategoryElectronics,
		Price:    199.99,
		Stock:    3,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	all := f.products.All()
	require.NotEmpty(t, all)
	assert.Equal(t, created.ID, all[0].ID, "new products go to the head of the list")
}

func TestProductTrashLifecycle(t *testing.T) {
	f := newFixture(t)
	service := newProductService(f)
	ctx := context.Background()

	p := f.addProduct(t, "prod-life", 10, 5)

	t.Run("restore requires trash", func(t *testing.T) {
		assert.ErrorIs(t, service.Restore(ctx, p.ID), ErrProductNotInTrash)
	})

	t.Run("permanent delete requires trash", func(t *testing.T) {
		assert.ErrorIs(t, service.PermanentDelete(ctx, p.ID), ErrProductNotInTrash)
	})

	require.NoError(t, service.SoftDelete(ctx, p.ID))

	managed := service.ListManaged()
	for _, m := range managed {
		assert.NotEqual(t, p.ID, m.ID, "trashed products leave the management view")
	}
	require.Len(t, service.ListTrash(), 1)

	require.NoError(t, service.Restore(ctx, p.ID))
	assert.Empty(t, service.ListTrash())

	require.NoError(t, service.SoftDelete(ctx, p.ID))
	require.NoError(t, service.PermanentDelete(ctx, p.ID))
	_, err := f.products.FindByID(p.ID)
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestProductUpdatePreservesIDAndTrashFlag(t *testing.T) {
	f := newFixture(t)
	service := newProductService(f)
	ctx := context.Background()

	p := f.addProduct(t, "prod-edit", 10, 5)
	require.NoError(t, service.SoftDelete(ctx, p.ID))

	updated, err := service.Update(ctx, p.ID, ProductInput{
		Name:     "Edited While Trashed",
		Category: domain.CategoryServices,
		Price:    42,
		Stock:    1,
	})
	require.NoError(t, err)

	assert.Equal(t, p.ID, updated.ID)
	assert.True(t, updated.IsTrashed, "editing must not resurrect a trashed product")
	assert.Equal(t, "Edited While Trashed", updated.Name)
}

func TestProductEmptyTrashReportsCount(t *testing.T) {
	f := newFixture(t)
	service := newProductService(f)
	ctx := context.Background()

	a := f.addProduct(t, "prod-trash-a", 10, 5)
	b := f.addProduct(t, "prod-trash-b", 10, 5)
	f.addProduct(t, "prod-survivor", 10, 5)

	require.NoError(t, service.SoftDelete(ctx, a.ID))
	require.NoError(t, service.SoftDelete(ctx, b.ID))

	removed, err := service.EmptyTrash(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	_, err = f.products.FindByID("prod-survivor")
	assert.NoError(t, err)
}

func TestProductImportUpsertsByIDOrName(t *testing.T) {
	f := newFixture(t)
	service := newProductService(f)
	ctx := context.Background()

	existing := f.addProduct(t, "prod-import", 10, 5)

	result, err := service.Import(ctx, []ProductInput{
		{ID: existing.ID, Name: "Renamed Via Import", Category: domain.CategoryHardware, Price: 20, Stock: 8},
		{Name: "Brand New Import", Category: domain.CategorySoftware, Price: 30, Stock: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Created)
	assert.Equal(t, 1, result.Updated)

	updated, err := f.products.FindByID(existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed Via Import", updated.Name)

	_, err = service.Import(ctx, nil)
	assert.ErrorIs(t, err, ErrNothingToImport)
}

func TestProductImportRejectsInvalidRows(t *testing.T) {
	f := newFixture(t)
	service := newProductService(f)
	ctx := context.Background()

	before := len(f.products.All())

	_, err := service.Import(ctx, []ProductInput{
		{Name: "Good Row", Category: domain.CategoryHardware, Price: 1, Stock: 1},
		{Name: "", Category: domain.CategoryHardware, Price: 1, Stock: 1},
	})
	assert.ErrorIs(t, err, ErrInvalidProductName)
	assert.Len(t, f.products.All(), before, "a failed import writes nothing")
}
