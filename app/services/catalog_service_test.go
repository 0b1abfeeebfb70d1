package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryTree(t *testing.T) {
	e := newEnv(t)
	svc := services.NewCatalogService(e.gw, e.bus)
	ctx := context.Background()

	_, err := svc.CreateCategory(ctx, services.CategoryInput{CategoryName: "  "})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Category name is required", verr.Message)

	root, err := svc.CreateCategory(ctx, services.CategoryInput{CategoryName: "Hair"})
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, services.CategoryInput{CategoryName: "Shampoo", ParentCategoryID: &root.CategoryID})
	require.NoError(t, err)

	missing := uint(99)
	_, err = svc.CreateCategory(ctx, services.CategoryInput{CategoryName: "Orphan", ParentCategoryID: &missing})
	require.True(t, errors.As(err, &verr))

	_, err = svc.UpdateCategory(ctx, root.CategoryID, services.CategoryInput{CategoryName: "Hair", ParentCategoryID: &child.CategoryID})
	require.True(t, errors.As(err, &verr), "a category cannot move below its own child")

	require.NoError(t, svc.DeleteCategory(ctx, root.CategoryID))
	got, err := svc.Category(ctx, child.CategoryID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentCategoryID)

	assert.ErrorIs(t, svc.DeleteCategory(ctx, root.CategoryID), services.ErrNotFound)
	_, err = svc.UpdateCategory(ctx, root.CategoryID, services.CategoryInput{CategoryName: "x"})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestCategoryInUseCannotBeDeleted(t *testing.T) {
	e := newEnv(t)
	e.seedCatalog(t)
	ctx := context.Background()

	_, err := services.NewProductService(e.gw, e.images, e.bus, 0).Create(ctx, serum(), nil)
	require.NoError(t, err)

	err = services.NewCatalogService(e.gw, e.bus).DeleteCategory(ctx, 1)
	var verr *services.ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestBrandAndPropertyDeletionDetachProducts(t *testing.T) {
	e := newEnv(t)
	e.seedCatalog(t)
	ctx := context.Background()
	products := services.NewProductService(e.gw, e.images, e.bus, 0)
	catalog := services.NewCatalogService(e.gw, e.bus)

	brand := uint(1)
	in := serum()
	in.BrandID = &brand
	p, err := products.Create(ctx, in, nil)
	require.NoError(t, err)
	require.NotNil(t, p.Brand)

	require.NoError(t, catalog.DeleteBrand(ctx, 1))
	require.NoError(t, catalog.DeleteProperty(ctx, 1))

	got, err := products.GetByID(ctx, p.ProductID)
	require.NoError(t, err)
	assert.Nil(t, got.BrandID)
	assert.Nil(t, got.Brand)
	assert.Empty(t, got.Properties)

	assert.ErrorIs(t, catalog.DeleteBrand(ctx, 1), services.ErrNotFound)
}

func TestNamedLookups(t *testing.T) {
	e := newEnv(t)
	svc := services.NewCatalogService(e.gw, e.bus)
	ctx := context.Background()

	sc, err := svc.CreateServiceCategory(ctx, services.NamedInput{Name: "Body"})
	require.NoError(t, err)
	sc, err = svc.UpdateServiceCategory(ctx, sc.ServiceCategoryID, services.NamedInput{Name: "Body care"})
	require.NoError(t, err)
	assert.Equal(t, "Body care", sc.Name)

	b, err := svc.CreateBrand(ctx, services.NamedInput{Name: "Acme"})
	require.NoError(t, err)
	_, err = svc.UpdateBrand(ctx, b.BrandID, services.NamedInput{Name: "Acme Labs"})
	require.NoError(t, err)

	p, err := svc.CreateProperty(ctx, services.NamedInput{Name: "Vegan"})
	require.NoError(t, err)
	_, err = svc.UpdateProperty(ctx, p.PropertyID+10, services.NamedInput{Name: "x"})
	assert.ErrorIs(t, err, services.ErrNotFound)

	brands, err := svc.Brands(ctx)
	require.NoError(t, err)
	require.Len(t, brands, 1)
	assert.Equal(t, "Acme Labs", brands[0].BrandName)

	require.NoError(t, svc.DeleteServiceCategory(ctx, sc.ServiceCategoryID))
	assert.ErrorIs(t, svc.DeleteServiceCategory(ctx, sc.ServiceCategoryID), services.ErrNotFound)

	list, err := svc.ServiceCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.ServiceCategory{}, list)
}
