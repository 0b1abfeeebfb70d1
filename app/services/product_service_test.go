package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/services"
	"github.com/beautydb/backoffice/pkg/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newProducts(t *testing.T) (*env, *services.ProductService) {
	t.Helper()
	e := newEnv(t)
	e.seedCatalog(t)
	return e, services.NewProductService(e.gw, e.images, e.bus, 0)
}

func serum() services.ProductInput {
	return services.ProductInput{
		ProductName: "Serum",
		CategoryID:  1,
		Variants:    []services.VariantInput{{Size: "50ml", Price: price(10), StockQuantity: 5}},
		Properties:  []services.PropertyRef{{PropertyID: 1}},
	}
}

func TestProductCreateStoresVariantsAndProperties(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, serum(), nil)
	require.NoError(t, err)
	require.NotZero(t, created.ProductID)

	got, err := svc.GetByID(ctx, created.ProductID)
	require.NoError(t, err)
	require.Len(t, got.Variants, 1)
	assert.Equal(t, "50ml", got.Variants[0].Size)
	assert.Equal(t, 10.0, got.Variants[0].Price)
	assert.Equal(t, 5, got.Variants[0].StockQuantity)
	require.Len(t, got.Properties, 1)
	assert.Equal(t, uint(1), got.Properties[0].PropertyID)
	assert.Equal(t, "Vegan", got.Properties[0].Name)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Skin care", got.Category.CategoryName)
	assert.Nil(t, got.Brand)
	assert.Nil(t, got.ImageURLPrimary)

	assert.Equal(t, int64(1), e.count(t, &models.ProductSize{}))
}

func TestProductCreateCountsMatchSubmission(t *testing.T) {
	_, svc := newProducts(t)
	ctx := context.Background()

	in := serum()
	in.Variants = append(in.Variants,
		services.VariantInput{Size: "100ml", Price: price(18), StockQuantity: 2},
		services.VariantInput{Size: "200ml", Price: price(30), StockQuantity: 0},
	)
	in.Properties = append(in.Properties, services.PropertyRef{PropertyID: 2})

	created, err := svc.Create(ctx, in, nil)
	require.NoError(t, err)
	assert.Len(t, created.Variants, 3)
	assert.Len(t, created.Properties, 2)

	got, err := svc.GetByID(ctx, created.ProductID)
	require.NoError(t, err)
	assert.Len(t, got.Variants, 3)
	assert.Len(t, got.Properties, 2)
}

func TestProductCreateRequiresVariantsAndProperties(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	upload := e.upload(t, imagestore.PrimaryImage, "a.png")

	in := serum()
	in.Variants = nil
	_, err := svc.Create(ctx, in, imagestore.Uploads{imagestore.PrimaryImage: upload})

	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Product sizes are missing", verr.Message)
	assert.Zero(t, e.count(t, &models.Product{}))

	e.images.Wait()
	assert.False(t, e.exists(t, upload), "upload of a rejected create must be discarded")

	in = serum()
	in.Properties = []services.PropertyRef{}
	_, err = svc.Create(ctx, in, nil)
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "Product properties are missing", verr.Message)
	assert.Zero(t, e.count(t, &models.Product{}))
}

func TestProductCreateRollsBackOnUnknownReferences(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	upload := e.upload(t, imagestore.PrimaryImage, "a.png")
	in := serum()
	in.Properties = []services.PropertyRef{{PropertyID: 1}, {PropertyID: 99}}

	_, err := svc.Create(ctx, in, imagestore.Uploads{imagestore.PrimaryImage: upload})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "99")

	assert.Zero(t, e.count(t, &models.Product{}))
	assert.Zero(t, e.count(t, &models.ProductSize{}))
	e.images.Wait()
	assert.False(t, e.exists(t, upload))
}

func TestProductCreateWithImages(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	primary := e.upload(t, imagestore.PrimaryImage, "a.png")
	third := e.upload(t, imagestore.ThirdImage, "c.webp")

	created, err := svc.Create(ctx, serum(), imagestore.Uploads{
		imagestore.PrimaryImage: primary,
		imagestore.ThirdImage:   third,
	})
	require.NoError(t, err)
	require.NotNil(t, created.ImageURLPrimary)
	assert.Equal(t, primary.URL, *created.ImageURLPrimary)
	assert.Nil(t, created.ImageURLSecondary)
	require.NotNil(t, created.ImageURLThird)
	assert.Equal(t, third.URL, *created.ImageURLThird)

	e.images.Wait()
	assert.True(t, e.exists(t, primary))
	assert.True(t, e.exists(t, third))
}

func TestProductEditSwapsImageAndRemovesOldFile(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	old := e.upload(t, imagestore.PrimaryImage, "old.png")
	created, err := svc.Create(ctx, serum(), imagestore.Uploads{imagestore.PrimaryImage: old})
	require.NoError(t, err)

	replacement := e.upload(t, imagestore.PrimaryImage, "new.png")
	edited, err := svc.Edit(ctx, created.ProductID, serum(), imagestore.Uploads{imagestore.PrimaryImage: replacement})
	require.NoError(t, err)
	require.NotNil(t, edited.ImageURLPrimary)
	assert.Equal(t, replacement.URL, *edited.ImageURLPrimary)

	got, err := svc.GetByID(ctx, created.ProductID)
	require.NoError(t, err)
	assert.Equal(t, replacement.URL, *got.ImageURLPrimary)

	e.images.Wait()
	assert.False(t, e.exists(t, old), "superseded file must be removed")
	assert.True(t, e.exists(t, replacement))
}

func TestProductEditKeepsImagesWithoutUpload(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	img := e.upload(t, imagestore.SecondaryImage, "keep.png")
	created, err := svc.Create(ctx, serum(), imagestore.Uploads{imagestore.SecondaryImage: img})
	require.NoError(t, err)

	in := serum()
	in.ProductName = "Serum XL"
	edited, err := svc.Edit(ctx, created.ProductID, in, nil)
	require.NoError(t, err)
	assert.Equal(t, "Serum XL", edited.ProductName)
	require.NotNil(t, edited.ImageURLSecondary)
	assert.Equal(t, img.URL, *edited.ImageURLSecondary)

	e.images.Wait()
	assert.True(t, e.exists(t, img))
}

func TestProductEditWithEmptyVariants(t *testing.T) {
	_, svc := newProducts(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, serum(), nil)
	require.NoError(t, err)

	in := serum()
	in.Variants = []services.VariantInput{}
	_, err = svc.Edit(ctx, created.ProductID, in, nil)
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, created.ProductID)
	require.NoError(t, err)
	assert.Empty(t, got.Variants)
	assert.NotNil(t, got.Variants)
}

func TestProductEditPropertiesOnlyWhenGiven(t *testing.T) {
	_, svc := newProducts(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, serum(), nil)
	require.NoError(t, err)

	in := serum()
	in.Properties = nil
	got, err := svc.Edit(ctx, created.ProductID, in, nil)
	require.NoError(t, err)
	require.Len(t, got.Properties, 1, "absent properties keep the stored links")

	in.Properties = []services.PropertyRef{{PropertyID: 2}}
	got, err = svc.Edit(ctx, created.ProductID, in, nil)
	require.NoError(t, err)
	require.Len(t, got.Properties, 1)
	assert.Equal(t, "Organic", got.Properties[0].Name)

	in.Properties = []services.PropertyRef{}
	got, err = svc.Edit(ctx, created.ProductID, in, nil)
	require.NoError(t, err)
	assert.Empty(t, got.Properties)
}

func TestProductEditMissingWritesNothingAndDiscardsUploads(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	upload := e.upload(t, imagestore.PrimaryImage, "orphan.png")
	_, err := svc.Edit(ctx, 404, serum(), imagestore.Uploads{imagestore.PrimaryImage: upload})
	assert.ErrorIs(t, err, services.ErrNotFound)

	assert.Zero(t, e.count(t, &models.Product{}))
	assert.Zero(t, e.count(t, &models.ProductSize{}))
	assert.Zero(t, e.count(t, &models.ProductProperty{}))

	e.images.Wait()
	assert.False(t, e.exists(t, upload))
}

func TestProductEditFailureKeepsOldFiles(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	old := e.upload(t, imagestore.PrimaryImage, "old.png")
	created, err := svc.Create(ctx, serum(), imagestore.Uploads{imagestore.PrimaryImage: old})
	require.NoError(t, err)

	replacement := e.upload(t, imagestore.PrimaryImage, "new.png")
	in := serum()
	in.CategoryID = 42
	_, err = svc.Edit(ctx, created.ProductID, in, imagestore.Uploads{imagestore.PrimaryImage: replacement})
	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))

	got, err := svc.GetByID(ctx, created.ProductID)
	require.NoError(t, err)
	assert.Equal(t, old.URL, *got.ImageURLPrimary)
	assert.Len(t, got.Variants, 1)

	e.images.Wait()
	assert.True(t, e.exists(t, old))
	assert.False(t, e.exists(t, replacement))
}

func TestProductEditRollsBackWhenChildInsertFails(t *testing.T) {
	for _, table := range []string{"product_sizes", "product_properties"} {
		t.Run(table, func(t *testing.T) {
			e, svc := newProducts(t)
			ctx := context.Background()

			old := e.upload(t, imagestore.PrimaryImage, "old.png")
			created, err := svc.Create(ctx, serum(), imagestore.Uploads{imagestore.PrimaryImage: old})
			require.NoError(t, err)

			failing := false
			require.NoError(t, e.db.Callback().Create().Before("gorm:create").Register("test:fail_"+table, func(tx *gorm.DB) {
				if failing && tx.Statement.Table == table {
					_ = tx.AddError(errors.New("insert failed"))
				}
			}))
			failing = true

			replacement := e.upload(t, imagestore.PrimaryImage, "new.png")
			in := serum()
			in.ProductName = "Renamed"
			in.Variants = []services.VariantInput{
				{Size: "10ml", Price: price(3), StockQuantity: 9},
				{Size: "20ml", Price: price(5), StockQuantity: 9},
			}
			in.Properties = []services.PropertyRef{{PropertyID: 2}}
			_, err = svc.Edit(ctx, created.ProductID, in, imagestore.Uploads{imagestore.PrimaryImage: replacement})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "insert failed")
			failing = false

			got, err := svc.GetByID(ctx, created.ProductID)
			require.NoError(t, err)
			assert.Equal(t, "Serum", got.ProductName)
			assert.Equal(t, old.URL, *got.ImageURLPrimary)
			require.Len(t, got.Variants, 1)
			assert.Equal(t, created.Variants[0].SizeID, got.Variants[0].SizeID)
			assert.Equal(t, "50ml", got.Variants[0].Size)
			assert.Equal(t, 5, got.Variants[0].StockQuantity)
			require.Len(t, got.Properties, 1)
			assert.Equal(t, uint(1), got.Properties[0].PropertyID)

			e.images.Wait()
			assert.True(t, e.exists(t, old))
			assert.False(t, e.exists(t, replacement))
		})
	}
}

func TestProductDelete(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	img := e.upload(t, imagestore.PrimaryImage, "a.png")
	created, err := svc.Create(ctx, serum(), imagestore.Uploads{imagestore.PrimaryImage: img})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ProductID))

	_, err = svc.GetByID(ctx, created.ProductID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Zero(t, e.count(t, &models.ProductSize{}))
	assert.Zero(t, e.count(t, &models.ProductProperty{}))

	e.images.Wait()
	assert.False(t, e.exists(t, img))

	assert.ErrorIs(t, svc.Delete(ctx, created.ProductID), services.ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ProductID), services.ErrNotFound)
}

func TestProductDeleteToleratesMissingFiles(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	img := e.upload(t, imagestore.PrimaryImage, "a.png")
	created, err := svc.Create(ctx, serum(), imagestore.Uploads{imagestore.PrimaryImage: img})
	require.NoError(t, err)
	require.NoError(t, e.images.Disk().Delete(ctx, img.Key))

	assert.NoError(t, svc.Delete(ctx, created.ProductID))
	e.images.Wait()
}

func TestProductListShapes(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	first, err := svc.Create(ctx, serum(), nil)
	require.NoError(t, err)

	brand := uint(1)
	featured := serum()
	featured.ProductName = "Cream"
	featured.Featured = true
	featured.BrandID = &brand
	second, err := svc.Create(ctx, featured, nil)
	require.NoError(t, err)

	// A product whose children were removed out of band still lists with
	// empty arrays.
	require.NoError(t, e.db.Where("product_id = ?", first.ProductID).Delete(&models.ProductSize{}).Error)
	require.NoError(t, e.db.Where("product_id = ?", first.ProductID).Delete(&models.ProductProperty{}).Error)

	list, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ProductID, list[0].ProductID)
	assert.Equal(t, second.ProductID, list[1].ProductID)
	require.NotNil(t, list[1].Brand)
	assert.Equal(t, "Acme", list[1].Brand.BrandName)

	raw, err := json.Marshal(list[0])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"variants":[]`)
	assert.Contains(t, string(raw), `"properties":[]`)
	assert.Contains(t, string(raw), `"brand":null`)

	featuredList, err := svc.ListFeatured(ctx)
	require.NoError(t, err)
	require.Len(t, featuredList, 1)
	assert.Equal(t, "Cream", featuredList[0].ProductName)
	assert.Len(t, featuredList[0].Properties, 1)
}

func TestProductWritesFireEvents(t *testing.T) {
	e, svc := newProducts(t)
	ctx := context.Background()

	var ops []string
	e.bus.Listen(func(_ context.Context, ev event.Event) { ops = append(ops, ev.Op) }, event.ProductChanged)

	created, err := svc.Create(ctx, serum(), nil)
	require.NoError(t, err)
	_, err = svc.Edit(ctx, created.ProductID, serum(), nil)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ProductID))
	_ = svc.Delete(ctx, created.ProductID)

	assert.Equal(t, []string{event.OpCreate, event.OpUpdate, event.OpDelete}, ops)
}
