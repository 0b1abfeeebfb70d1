package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/beautydb/backoffice/app/imagestore"
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/repositories"
	"github.com/beautydb/backoffice/pkg/cache"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/event"
	"gorm.io/gorm"
)

const (
	productsCacheKey = "products:all"
	featuredCacheKey = "products:featured"
)

// VariantInput is one submitted size of a product.
type VariantInput struct {
	Size          string   `json:"size"           validate:"required,max=100"`
	Price         *float64 `json:"price"          validate:"required,gte=0"`
	StockQuantity int      `json:"stock_quantity" validate:"gte=0"`
}

// PropertyRef links a product to an existing property.
type PropertyRef struct {
	PropertyID uint `json:"property_id" validate:"required"`
}

// ProductInput is the payload of product create and edit. A nil Properties
// slice on edit keeps the stored links.
type ProductInput struct {
	ProductName   string         `json:"product_name"   validate:"required,max=255"`
	Description   string         `json:"description"`
	UsageProducts string         `json:"usage_products"`
	Ingredients   string         `json:"ingredients"`
	Featured      bool           `json:"featured"`
	CategoryID    uint           `json:"category_id"    validate:"required"`
	BrandID       *uint          `json:"brand_id"`
	Variants      []VariantInput `json:"variants"       validate:"dive"`
	Properties    []PropertyRef  `json:"properties"     validate:"dive"`
}

func (in ProductInput) applyTo(p *models.Product) {
	p.ProductName = in.ProductName
	p.Description = in.Description
	p.UsageProducts = in.UsageProducts
	p.Ingredients = in.Ingredients
	p.Featured = in.Featured
	p.CategoryID = in.CategoryID
	p.BrandID = in.BrandID
	if p.BrandID != nil && *p.BrandID == 0 {
		p.BrandID = nil
	}
}

func (in ProductInput) sizes() []models.ProductSize {
	out := make([]models.ProductSize, len(in.Variants))
	for i, v := range in.Variants {
		out[i] = models.ProductSize{Size: v.Size, StockQuantity: v.StockQuantity}
		if v.Price != nil {
			out[i].Price = *v.Price
		}
	}
	return out
}

func (in ProductInput) propertyIDs() []uint {
	out := make([]uint, len(in.Properties))
	for i, p := range in.Properties {
		out[i] = p.PropertyID
	}
	return out
}

func productSlots(p *models.Product) []imageSlot {
	return []imageSlot{
		{imagestore.PrimaryImage, &p.ImageURLPrimary},
		{imagestore.SecondaryImage, &p.ImageURLSecondary},
		{imagestore.ThirdImage, &p.ImageURLThird},
	}
}

// ProductService writes and reads the product aggregate: the product row,
// its variants, its property links and up to three images.
type ProductService struct {
	db         database.Gateway
	images     *imagestore.Store
	events     *event.Bus
	cacheTTL   time.Duration
	products   *repositories.ProductRepository
	categories *repositories.CategoryRepository
	brands     *repositories.BrandRepository
	properties *repositories.PropertyRepository
}

func NewProductService(db database.Gateway, images *imagestore.Store, events *event.Bus, cacheTTL time.Duration) *ProductService {
	s := &ProductService{
		db:         db,
		images:     images,
		events:     events,
		cacheTTL:   cacheTTL,
		products:   repositories.NewProductRepository(),
		categories: repositories.NewCategoryRepository(),
		brands:     repositories.NewBrandRepository(),
		properties: repositories.NewPropertyRepository(),
	}
	if events != nil {
		events.Listen(s.forgetLists, event.ProductChanged, event.CategoryChanged, event.BrandChanged, event.PropertyChanged, event.OrderPlaced)
	}
	return s
}

func (s *ProductService) forgetLists(ctx context.Context, _ event.Event) {
	_ = cache.Forget(ctx, productsCacheKey, featuredCacheKey)
}

// Create inserts a product with its variants and property links. uploads are
// owned by the call: they are discarded when it fails.
func (s *ProductService) Create(ctx context.Context, in ProductInput, uploads imagestore.Uploads) (models.ProductDetail, error) {
	plan := newImagePlan(s.images, uploads)

	var detail models.ProductDetail
	err := s.create(ctx, in, plan, &detail)
	plan.settle(ctx, "product", "create", err)
	if err != nil {
		return models.ProductDetail{}, err
	}

	s.events.Fire(ctx, event.Event{Name: event.ProductChanged, Op: event.OpCreate, ID: detail.ProductID})
	return detail, nil
}

func (s *ProductService) create(ctx context.Context, in ProductInput, plan *imagePlan, detail *models.ProductDetail) error {
	if len(in.Variants) == 0 {
		return invalid("Product sizes are missing")
	}
	if len(in.Properties) == 0 {
		return invalid("Product properties are missing")
	}

	return s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.checkRefs(tx, in); err != nil {
			return err
		}

		var p models.Product
		in.applyTo(&p)
		plan.apply(productSlots(&p)...)

		if err := s.products.Create(tx, &p); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}
		if err := s.products.ReplaceVariants(tx, p.ProductID, in.sizes()); err != nil {
			return fmt.Errorf("insert variants: %w", err)
		}
		if err := s.products.ReplaceProperties(tx, p.ProductID, in.propertyIDs()); err != nil {
			return fmt.Errorf("insert properties: %w", err)
		}

		d, err := s.products.Detail(tx, p.ProductID)
		*detail = d
		return err
	})
}

// Edit replaces the attributes, variants and (when given) property links of
// product id. Images with a new upload are swapped; the old files are
// deleted after commit.
func (s *ProductService) Edit(ctx context.Context, id uint, in ProductInput, uploads imagestore.Uploads) (models.ProductDetail, error) {
	plan := newImagePlan(s.images, uploads)

	var detail models.ProductDetail
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		p, err := s.products.Find(tx, id)
		if err != nil {
			return err
		}
		if err := s.checkRefs(tx, in); err != nil {
			return err
		}

		in.applyTo(&p)
		plan.apply(productSlots(&p)...)

		if err := s.products.Update(tx, &p); err != nil {
			return fmt.Errorf("update product %d: %w", id, err)
		}
		if err := s.products.ReplaceVariants(tx, id, in.sizes()); err != nil {
			return fmt.Errorf("replace variants of %d: %w", id, err)
		}
		if in.Properties != nil {
			if err := s.products.ReplaceProperties(tx, id, in.propertyIDs()); err != nil {
				return fmt.Errorf("replace properties of %d: %w", id, err)
			}
		}

		detail, err = s.products.Detail(tx, id)
		return err
	})
	plan.settle(ctx, "product", "edit", err)
	if err != nil {
		return models.ProductDetail{}, err
	}

	s.events.Fire(ctx, event.Event{Name: event.ProductChanged, Op: event.OpUpdate, ID: id})
	return detail, nil
}

// Delete removes product id with its children, then its image files.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	plan := newImagePlan(s.images, nil)

	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		p, err := s.products.Find(tx, id)
		if err != nil {
			return err
		}
		if err := s.products.Delete(tx, id); err != nil {
			return fmt.Errorf("delete product %d: %w", id, err)
		}
		plan.release(p.ImageURLs()...)
		return nil
	})
	plan.settle(ctx, "product", "delete", err)
	if err != nil {
		return err
	}

	s.events.Fire(ctx, event.Event{Name: event.ProductChanged, Op: event.OpDelete, ID: id})
	return nil
}

func (s *ProductService) checkRefs(tx *gorm.DB, in ProductInput) error {
	if _, err := s.categories.Find(tx, in.CategoryID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return invalid("Category %d does not exist", in.CategoryID)
		}
		return err
	}
	if in.BrandID != nil && *in.BrandID != 0 {
		if _, err := s.brands.Find(tx, *in.BrandID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return invalid("Brand %d does not exist", *in.BrandID)
			}
			return err
		}
	}
	missing, err := s.properties.Missing(tx, in.propertyIDs())
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return invalid("Unknown properties: %s", joinIDs(missing))
	}
	return nil
}

// List returns every product with its category, brand, variants and
// properties.
func (s *ProductService) List(ctx context.Context) ([]models.ProductDetail, error) {
	return cache.Remember(ctx, productsCacheKey, s.cacheTTL, func() ([]models.ProductDetail, error) {
		return s.products.Details(s.db.DB(ctx), false)
	})
}

// ListFeatured is List restricted to featured products.
func (s *ProductService) ListFeatured(ctx context.Context) ([]models.ProductDetail, error) {
	return cache.Remember(ctx, featuredCacheKey, s.cacheTTL, func() ([]models.ProductDetail, error) {
		return s.products.Details(s.db.DB(ctx), true)
	})
}

// GetByID returns one product aggregate or ErrNotFound.
func (s *ProductService) GetByID(ctx context.Context, id uint) (models.ProductDetail, error) {
	return s.products.Detail(s.db.DB(ctx), id)
}
