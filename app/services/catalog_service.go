package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/app/repositories"
	"github.com/beautydb/backoffice/pkg/database"
	"github.com/beautydb/backoffice/pkg/event"
	"github.com/beautydb/backoffice/pkg/metrics"
	"gorm.io/gorm"
)

// CategoryInput is the payload of category create and edit.
type CategoryInput struct {
	CategoryName     string `json:"category_name"`
	ParentCategoryID *uint  `json:"parent_category_id"`
}

func (in CategoryInput) model(id uint) models.Category {
	c := models.Category{CategoryID: id, CategoryName: strings.TrimSpace(in.CategoryName), ParentCategoryID: in.ParentCategoryID}
	if c.ParentCategoryID != nil && *c.ParentCategoryID == 0 {
		c.ParentCategoryID = nil
	}
	return c
}

// NamedInput is the payload of the name-only lookups: service categories,
// brands and properties.
type NamedInput struct {
	Name string `json:"name" validate:"required,max=255"`
}

// CatalogService manages the lookup tables products and services point at.
type CatalogService struct {
	db                database.Gateway
	events            *event.Bus
	categories        *repositories.CategoryRepository
	serviceCategories *repositories.ServiceCategoryRepository
	brands            *repositories.BrandRepository
	properties        *repositories.PropertyRepository
}

func NewCatalogService(db database.Gateway, events *event.Bus) *CatalogService {
	return &CatalogService{
		db:                db,
		events:            events,
		categories:        repositories.NewCategoryRepository(),
		serviceCategories: repositories.NewServiceCategoryRepository(),
		brands:            repositories.NewBrandRepository(),
		properties:        repositories.NewPropertyRepository(),
	}
}

func (s *CatalogService) changed(ctx context.Context, name event.Name, op string, id uint) {
	s.events.Fire(ctx, event.Event{Name: name, Op: op, ID: id})
}

// ─── Categories ──────────────────────────────────────────────────────────────

func (s *CatalogService) Categories(ctx context.Context) ([]models.Category, error) {
	return s.categories.All(s.db.DB(ctx))
}

func (s *CatalogService) Category(ctx context.Context, id uint) (models.Category, error) {
	return s.categories.Find(s.db.DB(ctx), id)
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (models.Category, error) {
	c := in.model(0)
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.checkCategory(tx, 0, c); err != nil {
			return err
		}
		return s.categories.Create(tx, &c)
	})
	metrics.RecordWrite("category", "create", err)
	if err != nil {
		return models.Category{}, err
	}
	s.changed(ctx, event.CategoryChanged, event.OpCreate, c.CategoryID)
	return c, nil
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryInput) (models.Category, error) {
	c := in.model(id)
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.categories.Find(tx, id); err != nil {
			return err
		}
		if err := s.checkCategory(tx, id, c); err != nil {
			return err
		}
		return s.categories.Update(tx, id, map[string]any{
			"category_name":      c.CategoryName,
			"parent_category_id": c.ParentCategoryID,
		})
	})
	metrics.RecordWrite("category", "edit", err)
	if err != nil {
		return models.Category{}, err
	}
	s.changed(ctx, event.CategoryChanged, event.OpUpdate, id)
	return c, nil
}

// DeleteCategory removes category id. Its sub-categories become roots.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) error {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.categories.Find(tx, id); err != nil {
			return err
		}
		var inUse int64
		if err := tx.Model(&models.Product{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return invalid("Category is used by %d products", inUse)
		}
		if err := s.categories.Detach(tx, id); err != nil {
			return err
		}
		return s.categories.Delete(tx, id)
	})
	metrics.RecordWrite("category", "delete", err)
	if err != nil {
		return err
	}
	s.changed(ctx, event.CategoryChanged, event.OpDelete, id)
	return nil
}

// checkCategory validates the name and the parent link of c. The parent
// must exist and must not be c itself or one of its descendants.
func (s *CatalogService) checkCategory(tx *gorm.DB, id uint, c models.Category) error {
	if c.CategoryName == "" {
		return invalid("Category name is required")
	}
	if c.ParentCategoryID == nil {
		return nil
	}

	parent := *c.ParentCategoryID
	visited := map[uint]bool{}
	for cur := parent; ; {
		if cur == id {
			return invalid("Category cannot be its own ancestor")
		}
		if visited[cur] {
			return nil
		}
		visited[cur] = true

		p, err := s.categories.Find(tx, cur)
		if errors.Is(err, repositories.ErrNotFound) {
			if cur == parent {
				return invalid("Parent category %d does not exist", parent)
			}
			return nil
		}
		if err != nil {
			return err
		}
		if p.ParentCategoryID == nil {
			return nil
		}
		cur = *p.ParentCategoryID
	}
}

// ─── Service categories ──────────────────────────────────────────────────────

func (s *CatalogService) ServiceCategories(ctx context.Context) ([]models.ServiceCategory, error) {
	return s.serviceCategories.All(s.db.DB(ctx))
}

func (s *CatalogService) CreateServiceCategory(ctx context.Context, in NamedInput) (models.ServiceCategory, error) {
	c := models.ServiceCategory{Name: in.Name}
	err := s.serviceCategories.Create(s.db.DB(ctx), &c)
	metrics.RecordWrite("service_category", "create", err)
	if err != nil {
		return models.ServiceCategory{}, fmt.Errorf("insert service category: %w", err)
	}
	return c, nil
}

func (s *CatalogService) UpdateServiceCategory(ctx context.Context, id uint, in NamedInput) (models.ServiceCategory, error) {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.serviceCategories.Find(tx, id); err != nil {
			return err
		}
		return s.serviceCategories.Update(tx, id, map[string]any{"name": in.Name})
	})
	metrics.RecordWrite("service_category", "edit", err)
	if err != nil {
		return models.ServiceCategory{}, err
	}
	return models.ServiceCategory{ServiceCategoryID: id, Name: in.Name}, nil
}

func (s *CatalogService) DeleteServiceCategory(ctx context.Context, id uint) error {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&models.Service{}).Where("category_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return invalid("Service category is used by %d services", inUse)
		}
		return s.serviceCategories.Delete(tx, id)
	})
	metrics.RecordWrite("service_category", "delete", err)
	return err
}

// ─── Brands ──────────────────────────────────────────────────────────────────

func (s *CatalogService) Brands(ctx context.Context) ([]models.Brand, error) {
	return s.brands.All(s.db.DB(ctx))
}

func (s *CatalogService) CreateBrand(ctx context.Context, in NamedInput) (models.Brand, error) {
	b := models.Brand{BrandName: in.Name}
	err := s.brands.Create(s.db.DB(ctx), &b)
	metrics.RecordWrite("brand", "create", err)
	if err != nil {
		return models.Brand{}, fmt.Errorf("insert brand: %w", err)
	}
	s.changed(ctx, event.BrandChanged, event.OpCreate, b.BrandID)
	return b, nil
}

func (s *CatalogService) UpdateBrand(ctx context.Context, id uint, in NamedInput) (models.Brand, error) {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.brands.Find(tx, id); err != nil {
			return err
		}
		return s.brands.Update(tx, id, map[string]any{"brand_name": in.Name})
	})
	metrics.RecordWrite("brand", "edit", err)
	if err != nil {
		return models.Brand{}, err
	}
	s.changed(ctx, event.BrandChanged, event.OpUpdate, id)
	return models.Brand{BrandID: id, BrandName: in.Name}, nil
}

// DeleteBrand removes brand id and unsets it on its products.
func (s *CatalogService) DeleteBrand(ctx context.Context, id uint) error {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Product{}).Where("brand_id = ?", id).Update("brand_id", nil).Error; err != nil {
			return err
		}
		return s.brands.Delete(tx, id)
	})
	metrics.RecordWrite("brand", "delete", err)
	if err != nil {
		return err
	}
	s.changed(ctx, event.BrandChanged, event.OpDelete, id)
	return nil
}

// ─── Properties ──────────────────────────────────────────────────────────────

func (s *CatalogService) Properties(ctx context.Context) ([]models.Property, error) {
	return s.properties.All(s.db.DB(ctx))
}

func (s *CatalogService) CreateProperty(ctx context.Context, in NamedInput) (models.Property, error) {
	p := models.Property{Name: in.Name}
	err := s.properties.Create(s.db.DB(ctx), &p)
	metrics.RecordWrite("property", "create", err)
	if err != nil {
		return models.Property{}, fmt.Errorf("insert property: %w", err)
	}
	s.changed(ctx, event.PropertyChanged, event.OpCreate, p.PropertyID)
	return p, nil
}

func (s *CatalogService) UpdateProperty(ctx context.Context, id uint, in NamedInput) (models.Property, error) {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.properties.Find(tx, id); err != nil {
			return err
		}
		return s.properties.Update(tx, id, map[string]any{"name": in.Name})
	})
	metrics.RecordWrite("property", "edit", err)
	if err != nil {
		return models.Property{}, err
	}
	s.changed(ctx, event.PropertyChanged, event.OpUpdate, id)
	return models.Property{PropertyID: id, Name: in.Name}, nil
}

// DeleteProperty removes property id and its product links.
func (s *CatalogService) DeleteProperty(ctx context.Context, id uint) error {
	err := s.db.Transaction(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&models.ProductProperty{}).Error; err != nil {
			return err
		}
		return s.properties.Delete(tx, id)
	})
	metrics.RecordWrite("property", "delete", err)
	if err != nil {
		return err
	}
	s.changed(ctx, event.PropertyChanged, event.OpDelete, id)
	return nil
}
