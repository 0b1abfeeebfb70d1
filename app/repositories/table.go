package repositories

import (
	"github.com/beautydb/backoffice/app/models"
	"gorm.io/gorm"
)

// Table is plain CRUD on one model keyed by a single integer column.
type Table[T any] struct {
	pk string
}

func (t Table[T]) Find(db *gorm.DB, id uint) (T, error) {
	var row T
	err := first(db, &row, t.pk+" = ?", id)
	return row, err
}

// All returns every row ordered by the primary key.
func (t Table[T]) All(db *gorm.DB) ([]T, error) {
	rows := []T{}
	err := db.Order(t.pk).Find(&rows).Error
	return rows, err
}

func (t Table[T]) Create(db *gorm.DB, row *T) error {
	return db.Create(row).Error
}

// Update sets columns on the row with identity id.
func (t Table[T]) Update(db *gorm.DB, id uint, columns map[string]any) error {
	var zero T
	return db.Model(&zero).Where(t.pk+" = ?", id).Updates(columns).Error
}

// Delete removes the row, reporting ErrNotFound when it did not exist.
func (t Table[T]) Delete(db *gorm.DB, id uint) error {
	var zero T
	return deleted(db.Where(t.pk+" = ?", id).Delete(&zero))
}

type (
	CategoryRepository        struct{ Table[models.Category] }
	ServiceCategoryRepository struct{ Table[models.ServiceCategory] }
	BrandRepository           struct{ Table[models.Brand] }
	PropertyRepository        struct{ Table[models.Property] }
)

func NewCategoryRepository() *CategoryRepository {
	return &CategoryRepository{Table[models.Category]{pk: "category_id"}}
}

func NewServiceCategoryRepository() *ServiceCategoryRepository {
	return &ServiceCategoryRepository{Table[models.ServiceCategory]{pk: "service_category_id"}}
}

func NewBrandRepository() *BrandRepository {
	return &BrandRepository{Table[models.Brand]{pk: "brand_id"}}
}

func NewPropertyRepository() *PropertyRepository {
	return &PropertyRepository{Table[models.Property]{pk: "property_id"}}
}

// Children returns the direct sub-categories of id.
func (r *CategoryRepository) Children(db *gorm.DB, id uint) ([]models.Category, error) {
	rows := []models.Category{}
	err := db.Where("parent_category_id = ?", id).Order("category_id").Find(&rows).Error
	return rows, err
}

// Detach clears parent_category_id on the direct children of id.
func (r *CategoryRepository) Detach(db *gorm.DB, id uint) error {
	return db.Model(&models.Category{}).Where("parent_category_id = ?", id).Update("parent_category_id", nil).Error
}

// Missing returns the ids in ids that have no property row.
func (r *PropertyRepository) Missing(db *gorm.DB, ids []uint) ([]uint, error) {
	ids = uniq(ids)
	if len(ids) == 0 {
		return nil, nil
	}
	var found []uint
	if err := db.Model(&models.Property{}).Where("property_id IN ?", ids).Pluck("property_id", &found).Error; err != nil {
		return nil, err
	}
	have := make(map[uint]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	var missing []uint
	for _, id := range ids {
		if !have[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
