package seeders

import (
	"github.com/beautydb/backoffice/app/models"
	"gorm.io/gorm"
)

func init() {
	Register("catalog", SeedCatalog)
}

var (
	baseCategories        = []string{"Skin Care", "Hair Care", "Makeup", "Fragrance"}
	baseBrands            = []string{"House Brand"}
	baseProperties        = []string{"Vegan", "Organic", "Cruelty Free", "Fragrance Free"}
	baseServiceCategories = []string{"Facials", "Massage", "Nails"}
)

// SeedCatalog inserts the top level categories, brands, properties and
// service categories that are missing.
func SeedCatalog(db *gorm.DB) error {
	for _, name := range baseCategories {
		var c models.Category
		if err := db.Where("category_name = ? AND parent_category_id IS NULL", name).
			FirstOrCreate(&c, models.Category{CategoryName: name}).Error; err != nil {
			return err
		}
	}
	for _, name := range baseBrands {
		var b models.Brand
		if err := db.Where(models.Brand{BrandName: name}).FirstOrCreate(&b).Error; err != nil {
			return err
		}
	}
	for _, name := range baseProperties {
		var p models.Property
		if err := db.Where(models.Property{Name: name}).FirstOrCreate(&p).Error; err != nil {
			return err
		}
	}
	for _, name := range baseServiceCategories {
		var sc models.ServiceCategory
		if err := db.Where(models.ServiceCategory{Name: name}).FirstOrCreate(&sc).Error; err != nil {
			return err
		}
	}
	return nil
}
