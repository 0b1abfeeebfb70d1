package migrations

import (
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000000_create_catalog_tables", createCatalogTables{})
	migration.Register("20260101000001_create_products_tables", createProductsTables{})
}

// createCatalogTables holds the lookup tables products point at.
type createCatalogTables struct{}

func (createCatalogTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Category{}, &models.Brand{}, &models.Property{})
}

func (createCatalogTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Property{}, &models.Brand{}, &models.Category{})
}

type createProductsTables struct{}

func (createProductsTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{}, &models.ProductSize{}, &models.ProductProperty{})
}

func (createProductsTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.ProductProperty{}, &models.ProductSize{}, &models.Product{})
}
