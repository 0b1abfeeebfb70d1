package migrations

import (
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000004_create_users_tables", createUsersTables{})
	migration.Register("20260101000005_create_orders_tables", createOrdersTables{})
}

type createUsersTables struct{}

func (createUsersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Profile{})
}

func (createUsersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Profile{}, &models.User{})
}

type createOrdersTables struct{}

func (createOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (createOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderItem{}, &models.Order{})
}
