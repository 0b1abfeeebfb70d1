package seeders

import (
	"strings"

	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/config"
	"github.com/beautydb/backoffice/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates the ADMIN_EMAIL account when it does not exist. An
// existing account keeps its password.
func SeedAdmin(db *gorm.DB) error {
	email := strings.ToLower(config.Get("ADMIN_EMAIL", "admin@beautydb.local"))

	var existing int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.Get("ADMIN_PASSWORD", "change-me"))
	if err != nil {
		return err
	}
	return db.Create(&models.User{
		Role:      models.RoleAdmin,
		FirstName: "Admin",
		Email:     email,
		Password:  hash,
	}).Error
}
