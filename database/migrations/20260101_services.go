package migrations

import (
	"github.com/beautydb/backoffice/app/models"
	"github.com/beautydb/backoffice/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260101000002_create_services_tables", createServicesTables{})
	migration.Register("20260101000003_create_courses_and_events_tables", createCoursesAndEvents{})
}

type createServicesTables struct{}

func (createServicesTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ServiceCategory{}, &models.Service{})
}

func (createServicesTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Service{}, &models.ServiceCategory{})
}

type createCoursesAndEvents struct{}

func (createCoursesAndEvents) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Course{}, &models.Event{})
}

func (createCoursesAndEvents) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Event{}, &models.Course{})
}
