package repositories

import (
	"github.com/beautydb/backoffice/app/models"
	"gorm.io/gorm"
)

// Services, courses and events are single-table aggregates whose only
// owned resources are image files.
type (
	ServiceRepository struct{ Table[models.Service] }
	CourseRepository  struct{ Table[models.Course] }
	EventRepository   struct{ Table[models.Event] }
)

func NewServiceRepository() *ServiceRepository {
	return &ServiceRepository{Table[models.Service]{pk: "service_id"}}
}

func NewCourseRepository() *CourseRepository {
	return &CourseRepository{Table[models.Course]{pk: "course_id"}}
}

func NewEventRepository() *EventRepository {
	return &EventRepository{Table[models.Event]{pk: "event_id"}}
}

func (r *ServiceRepository) ImageURLs(db *gorm.DB) ([]string, error) {
	var rows []models.Service
	if err := db.Select("before_image_url", "after_image_url").Find(&rows).Error; err != nil {
		return nil, err
	}
	var urls []string
	for _, s := range rows {
		urls = append(urls, s.ImageURLs()...)
	}
	return urls, nil
}

func (r *CourseRepository) ImageURLs(db *gorm.DB) ([]string, error) {
	var urls []string
	err := db.Model(&models.Course{}).Where("image_url IS NOT NULL AND image_url <> ''").Pluck("image_url", &urls).Error
	return urls, err
}

func (r *EventRepository) ImageURLs(db *gorm.DB) ([]string, error) {
	var urls []string
	err := db.Model(&models.Event{}).Where("image_url IS NOT NULL AND image_url <> ''").Pluck("image_url", &urls).Error
	return urls, err
}
