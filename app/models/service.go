package models

import "time"

// Service is a bookable treatment with before/after pictures.
type Service struct {
	ServiceID      uint      `gorm:"column:service_id;primaryKey"         json:"service_id"`
	Name           string    `gorm:"size:100;not null"                    json:"name"`
	Description    string    `gorm:"type:text"                            json:"description"`
	Time           int       `gorm:"not null"                             json:"time"`
	Price          float64   `gorm:"not null"                             json:"price"`
	BookingLink    *string   `gorm:"column:booking_link;size:512"         json:"booking_link"`
	CategoryID     uint      `gorm:"column:category_id;not null;index"    json:"category_id"`
	BeforeImageURL *string   `gorm:"column:before_image_url;size:512"     json:"before_image_url"`
	AfterImageURL  *string   `gorm:"column:after_image_url;size:512"      json:"after_image_url"`
	CreatedAt      time.Time `gorm:"column:created_at"                    json:"created_at"`
}

func (Service) TableName() string { return "services" }

func (s Service) ImageURLs() []string {
	return nonEmpty(s.BeforeImageURL, s.AfterImageURL)
}

type ServiceCategory struct {
	ServiceCategoryID uint   `gorm:"column:service_category_id;primaryKey" json:"service_category_id"`
	Name              string `gorm:"size:255;not null"                     json:"name"`
}

func (ServiceCategory) TableName() string { return "service_categories" }

type Course struct {
	CourseID    uint       `gorm:"column:course_id;primaryKey"    json:"course_id"`
	Title       string     `gorm:"size:255;not null"              json:"title"`
	Description string     `gorm:"type:text"                      json:"description"`
	Price       float64    `gorm:"not null"                       json:"price"`
	StartDate   *time.Time `gorm:"column:start_date"              json:"start_date"`
	ImageURL    *string    `gorm:"column:image_url;size:512"      json:"image_url"`
	CreatedAt   time.Time  `gorm:"column:created_at"              json:"created_at"`
}

func (Course) TableName() string { return "courses" }

type Event struct {
	EventID     uint       `gorm:"column:event_id;primaryKey"     json:"event_id"`
	Title       string     `gorm:"size:255;not null"              json:"title"`
	Description string     `gorm:"type:text"                      json:"description"`
	EventDate   *time.Time `gorm:"column:event_date"              json:"event_date"`
	Location    string     `gorm:"size:255"                       json:"location"`
	ImageURL    *string    `gorm:"column:image_url;size:512"      json:"image_url"`
	CreatedAt   time.Time  `gorm:"column:created_at"              json:"created_at"`
}

func (Event) TableName() string { return "events" }
