package models

import "time"

const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

type User struct {
	UserID    uint      `gorm:"column:user_id;primaryKey"             json:"user_id"`
	Role      string    `gorm:"size:50;not null;default:customer"     json:"role"`
	FirstName string    `gorm:"column:first_name;size:100"            json:"first_name"`
	LastName  string    `gorm:"column:last_name;size:100"             json:"last_name"`
	Email     string    `gorm:"uniqueIndex;size:255;not null"         json:"email"`
	Password  string    `gorm:"size:255;not null"                     json:"-"` // hashed, never serialised
	Phone     string    `gorm:"size:50"                               json:"phone"`
	CreatedAt time.Time `gorm:"column:created_at"                     json:"created_at"`
}

func (User) TableName() string { return "users" }

// Profile holds optional details and is removed together with its user.
type Profile struct {
	ProfileID  uint   `gorm:"column:profile_id;primaryKey"        json:"profile_id"`
	UserID     uint   `gorm:"column:user_id;not null;uniqueIndex" json:"user_id"`
	Address    string `gorm:"size:255"                            json:"address"`
	City       string `gorm:"size:100"                            json:"city"`
	PostalCode string `gorm:"column:postal_code;size:20"          json:"postal_code"`
}

func (Profile) TableName() string { return "profiles" }
