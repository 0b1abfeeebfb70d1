package repositories

import (
	"github.com/beautydb/backoffice/app/models"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User and Profile.
type UserRepository struct {
	Table[models.User]
}

func NewUserRepository() *UserRepository {
	return &UserRepository{Table[models.User]{pk: "user_id"}}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(db *gorm.DB, email string) (models.User, error) {
	var user models.User
	err := first(db, &user, "email = ?", email)
	return user, err
}

// EmailTaken reports whether another user than exceptID owns email.
func (r *UserRepository) EmailTaken(db *gorm.DB, email string, exceptID uint) (bool, error) {
	var n int64
	err := db.Model(&models.User{}).Where("email = ? AND user_id <> ?", email, exceptID).Count(&n).Error
	return n > 0, err
}

// DeleteWithProfile removes the profile, then the user.
func (r *UserRepository) DeleteWithProfile(db *gorm.DB, id uint) error {
	if err := db.Where("user_id = ?", id).Delete(&models.Profile{}).Error; err != nil {
		return err
	}
	return r.Delete(db, id)
}
