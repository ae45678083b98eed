package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	Db *gorm.DB
}

func NewUserRepository() *UserRepository {
	return &UserRepository{Db: api.DB}
}

// FindByEmail retrieves a user by email
func (slf *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := slf.Db.Where("email = ?", email).First(&user).Error
	return user, err
}

// FindByID retrieves a user by ID
func (slf *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := slf.Db.First(&user, id).Error
	return user, err
}

// Create inserts a new user
func (slf *UserRepository) Create(user *models.User) error {
	return slf.Db.Create(user).Error
}

// Update persists user changes
func (slf *UserRepository) Update(user *models.User) error {
	return slf.Db.Save(user).Error
}
