package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type ImageRepository struct {
	Db *gorm.DB
}

func NewImageRepository() *ImageRepository {
	return &ImageRepository{Db: api.DB}
}

// FindAll retrieves all images, newest first
func (slf *ImageRepository) FindAll() ([]models.Image, error) {
	var images []models.Image
	err := slf.Db.Order("created_at desc").Find(&images).Error
	return images, err
}

// FindByID retrieves an image by ID
func (slf *ImageRepository) FindByID(id uint) (models.Image, error) {
	var image models.Image
	err := slf.Db.First(&image, id).Error
	return image, err
}

// Create inserts a new image record
func (slf *ImageRepository) Create(image *models.Image) error {
	return slf.Db.Create(image).Error
}

// Delete removes an image record
func (slf *ImageRepository) Delete(id uint) error {
	return slf.Db.Delete(&models.Image{}, id).Error
}
