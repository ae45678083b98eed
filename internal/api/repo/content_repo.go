package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type ContentRepository struct {
	Db *gorm.DB
}

func NewContentRepository() *ContentRepository {
	return &ContentRepository{Db: api.DB}
}

// FindAll retrieves every content block ordered by section
func (slf *ContentRepository) FindAll() ([]models.Content, error) {
	var content []models.Content
	err := slf.Db.Order("section asc").Find(&content).Error
	return content, err
}

// FindByID retrieves a content block by ID
func (slf *ContentRepository) FindByID(id uint) (models.Content, error) {
	var content models.Content
	err := slf.Db.First(&content, id).Error
	return content, err
}

// Create inserts a new content block
func (slf *ContentRepository) Create(content *models.Content) error {
	return slf.Db.Create(content).Error
}

// Update persists title and body changes on an existing block
func (slf *ContentRepository) Update(content *models.Content) error {
	return slf.Db.Save(content).Error
}
