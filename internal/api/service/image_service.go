package service

import (
	"api"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/internal/realtime"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type ImageService struct {
	imageRepo *repo.ImageRepository
	hub       *realtime.Hub
	uploadDir string
	logger    zerolog.Logger
}

func NewImageService(hub *realtime.Hub) *ImageService {
	return &ImageService{
		imageRepo: repo.NewImageRepository(),
		hub:       hub,
		uploadDir: api.GetConfig().UploadConfig.Dir,
		logger:    api.Logger,
	}
}

// FindAll retrieves all images, newest first
func (slf *ImageService) FindAll() ([]models.Image, error) {
	images, err := slf.imageRepo.FindAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error getting images")
		return nil, err
	}
	return images, nil
}

// Save stores the uploaded bytes under a collision-free name, records the
// image and broadcasts it to the admin room.
func (slf *ImageService) Save(originalName string, data []byte) (*models.Image, error) {
	if err := os.MkdirAll(slf.uploadDir, 0o755); err != nil {
		slf.logger.Error().Err(err).Str("dir", slf.uploadDir).Msg("Error creating upload directory")
		return nil, err
	}

	filename := fmt.Sprintf("%s-%d%s", uuid.New().String(), time.Now().UnixMilli(), filepath.Ext(originalName))
	fullPath := filepath.Join(slf.uploadDir, filename)

	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		slf.logger.Error().Err(err).Str("file", fullPath).Msg("Error writing image file")
		return nil, err
	}

	image := models.Image{
		Filename:     filename,
		OriginalName: originalName,
		URL:          "/uploads/" + filename,
		Size:         int64(len(data)),
	}

	if err := slf.imageRepo.Create(&image); err != nil {
		slf.logger.Error().Err(err).Str("file", filename).Msg("Error creating image record")
		// Orphaned file is harmless, remove it anyway
		_ = os.Remove(fullPath)
		return nil, err
	}

	slf.hub.Publish(realtime.EventImageUploaded, image)
	return &image, nil
}

// Delete removes the image record and its file, then broadcasts the
// deletion to the admin room.
func (slf *ImageService) Delete(id uint) error {
	image, err := slf.imageRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("image not found")
		}
		slf.logger.Error().Err(err).Uint("imageId", id).Msg("Error getting image")
		return err
	}

	if err := os.Remove(filepath.Join(slf.uploadDir, image.Filename)); err != nil {
		slf.logger.Warn().Err(err).Str("file", image.Filename).Msg("Image file not found on disk")
	}

	if err := slf.imageRepo.Delete(id); err != nil {
		slf.logger.Error().Err(err).Uint("imageId", id).Msg("Error deleting image")
		return err
	}

	slf.hub.Publish(realtime.EventImageDeleted, map[string]any{"id": id})
	return nil
}
