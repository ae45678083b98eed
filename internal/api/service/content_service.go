package service

import (
	"api"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/internal/realtime"
	"api/pkg"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

const contentCacheKey = "content:all"
const contentCacheTTL = 5 * time.Minute

type ContentService struct {
	contentRepo *repo.ContentRepository
	hub         *realtime.Hub
	logger      zerolog.Logger
}

func NewContentService(hub *realtime.Hub) *ContentService {
	return &ContentService{
		contentRepo: repo.NewContentRepository(),
		hub:         hub,
		logger:      api.Logger,
	}
}

// FindAll retrieves every content block, served from the redis cache when
// warm.
func (slf *ContentService) FindAll() ([]models.Content, error) {
	var cached []models.Content
	if err := pkg.RedisGet(contentCacheKey, &cached); err == nil {
		return cached, nil
	} else if !pkg.IsRedisNil(err) {
		slf.logger.Warn().Err(err).Msg("Content cache read failed")
	}

	content, err := slf.contentRepo.FindAll()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error getting content")
		return nil, err
	}

	if err := pkg.RedisSet(contentCacheKey, content, contentCacheTTL); err != nil {
		slf.logger.Warn().Err(err).Msg("Content cache write failed")
	}
	return content, nil
}

// Create inserts a new content block and broadcasts it to every client.
func (slf *ContentService) Create(content models.Content) (*models.Content, error) {
	if content.Type == "" {
		content.Type = "text"
	}

	if err := slf.contentRepo.Create(&content); err != nil {
		slf.logger.Error().Err(err).Str("section", content.Section).Msg("Error creating content")
		return nil, err
	}

	slf.invalidateCache()
	slf.hub.Publish(realtime.EventContentCreated, content)
	return &content, nil
}

// Update edits title and body of an existing block and broadcasts the new
// snapshot to every client.
func (slf *ContentService) Update(id uint, title *string, body *string) (*models.Content, error) {
	content, err := slf.contentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("content not found")
		}
		slf.logger.Error().Err(err).Uint("contentId", id).Msg("Error getting content")
		return nil, err
	}

	if title != nil {
		content.Title = *title
	}
	if body != nil {
		content.Content = *body
	}

	if err := slf.contentRepo.Update(&content); err != nil {
		slf.logger.Error().Err(err).Uint("contentId", id).Msg("Error updating content")
		return nil, err
	}

	slf.invalidateCache()
	slf.hub.Publish(realtime.EventContentUpdated, content)
	return &content, nil
}

func (slf *ContentService) invalidateCache() {
	if err := pkg.RedisDelete(contentCacheKey); err != nil {
		slf.logger.Warn().Err(err).Msg("Content cache invalidation failed")
	}
}
