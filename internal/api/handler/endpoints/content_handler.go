package endpoints

import (
	"api"
	"api/internal/api/handler/middleware"
	"api/internal/api/handler/request"
	"api/internal/api/handler/response"
	"api/internal/api/models"
	"api/internal/api/service"
	"api/internal/realtime"
	"api/pkg"
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type contentHandler struct {
	contentService *service.ContentService
	logger         zerolog.Logger
	config         api.AppConfig
}

func newContentHandler(hub *realtime.Hub) *contentHandler {
	return &contentHandler{
		contentService: service.NewContentService(hub),
		logger:         api.Logger,
		config:         api.GetConfig(),
	}
}

// ContentHandler sets up content management routes
func ContentHandler(router *graceful.Graceful, hub *realtime.Hub) {
	h := newContentHandler(hub)

	public := router.Group("/api/v1")
	{
		public.GET("/content", h.listContent)
	}

	admin := router.Group("/api/v1")
	admin.Use(middleware.AuthMiddleware(h.config))
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/content", h.createContent)
		admin.PUT("/content/:id", h.updateContent)
	}
}

func (slf *contentHandler) listContent(c *gin.Context) {
	content, err := slf.contentService.FindAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to fetch content"})
		return
	}
	c.JSON(http.StatusOK, content)
}

func (slf *contentHandler) createContent(c *gin.Context) {
	var dto request.CreateContentDTO
	if err := pkg.ParseAndValidate(c, &dto); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	created, err := slf.contentService.Create(models.Content{
		Section: dto.Section,
		Key:     dto.Key,
		Title:   dto.Title,
		Content: dto.Content,
		Type:    dto.Type,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to create content"})
		return
	}
	c.JSON(http.StatusOK, created)
}

func (slf *contentHandler) updateContent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid content ID"})
		return
	}

	var dto request.UpdateContentDTO
	if err := pkg.ParseAndValidate(c, &dto); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	updated, err := slf.contentService.Update(uint(id), dto.Title, dto.Content)
	if err != nil {
		if err.Error() == "content not found" {
			c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to update content"})
		return
	}
	c.JSON(http.StatusOK, updated)
}
