package endpoints

import (
	"api"
	"api/internal/api/handler/middleware"
	"api/internal/api/handler/response"
	"api/internal/api/models"
	"api/internal/api/service"
	"api/internal/realtime"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

type imageHandler struct {
	imageService *service.ImageService
	logger       zerolog.Logger
	config       api.AppConfig
}

func newImageHandler(hub *realtime.Hub) *imageHandler {
	return &imageHandler{
		imageService: service.NewImageService(hub),
		logger:       api.Logger,
		config:       api.GetConfig(),
	}
}

// ImageHandler sets up gallery image routes
func ImageHandler(router *graceful.Graceful, hub *realtime.Hub) {
	h := newImageHandler(hub)

	public := router.Group("/api/v1")
	{
		public.GET("/images", h.listImages)
	}

	admin := router.Group("/api/v1")
	admin.Use(middleware.AuthMiddleware(h.config))
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.POST("/images/upload", h.uploadImage)
		admin.DELETE("/images/:id", h.deleteImage)
	}
}

func (slf *imageHandler) listImages(c *gin.Context) {
	images, err := slf.imageService.FindAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to fetch images"})
		return
	}
	c.JSON(http.StatusOK, images)
}

func (slf *imageHandler) uploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "No image file provided"})
		return
	}

	maxSize := int64(slf.config.UploadConfig.MaxSizeMB) << 20
	if fileHeader.Size > maxSize {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Image exceeds the size limit"})
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedImageExts[ext] {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Only image files are allowed"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error opening uploaded file")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to upload image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize))
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error reading uploaded file")
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to upload image"})
		return
	}

	image, err := slf.imageService.Save(fileHeader.Filename, data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to upload image"})
		return
	}
	c.JSON(http.StatusOK, image)
}

func (slf *imageHandler) deleteImage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid image ID"})
		return
	}

	if err := slf.imageService.Delete(uint(id)); err != nil {
		if err.Error() == "image not found" {
			c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to delete image"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
