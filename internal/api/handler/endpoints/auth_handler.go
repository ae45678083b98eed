package endpoints

import (
	"api"
	"api/internal/api/handler/middleware"
	"api/internal/api/handler/request"
	"api/internal/api/handler/response"
	"api/internal/api/service"
	"api/pkg"
	"net/http"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type authHandler struct {
	userService *service.UserService
	logger      zerolog.Logger
	config      api.AppConfig
}

func newAuthHandler() *authHandler {
	return &authHandler{
		userService: service.NewUserService(),
		logger:      api.Logger,
		config:      api.GetConfig(),
	}
}

// AuthHandler sets up admin authentication routes
func AuthHandler(router *graceful.Graceful) {
	h := newAuthHandler()

	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
		auth.POST("/refresh", h.refreshToken)
	}

	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(h.config))
	{
		protected.GET("/me", h.getMe)
	}
}

func (slf *authHandler) register(c *gin.Context) {
	var dto request.RegisterDTO
	if err := pkg.ParseAndValidate(c, &dto); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	user, err := slf.userService.Register(dto.Email, dto.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to register user"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email})
}

func (slf *authHandler) login(c *gin.Context) {
	var dto request.LoginDTO
	if err := pkg.ParseAndValidate(c, &dto); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	user, tokens, err := slf.userService.Login(dto.Email, dto.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Invalid credentials"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":   gin.H{"id": user.ID, "email": user.Email, "role": user.Role},
		"tokens": tokens,
	})
}

func (slf *authHandler) refreshToken(c *gin.Context) {
	var dto request.RefreshDTO
	if err := pkg.ParseAndValidate(c, &dto); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	tokens, err := slf.userService.Refresh(dto.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, response.APIError{Message: "Invalid refresh token"})
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (slf *authHandler) getMe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    c.GetUint("userID"),
		"email": c.GetString("userEmail"),
		"role":  c.GetString("userRole"),
	})
}
