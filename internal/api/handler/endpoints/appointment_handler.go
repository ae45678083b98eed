package endpoints

import (
	"api"
	"api/internal/api/handler/middleware"
	"api/internal/api/handler/request"
	"api/internal/api/handler/response"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/internal/api/service"
	"api/internal/realtime"
	"api/pkg"
	"net/http"
	"strconv"

	"github.com/gin-contrib/graceful"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type appointmentHandler struct {
	appointmentService *service.AppointmentService
	logger             zerolog.Logger
	config             api.AppConfig
}

func newAppointmentHandler(hub *realtime.Hub) *appointmentHandler {
	return &appointmentHandler{
		appointmentService: service.NewAppointmentService(hub),
		logger:             api.Logger,
		config:             api.GetConfig(),
	}
}

// AppointmentHandler sets up booking routes. Creating a booking is public;
// managing bookings is admin-only.
func AppointmentHandler(router *graceful.Graceful, hub *realtime.Hub) {
	h := newAppointmentHandler(hub)

	public := router.Group("/api/v1")
	{
		public.POST("/appointments", h.createAppointment)
	}

	admin := router.Group("/api/v1")
	admin.Use(middleware.AuthMiddleware(h.config))
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.GET("/appointments", h.listAppointments)
		admin.PUT("/appointments/:id", h.updateAppointment)
		admin.DELETE("/appointments/:id", h.deleteAppointment)
	}
}

func (slf *appointmentHandler) createAppointment(c *gin.Context) {
	var dto request.CreateAppointmentDTO
	if err := pkg.ParseAndValidate(c, &dto); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	created, err := slf.appointmentService.Create(models.Appointment{
		CustomerName: dto.CustomerName,
		Phone:        dto.Phone,
		Email:        dto.Email,
		Service:      dto.Service,
		Date:         dto.Date,
		Time:         dto.Time,
		Notes:        dto.Notes,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to create appointment"})
		return
	}
	c.JSON(http.StatusOK, created)
}

func (slf *appointmentHandler) listAppointments(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	appointments, err := slf.appointmentService.FindAll(repo.AppointmentFilter{
		Status:   c.Query("status"),
		FromDate: c.Query("date"),
		Limit:    limit,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to fetch appointments"})
		return
	}
	c.JSON(http.StatusOK, appointments)
}

func (slf *appointmentHandler) updateAppointment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid appointment ID"})
		return
	}

	var dto request.UpdateAppointmentDTO
	if err := pkg.ParseAndValidate(c, &dto); err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: err.Error()})
		return
	}

	var status *models.AppointmentStatus
	if dto.Status != nil {
		status = pkg.ToPtr(models.AppointmentStatus(*dto.Status))
	}

	updated, err := slf.appointmentService.Update(uint(id), status, dto.Notes)
	if err != nil {
		if err.Error() == "appointment not found" {
			c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to update appointment"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (slf *appointmentHandler) deleteAppointment(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, response.APIError{Message: "Invalid appointment ID"})
		return
	}

	if err := slf.appointmentService.Delete(uint(id)); err != nil {
		if err.Error() == "appointment not found" {
			c.JSON(http.StatusNotFound, response.APIError{Message: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, response.APIError{Message: "Failed to delete appointment"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
