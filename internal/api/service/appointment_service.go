package service

import (
	"api"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/internal/realtime"
	"errors"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

type AppointmentService struct {
	appointmentRepo *repo.AppointmentRepository
	notifications   *NotificationService
	hub             *realtime.Hub
	logger          zerolog.Logger
}

func NewAppointmentService(hub *realtime.Hub) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: repo.NewAppointmentRepository(),
		notifications:   NewNotificationService(),
		hub:             hub,
		logger:          api.Logger,
	}
}

// FindAll retrieves appointments matching the filter
func (slf *AppointmentService) FindAll(filter repo.AppointmentFilter) ([]models.Appointment, error) {
	appointments, err := slf.appointmentRepo.FindAll(filter)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Error getting appointments")
		return nil, err
	}
	return appointments, nil
}

// Create records a booking request, broadcasts it to the admin room and
// sends the confirmation email in the background.
func (slf *AppointmentService) Create(appointment models.Appointment) (*models.Appointment, error) {
	appointment.Status = models.AppointmentPending

	if err := slf.appointmentRepo.Create(&appointment); err != nil {
		slf.logger.Error().Err(err).Str("customer", appointment.CustomerName).Msg("Error creating appointment")
		return nil, err
	}

	slf.hub.Publish(realtime.EventAppointmentCreated, appointment)

	go func(a models.Appointment) {
		if err := slf.notifications.SendBookingConfirmation(a); err != nil {
			slf.logger.Error().Err(err).Uint("appointmentId", a.ID).Msg("Booking confirmation failed")
		}
	}(appointment)

	return &appointment, nil
}

// Update changes status and notes. The new snapshot goes to both rooms so
// public clients watching slot availability see it; cancellations
// additionally notify the customer in the background.
func (slf *AppointmentService) Update(id uint, status *models.AppointmentStatus, notes *string) (*models.Appointment, error) {
	appointment, err := slf.appointmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("appointment not found")
		}
		slf.logger.Error().Err(err).Uint("appointmentId", id).Msg("Error getting appointment")
		return nil, err
	}

	wasCancelled := appointment.Status == models.AppointmentCancelled
	if status != nil {
		appointment.Status = *status
	}
	if notes != nil {
		appointment.Notes = *notes
	}

	if err := slf.appointmentRepo.Update(&appointment); err != nil {
		slf.logger.Error().Err(err).Uint("appointmentId", id).Msg("Error updating appointment")
		return nil, err
	}

	slf.hub.Publish(realtime.EventAppointmentUpdated, appointment)

	if appointment.Status == models.AppointmentCancelled && !wasCancelled {
		go func(a models.Appointment) {
			if err := slf.notifications.SendCancellationNotice(a); err != nil {
				slf.logger.Error().Err(err).Uint("appointmentId", a.ID).Msg("Cancellation notice failed")
			}
		}(appointment)
	}

	return &appointment, nil
}

// Delete removes an appointment and broadcasts the deletion to the admin
// room.
func (slf *AppointmentService) Delete(id uint) error {
	if _, err := slf.appointmentRepo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("appointment not found")
		}
		slf.logger.Error().Err(err).Uint("appointmentId", id).Msg("Error getting appointment")
		return err
	}

	if err := slf.appointmentRepo.Delete(id); err != nil {
		slf.logger.Error().Err(err).Uint("appointmentId", id).Msg("Error deleting appointment")
		return err
	}

	slf.hub.Publish(realtime.EventAppointmentDeleted, map[string]any{"id": id})
	return nil
}
