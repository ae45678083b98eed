package repo

import (
	"api"
	"api/internal/api/models"

	"gorm.io/gorm"
)

type AppointmentRepository struct {
	Db *gorm.DB
}

func NewAppointmentRepository() *AppointmentRepository {
	return &AppointmentRepository{Db: api.DB}
}

// AppointmentFilter narrows the admin listing.
type AppointmentFilter struct {
	Status   string
	FromDate string
	Limit    int
}

// FindAll retrieves appointments matching the filter, soonest first
func (slf *AppointmentRepository) FindAll(filter AppointmentFilter) ([]models.Appointment, error) {
	query := slf.Db.Order("date asc")

	if filter.Status != "" && filter.Status != "all" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.FromDate != "" {
		query = query.Where("date >= ?", filter.FromDate)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var appointments []models.Appointment
	err := query.Find(&appointments).Error
	return appointments, err
}

// FindByID retrieves an appointment by ID
func (slf *AppointmentRepository) FindByID(id uint) (models.Appointment, error) {
	var appointment models.Appointment
	err := slf.Db.First(&appointment, id).Error
	return appointment, err
}

// Create inserts a new appointment
func (slf *AppointmentRepository) Create(appointment *models.Appointment) error {
	return slf.Db.Create(appointment).Error
}

// Update persists status and notes changes
func (slf *AppointmentRepository) Update(appointment *models.Appointment) error {
	return slf.Db.Save(appointment).Error
}

// Delete removes an appointment
func (slf *AppointmentRepository) Delete(id uint) error {
	return slf.Db.Delete(&models.Appointment{}, id).Error
}
