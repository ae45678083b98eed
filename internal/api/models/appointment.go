package models

import "time"

type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booking request made from the public site and managed
// from the admin panel.
type Appointment struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	CustomerName string            `gorm:"not null;column:customer_name" json:"customer_name"`
	Phone        string            `gorm:"column:phone" json:"phone"`
	Email        string            `gorm:"column:email" json:"email"`
	Service      string            `gorm:"not null;column:service" json:"service"`
	Date         string            `gorm:"not null;index;column:date" json:"date"`
	Time         string            `gorm:"not null;column:time" json:"time"`
	Notes        string            `gorm:"type:text;column:notes" json:"notes"`
	Status       AppointmentStatus `gorm:"default:pending;index;column:status" json:"status"`
	CreatedAt    time.Time         `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
}

func (Appointment) TableName() string {
	return "appointments"
}
