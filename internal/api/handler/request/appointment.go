package request

type CreateAppointmentDTO struct {
	CustomerName string `json:"customer_name" validate:"required"`
	Phone        string `json:"phone"`
	Email        string `json:"email" validate:"omitempty,email"`
	Service      string `json:"service" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	Time         string `json:"time" validate:"required"`
	Notes        string `json:"notes"`
}

type UpdateAppointmentDTO struct {
	Status *string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled"`
	Notes  *string `json:"notes"`
}
