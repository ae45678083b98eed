package service

import (
	"api"
	"api/internal/api/models"
	"api/internal/api/repo"
	"api/internal/realtime"
	"api/pkg"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAppointmentTest(t *testing.T) *AppointmentService {
	if _, err := os.Stat("../../../.env.test"); err != nil {
		t.Skip("no .env.test, skipping database tests")
	}
	api.InitConfig("../../../.env.test")

	err := api.DB.AutoMigrate(&models.Appointment{})
	require.NoError(t, err, "Failed to migrate appointment table")

	hub := realtime.NewHub(zerolog.Nop())
	go hub.Run()

	return NewAppointmentService(hub)
}

func cleanupAppointment(t *testing.T, id uint) {
	if id > 0 {
		api.DB.Unscoped().Delete(&models.Appointment{}, id)
	}
}

func testBooking() models.Appointment {
	return models.Appointment{
		CustomerName: "Ayşe Yılmaz",
		Phone:        "+905314918035",
		Service:      "Saç Kesimi",
		Date:         "2030-01-15",
		Time:         "14:30",
	}
}

func TestAppointment_Create(t *testing.T) {
	service := setupAppointmentTest(t)

	created, err := service.Create(testBooking())
	require.NoError(t, err, "Failed to create appointment")
	require.NotNil(t, created)
	defer cleanupAppointment(t, created.ID)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Ayşe Yılmaz", created.CustomerName)
	assert.Equal(t, models.AppointmentPending, created.Status)
}

func TestAppointment_Create_IgnoresClientStatus(t *testing.T) {
	service := setupAppointmentTest(t)

	booking := testBooking()
	booking.Status = models.AppointmentConfirmed

	created, err := service.Create(booking)
	require.NoError(t, err)
	defer cleanupAppointment(t, created.ID)

	assert.Equal(t, models.AppointmentPending, created.Status, "public bookings always start pending")
}

func TestAppointment_Update(t *testing.T) {
	service := setupAppointmentTest(t)

	created, err := service.Create(testBooking())
	require.NoError(t, err)
	defer cleanupAppointment(t, created.ID)

	updated, err := service.Update(created.ID,
		pkg.ToPtr(models.AppointmentConfirmed),
		pkg.ToPtr("müşteri aradı"))
	require.NoError(t, err, "Failed to update appointment")

	assert.Equal(t, models.AppointmentConfirmed, updated.Status)
	assert.Equal(t, "müşteri aradı", updated.Notes)
}

func TestAppointment_Update_PartialKeepsFields(t *testing.T) {
	service := setupAppointmentTest(t)

	created, err := service.Create(testBooking())
	require.NoError(t, err)
	defer cleanupAppointment(t, created.ID)

	updated, err := service.Update(created.ID, nil, pkg.ToPtr("sadece not"))
	require.NoError(t, err)

	assert.Equal(t, models.AppointmentPending, updated.Status, "nil status leaves status unchanged")
	assert.Equal(t, "sadece not", updated.Notes)
}

func TestAppointment_Update_NotFound(t *testing.T) {
	service := setupAppointmentTest(t)

	_, err := service.Update(99999, pkg.ToPtr(models.AppointmentConfirmed), nil)
	require.Error(t, err)
	assert.Equal(t, "appointment not found", err.Error())
}

func TestAppointment_Delete(t *testing.T) {
	service := setupAppointmentTest(t)

	created, err := service.Create(testBooking())
	require.NoError(t, err)

	err = service.Delete(created.ID)
	require.NoError(t, err, "Failed to delete appointment")

	_, err = service.Update(created.ID, nil, nil)
	require.Error(t, err, "Deleted appointment should be gone")
}

func TestAppointment_Delete_NotFound(t *testing.T) {
	service := setupAppointmentTest(t)

	err := service.Delete(99999)
	require.Error(t, err)
	assert.Equal(t, "appointment not found", err.Error())
}

func TestAppointment_FindAll_Filters(t *testing.T) {
	service := setupAppointmentTest(t)

	first, err := service.Create(testBooking())
	require.NoError(t, err)
	defer cleanupAppointment(t, first.ID)

	second := testBooking()
	second.Date = "2030-02-20"
	created, err := service.Create(second)
	require.NoError(t, err)
	defer cleanupAppointment(t, created.ID)

	_, err = service.Update(created.ID, pkg.ToPtr(models.AppointmentConfirmed), nil)
	require.NoError(t, err)

	confirmed, err := service.FindAll(repo.AppointmentFilter{Status: "confirmed", FromDate: "2030-01-01"})
	require.NoError(t, err)
	for _, a := range confirmed {
		assert.Equal(t, models.AppointmentConfirmed, a.Status)
	}

	all, err := service.FindAll(repo.AppointmentFilter{FromDate: "2030-01-01"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(all), 2)

	// Soonest first
	for i := 1; i < len(all); i++ {
		assert.LessOrEqual(t, all[i-1].Date, all[i].Date)
	}
}
