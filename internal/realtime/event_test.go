package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAudienceRouting(t *testing.T) {
	adminAndPublic := []Room{RoomAdmin, RoomPublic}
	adminOnly := []Room{RoomAdmin}

	assert.Equal(t, adminAndPublic, Audience(EventContentCreated))
	assert.Equal(t, adminAndPublic, Audience(EventContentUpdated))

	// Appointment status changes reach public clients watching slot
	// availability, all other bookkeeping stays in the admin room.
	assert.Equal(t, adminAndPublic, Audience(EventAppointmentUpdated))
	assert.Equal(t, adminOnly, Audience(EventAppointmentCreated))
	assert.Equal(t, adminOnly, Audience(EventAppointmentDeleted))
	assert.Equal(t, adminOnly, Audience(EventImageUploaded))
	assert.Equal(t, adminOnly, Audience(EventImageDeleted))
}

func TestAudienceUnknownEvent(t *testing.T) {
	assert.Empty(t, Audience(EventType("no-such-event")))
}
