package realtime

import (
	"encoding/json"
	"time"
)

// EventType enumerates every event the hub can carry. Dispatch is keyed on
// this closed set, not on free-form strings.
type EventType string

const (
	EventContentUpdated     EventType = "content-updated"
	EventContentCreated     EventType = "content-created"
	EventImageUploaded      EventType = "image-uploaded"
	EventImageDeleted       EventType = "image-deleted"
	EventAppointmentCreated EventType = "appointment-created"
	EventAppointmentUpdated EventType = "appointment-updated"
	EventAppointmentDeleted EventType = "appointment-deleted"
)

// Room identifies a broadcast scope. A connection belongs to at most one
// room at a time.
type Room string

const (
	RoomNone   Room = ""
	RoomAdmin  Room = "admin-room"
	RoomPublic Room = "public-room"
)

// audience maps each event type to the rooms it is delivered to. Content
// changes are visible to everyone; image and appointment bookkeeping is
// admin-only, except appointment updates, which public clients watching
// slot availability also need.
var audience = map[EventType][]Room{
	EventContentUpdated:     {RoomAdmin, RoomPublic},
	EventContentCreated:     {RoomAdmin, RoomPublic},
	EventImageUploaded:      {RoomAdmin},
	EventImageDeleted:       {RoomAdmin},
	EventAppointmentCreated: {RoomAdmin},
	EventAppointmentUpdated: {RoomAdmin, RoomPublic},
	EventAppointmentDeleted: {RoomAdmin},
}

// Audience returns the rooms an event type is routed to.
func Audience(event EventType) []Room {
	return audience[event]
}

// Envelope is the wire format for every server→client event.
type Envelope struct {
	Event     EventType       `json:"event"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// incomingMsg represents a command from the client. Room declaration is the
// first message a client sends after the handshake.
type incomingMsg struct {
	Action string `json:"action"` // "join-admin" | "join-public"
}

const (
	ActionJoinAdmin  = "join-admin"
	ActionJoinPublic = "join-public"
)
