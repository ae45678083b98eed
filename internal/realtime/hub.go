package realtime

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Hub owns every live connection and fans events out to rooms. All state is
// confined to the Run goroutine; channels are the only way in, which makes a
// join that completes before a publish visible to that publish.
type Hub struct {
	// Registered connections and their room sets
	clients map[*Client]bool
	rooms   map[Room]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	join       chan joinMsg
	broadcast  chan broadcastMsg
	stats      chan chan Stats
	dropAll    chan struct{}

	startedAt time.Time
	logger    zerolog.Logger
}

type joinMsg struct {
	client *Client
	room   Room
}

type broadcastMsg struct {
	event   EventType
	payload []byte
}

// Stats is a point-in-time snapshot for the status endpoint.
type Stats struct {
	ConnectedClients int          `json:"connectedClients"`
	RoomCounts       map[Room]int `json:"roomCounts"`
	Uptime           float64      `json:"uptimeSeconds"`
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      map[Room]map[*Client]bool{RoomAdmin: {}, RoomPublic: {}},
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinMsg),
		broadcast:  make(chan broadcastMsg, 256),
		stats:      make(chan chan Stats),
		dropAll:    make(chan struct{}),
		startedAt:  time.Now(),
		logger:     logger,
	}
}

// Publish routes an event to every connection in its audience rooms. It
// never blocks on delivery and never reports per-connection failures; a
// client that is mid-reconnect simply misses the event.
func (h *Hub) Publish(event EventType, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error().Err(err).Str("event", string(event)).Msg("Dropping unmarshalable event payload")
		return
	}

	data, err := json.Marshal(Envelope{
		Event:     event,
		Payload:   raw,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.logger.Error().Err(err).Str("event", string(event)).Msg("Dropping event envelope")
		return
	}

	h.broadcast <- broadcastMsg{event: event, payload: data}
}

// DisconnectAll drops every live connection. The hub keeps running and
// accepts new connections; clients are expected to reconnect on their own.
func (h *Hub) DisconnectAll() {
	h.dropAll <- struct{}{}
}

// GetStats returns connection counts as seen by the hub loop.
func (h *Hub) GetStats() Stats {
	reply := make(chan Stats, 1)
	h.stats <- reply
	return <-reply
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info().
				Str("clientId", client.ID).
				Int("totalClients", len(h.clients)).
				Msg("Client connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.removeClient(client)
			}

		case msg := <-h.join:
			h.joinRoom(msg.client, msg.room)

		case msg := <-h.broadcast:
			for _, room := range Audience(msg.event) {
				for client := range h.rooms[room] {
					select {
					case client.send <- msg.payload:
					default:
						// Stalled consumer, drop it rather than
						// delaying the rest of the room.
						h.logger.Warn().
							Str("clientId", client.ID).
							Str("event", string(msg.event)).
							Msg("Client send buffer full, disconnecting")
						h.removeClient(client)
					}
				}
			}

		case <-h.dropAll:
			for client := range h.clients {
				h.removeClient(client)
			}

		case reply := <-h.stats:
			counts := make(map[Room]int, len(h.rooms))
			for room, members := range h.rooms {
				counts[room] = len(members)
			}
			reply <- Stats{
				ConnectedClients: len(h.clients),
				RoomCounts:       counts,
				Uptime:           time.Since(h.startedAt).Seconds(),
			}
		}
	}
}

// joinRoom is idempotent and overwrites any prior membership; a connection
// is in at most one room.
func (h *Hub) joinRoom(client *Client, room Room) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	if client.room == room {
		return
	}
	if client.room != RoomNone {
		delete(h.rooms[client.room], client)
	}
	client.room = room
	h.rooms[room][client] = true
	h.logger.Info().
		Str("clientId", client.ID).
		Str("room", string(room)).
		Int("roomSize", len(h.rooms[room])).
		Msg("Client joined room")
}

// removeClient drops the connection from the registry and, in O(1) via the
// client's own room field, from its room.
func (h *Hub) removeClient(client *Client) {
	delete(h.clients, client)
	if client.room != RoomNone {
		delete(h.rooms[client.room], client)
	}
	close(client.send)
	h.logger.Info().
		Str("clientId", client.ID).
		Int("totalClients", len(h.clients)).
		Msg("Client disconnected")
}
