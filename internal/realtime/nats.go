package realtime

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// NATSBridge subscribes to NATS subjects and pushes events into the Hub, so
// producers outside this process (batch imports, the CRUD API when fan-out
// runs as its own service) can broadcast without holding a hub reference.
type NATSBridge struct {
	conn   *nats.Conn
	hub    *Hub
	logger zerolog.Logger
}

const eventSubjectPrefix = "salon.events."

// EventSubject returns the NATS subject an event type is published on.
func EventSubject(event EventType) string {
	return eventSubjectPrefix + string(event)
}

func NewNATSBridge(natsURL string, hub *Hub, logger zerolog.Logger) (*NATSBridge, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	return &NATSBridge{conn: nc, hub: hub, logger: logger}, nil
}

// Subscribe listens on salon.events.> and republishes each message into the
// hub. The message body is the post-commit entity snapshot.
func (b *NATSBridge) Subscribe() error {
	subject := eventSubjectPrefix + ">"
	_, err := b.conn.Subscribe(subject, func(msg *nats.Msg) {
		event := EventType(strings.TrimPrefix(msg.Subject, eventSubjectPrefix))
		if _, known := audience[event]; !known {
			b.logger.Warn().Str("subject", msg.Subject).Msg("Ignoring unknown event subject")
			return
		}
		b.hub.Publish(event, json.RawMessage(msg.Data))
	})
	if err != nil {
		return fmt.Errorf("nats subscribe %q: %w", subject, err)
	}

	b.logger.Info().Str("subject", subject).Msg("NATS bridge subscribed")
	return nil
}

// Close drains the NATS connection.
func (b *NATSBridge) Close() {
	if err := b.conn.Drain(); err != nil {
		b.logger.Error().Err(err).Msg("NATS drain failed")
	}
}
