package session

import (
	"api/internal/realtime"
	"encoding/json"
)

// Callback receives the raw event payload. Payloads are entity snapshots
// keyed by id; callers must treat redelivery and gaps as normal and
// reconcile by upsert/delete, not by assuming exactly-once.
type Callback func(payload json.RawMessage)

type subscription struct {
	id int
	fn Callback
}

// Subscribe registers a callback for one event type and returns the
// matching unsubscribe function. Registrations live on the Session, not on
// the transport, so they survive reconnects; callbacks for one event fire
// in registration order on a single dispatch goroutine.
func (s *Session) Subscribe(event realtime.EventType, fn Callback) func() {
	s.subMu.Lock()
	s.nextSub++
	id := s.nextSub
	s.subs[event] = append(s.subs[event], subscription{id: id, fn: fn})
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		subs := s.subs[event]
		for i, sub := range subs {
			if sub.id == id {
				s.subs[event] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Session) dispatch() {
	for {
		select {
		case <-s.done:
			return
		case env := <-s.events:
			for _, sub := range s.subscribers(env.Event) {
				sub.fn(env.Payload)
			}
		}
	}
}

func (s *Session) subscribers(event realtime.EventType) []subscription {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	subs := s.subs[event]
	out := make([]subscription, len(subs))
	copy(out, subs)
	return out
}
