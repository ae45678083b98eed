package session

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"api/internal/realtime"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) (*realtime.Hub, string) {
	t.Helper()

	hub := realtime.NewHub(zerolog.Nop())
	go hub.Run()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, zerolog.Nop(), w, r)
	}))
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func newTestSession(t *testing.T, url string, role Role) *Session {
	t.Helper()

	s := New(Config{
		URL:            url,
		Role:           role,
		ReconnectDelay: 200 * time.Millisecond,
		Logger:         zerolog.Nop(),
	})
	t.Cleanup(s.Close)
	return s
}

func waitForRoom(t *testing.T, hub *realtime.Hub, room realtime.Room, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.GetStats().RoomCounts[room] == want
	}, 2*time.Second, 5*time.Millisecond)
}

func TestSessionDeliversSubscribedEvents(t *testing.T) {
	hub, url := startServer(t)
	s := newTestSession(t, url, RoleAdmin)

	got := make(chan json.RawMessage, 10)
	s.Subscribe(realtime.EventAppointmentCreated, func(payload json.RawMessage) {
		got <- payload
	})

	s.Connect()
	require.True(t, s.Status().IsConnected)
	waitForRoom(t, hub, realtime.RoomAdmin, 1)

	hub.Publish(realtime.EventAppointmentCreated, map[string]string{"id": "a1", "status": "pending"})

	select {
	case payload := <-got:
		assert.JSONEq(t, `{"id":"a1","status":"pending"}`, string(payload))
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}

	// Exactly one delivery
	select {
	case <-got:
		t.Fatal("event delivered twice")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestPublicSessionDoesNotReceiveAdminEvents(t *testing.T) {
	hub, url := startServer(t)
	s := newTestSession(t, url, RolePublic)

	got := make(chan json.RawMessage, 10)
	s.Subscribe(realtime.EventAppointmentCreated, func(payload json.RawMessage) {
		got <- payload
	})

	s.Connect()
	waitForRoom(t, hub, realtime.RoomPublic, 1)

	hub.Publish(realtime.EventAppointmentCreated, map[string]string{"id": "a1"})

	select {
	case <-got:
		t.Fatal("admin-only event reached a public session")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestCallbacksFireInRegistrationOrder(t *testing.T) {
	hub, url := startServer(t)
	s := newTestSession(t, url, RolePublic)

	var mu sync.Mutex
	var order []string
	done := make(chan struct{})

	s.Subscribe(realtime.EventContentUpdated, func(json.RawMessage) {
		mu.Lock()
		order = append(order, "first")
		mu.Unlock()
	})
	s.Subscribe(realtime.EventContentUpdated, func(json.RawMessage) {
		mu.Lock()
		order = append(order, "second")
		mu.Unlock()
		close(done)
	})

	s.Connect()
	waitForRoom(t, hub, realtime.RoomPublic, 1)
	hub.Publish(realtime.EventContentUpdated, map[string]string{"id": "c1"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callbacks never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestUnsubscribeIsExact(t *testing.T) {
	hub, url := startServer(t)
	s := newTestSession(t, url, RoleAdmin)

	removed := make(chan struct{}, 10)
	kept := make(chan struct{}, 10)

	unsubscribe := s.Subscribe(realtime.EventImageUploaded, func(json.RawMessage) {
		removed <- struct{}{}
	})
	s.Subscribe(realtime.EventImageUploaded, func(json.RawMessage) {
		kept <- struct{}{}
	})

	s.Connect()
	waitForRoom(t, hub, realtime.RoomAdmin, 1)

	unsubscribe()
	hub.Publish(realtime.EventImageUploaded, map[string]any{"id": 1})

	select {
	case <-kept:
	case <-time.After(time.Second):
		t.Fatal("surviving subscription never fired")
	}
	select {
	case <-removed:
		t.Fatal("unsubscribed callback fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestConnectIsIdempotent(t *testing.T) {
	hub, url := startServer(t)
	s := newTestSession(t, url, RoleAdmin)

	s.Connect()
	s.Connect()
	s.Connect()

	waitForRoom(t, hub, realtime.RoomAdmin, 1)
	time.Sleep(100 * time.Millisecond)

	stats := hub.GetStats()
	assert.Equal(t, 1, stats.ConnectedClients, "idempotent connect must not open extra transports")
	assert.Equal(t, 1, stats.RoomCounts[realtime.RoomAdmin])
	assert.True(t, s.Status().IsConnected)
}

func TestReconnectRedeclaresRoomAndKeepsSubscriptions(t *testing.T) {
	hub, url := startServer(t)
	s := newTestSession(t, url, RoleAdmin)

	got := make(chan json.RawMessage, 10)
	s.Subscribe(realtime.EventAppointmentUpdated, func(payload json.RawMessage) {
		got <- payload
	})

	s.Connect()
	waitForRoom(t, hub, realtime.RoomAdmin, 1)

	// Kill the connection server-side; the session must notice and retry.
	hub.DisconnectAll()
	require.Eventually(t, func() bool {
		return s.Status().IsReconnecting
	}, 2*time.Second, 2*time.Millisecond)
	waitForRoom(t, hub, realtime.RoomAdmin, 0)

	// Events published while disconnected are lost, not queued
	hub.Publish(realtime.EventAppointmentUpdated, map[string]string{"id": "m1"})
	hub.Publish(realtime.EventAppointmentUpdated, map[string]string{"id": "m2"})
	hub.Publish(realtime.EventAppointmentUpdated, map[string]string{"id": "m3"})

	// The session re-declares its room on reconnect without any help
	waitForRoom(t, hub, realtime.RoomAdmin, 1)
	require.Eventually(t, func() bool {
		return s.Status().IsConnected
	}, 2*time.Second, 5*time.Millisecond)

	hub.Publish(realtime.EventAppointmentUpdated, map[string]string{"id": "after"})

	select {
	case payload := <-got:
		assert.JSONEq(t, `{"id":"after"}`, string(payload))
	case <-time.After(time.Second):
		t.Fatal("event after reconnect never delivered")
	}
	select {
	case payload := <-got:
		t.Fatalf("missed events must not be replayed, got %s", payload)
	case <-time.After(150 * time.Millisecond):
	}
}

// rejectingListener accepts TCP connections and closes them immediately, so
// every WebSocket dial fails after the transport connects.
func rejectingListener(t *testing.T) (net.Listener, *atomic.Int32) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	var accepts atomic.Int32
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepts.Add(1)
			conn.Close()
		}
	}()
	return ln, &accepts
}

func TestRetriesExhaustedAfterCap(t *testing.T) {
	ln, accepts := rejectingListener(t)

	s := New(Config{
		URL:            "ws://" + ln.Addr().String(),
		Role:           RoleAdmin,
		ReconnectDelay: 5 * time.Millisecond,
		Logger:         zerolog.Nop(),
	})
	t.Cleanup(s.Close)

	s.Connect()

	require.Eventually(t, func() bool {
		return s.Status().Err != nil
	}, 2*time.Second, 5*time.Millisecond)
	assert.ErrorIs(t, s.Status().Err, ErrRetriesExhausted)
	assert.False(t, s.Status().IsConnected)
	assert.False(t, s.Status().IsReconnecting)

	// Initial dial plus exactly five retries, then silence
	assert.Equal(t, int32(6), accepts.Load())
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int32(6), accepts.Load(), "no further attempts after the cap")
}

func TestManualConnectRestartsFailureStreak(t *testing.T) {
	ln, _ := rejectingListener(t)
	addr := ln.Addr().String()

	s := New(Config{
		URL:            "ws://" + addr,
		Role:           RolePublic,
		ReconnectDelay: 5 * time.Millisecond,
		Logger:         zerolog.Nop(),
	})
	t.Cleanup(s.Close)

	s.Connect()
	require.Eventually(t, func() bool {
		return s.Status().Err != nil
	}, 2*time.Second, 5*time.Millisecond)

	// Swap the rejecting listener for a real server on the same address
	require.NoError(t, ln.Close())

	hub := realtime.NewHub(zerolog.Nop())
	go hub.Run()
	var srv http.Server
	srv.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		realtime.ServeWS(hub, zerolog.Nop(), w, r)
	})
	ln2, err := net.Listen("tcp", addr)
	require.NoError(t, err)
	go srv.Serve(ln2)
	t.Cleanup(func() { srv.Close() })

	s.Connect()
	require.Eventually(t, func() bool {
		return s.Status().IsConnected
	}, 2*time.Second, 5*time.Millisecond)
	waitForRoom(t, hub, realtime.RoomPublic, 1)
}

func TestCloseStopsPendingRetry(t *testing.T) {
	ln, accepts := rejectingListener(t)

	s := New(Config{
		URL:            "ws://" + ln.Addr().String(),
		Role:           RoleAdmin,
		ReconnectDelay: time.Hour, // any retry firing would hang around
		Logger:         zerolog.Nop(),
	})

	s.Connect()
	require.Eventually(t, func() bool {
		return s.Status().IsReconnecting
	}, 2*time.Second, 5*time.Millisecond)

	before := accepts.Load()
	s.Close()

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, accepts.Load(), "no dial after Close")
	assert.Equal(t, Status{}, s.Status())
}
