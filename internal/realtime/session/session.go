// Package session is the client half of the realtime subsystem: it owns one
// logical connection to the hub, keeps it alive across network drops, and
// delivers events to subscribers registered through the Session rather than
// the underlying transport, so a reconnect never loses a subscription.
package session

import (
	"api/internal/realtime"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Role fixes which room the session declares on every (re)connect.
type Role string

const (
	RoleAdmin  Role = "admin"
	RolePublic Role = "public"
)

// ErrRetriesExhausted is set on the status after the reconnect attempt cap
// is hit. The session will not retry again on its own; a manual Connect
// call starts a fresh streak.
var ErrRetriesExhausted = errors.New("reconnect attempts exhausted")

// Status reflects the local transport's view of the connection. It can lag
// the server's registry.
type Status struct {
	IsConnected    bool
	IsReconnecting bool
	Err            error
}

// Config parameterizes a Session. Zero values fall back to the defaults
// the production clients use.
type Config struct {
	URL              string
	Role             Role
	ReconnectDelay   time.Duration // base delay, grows linearly per attempt
	MaxAttempts      int
	HandshakeTimeout time.Duration
	Logger           zerolog.Logger
}

const (
	defaultReconnectDelay   = time.Second
	defaultMaxAttempts      = 5
	defaultHandshakeTimeout = 5 * time.Second
)

// Session is the durable logical subscription. One instance per browser
// session; the owning context creates it and must call Close on teardown.
type Session struct {
	cfg    Config
	dialer *websocket.Dialer
	logger zerolog.Logger

	mu         sync.Mutex
	conn       *websocket.Conn
	status     Status
	attempts   int
	retryTimer *time.Timer
	closed     bool

	subMu   sync.Mutex
	nextSub int
	subs    map[realtime.EventType][]subscription

	events chan realtime.Envelope
	done   chan struct{}
}

func New(cfg Config) *Session {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.HandshakeTimeout <= 0 {
		cfg.HandshakeTimeout = defaultHandshakeTimeout
	}

	s := &Session{
		cfg:    cfg,
		dialer: &websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout},
		logger: cfg.Logger,
		subs:   make(map[realtime.EventType][]subscription),
		events: make(chan realtime.Envelope, 64),
		done:   make(chan struct{}),
	}
	go s.dispatch()
	return s
}

// Connect starts the connection. It is idempotent: calling it while a
// connection is live is a no-op, and it never returns transport errors;
// failures feed the retry machinery and surface through Status. A manual
// call after the retry cap restarts the attempt counter at zero.
func (s *Session) Connect() {
	s.mu.Lock()
	if s.closed || s.conn != nil {
		s.mu.Unlock()
		return
	}
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	s.attempts = 0
	s.mu.Unlock()

	s.dial()
}

// Status returns the current connection status.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Close tears the session down: pending retry timers are stopped so none
// can fire afterwards, and the transport is closed.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.retryTimer != nil {
		s.retryTimer.Stop()
		s.retryTimer = nil
	}
	conn := s.conn
	s.conn = nil
	s.status = Status{}
	s.mu.Unlock()

	close(s.done)
	if conn != nil {
		conn.Close()
	}
}

func (s *Session) dial() {
	conn, _, err := s.dialer.Dial(s.cfg.URL, nil)
	if err != nil {
		s.logger.Warn().Err(err).Str("url", s.cfg.URL).Msg("Connection attempt failed")
		s.connectionLost()
		return
	}

	// The room declaration goes out on every successful connect, first
	// message after the handshake: the server keeps no membership for a
	// dropped connection's new identifier.
	join := realtime.ActionJoinPublic
	if s.cfg.Role == RoleAdmin {
		join = realtime.ActionJoinAdmin
	}
	if err := conn.WriteJSON(map[string]string{"action": join}); err != nil {
		s.logger.Warn().Err(err).Msg("Room declaration failed")
		conn.Close()
		s.connectionLost()
		return
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		conn.Close()
		return
	}
	s.conn = conn
	s.attempts = 0
	s.status = Status{IsConnected: true}
	s.mu.Unlock()

	s.logger.Info().Str("role", string(s.cfg.Role)).Msg("Connected to realtime server")
	go s.readLoop(conn)
}

func (s *Session) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var env realtime.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			s.logger.Warn().Err(err).Msg("Unreadable server event")
			continue
		}

		select {
		case s.events <- env:
		case <-s.done:
			return
		}
	}

	conn.Close()

	s.mu.Lock()
	if s.closed || s.conn != conn {
		s.mu.Unlock()
		return
	}
	s.conn = nil
	s.scheduleRetryLocked()
	s.mu.Unlock()
}

// connectionLost handles a failed dial or join write.
func (s *Session) connectionLost() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.scheduleRetryLocked()
}

// scheduleRetryLocked advances the failure streak. Delay grows linearly
// with the attempt number: 1s, 2s, 3s, 4s, 5s. After MaxAttempts the
// session gives up until an external Connect call.
func (s *Session) scheduleRetryLocked() {
	if s.attempts >= s.cfg.MaxAttempts {
		s.status = Status{Err: ErrRetriesExhausted}
		s.logger.Error().Int("attempts", s.attempts).Msg("Reconnect attempts exhausted")
		return
	}

	s.attempts++
	s.status = Status{IsReconnecting: true}
	delay := s.cfg.ReconnectDelay * time.Duration(s.attempts)
	s.logger.Info().
		Int("attempt", s.attempts).
		Int("maxAttempts", s.cfg.MaxAttempts).
		Dur("delay", delay).
		Msg("Scheduling reconnect")
	s.retryTimer = time.AfterFunc(delay, s.redial)
}

func (s *Session) redial() {
	s.mu.Lock()
	if s.closed || s.conn != nil {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	s.dial()
}
