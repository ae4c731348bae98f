// Package websocket streams license domain events to connected clients.
package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"alqcore/internal/license"
)

// Manager fans license events out to every connected WebSocket client.
type Manager struct {
	clients    map[*websocket.Conn]bool
	broadcast  chan license.Event
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	mutex      sync.RWMutex
	connMutex  map[*websocket.Conn]*sync.Mutex
	upgrader   websocket.Upgrader
	logger     *slog.Logger
}

// Options tunes the upgrade handshake.
type Options struct {
	// AllowedOrigins gates the handshake; an empty list allows requests
	// without an Origin header only.
	AllowedOrigins  []string
	ReadBufferSize  int
	WriteBufferSize int
}

// NewManager creates a WebSocket manager.
func NewManager(logger *slog.Logger, opts Options) *Manager {
	if opts.ReadBufferSize <= 0 {
		opts.ReadBufferSize = 1024
	}
	if opts.WriteBufferSize <= 0 {
		opts.WriteBufferSize = 1024
	}
	allowedOrigins := opts.AllowedOrigins
	m := &Manager{
		clients:    make(map[*websocket.Conn]bool),
		broadcast:  make(chan license.Event, 100),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		connMutex:  make(map[*websocket.Conn]*sync.Mutex),
		logger:     logger.With(slog.String("component", "websocket")),
	}
	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  opts.ReadBufferSize,
		WriteBufferSize: opts.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			for _, allowed := range allowedOrigins {
				if allowed == "*" || allowed == origin {
					return true
				}
			}
			return false
		},
	}
	return m
}

// Run processes register/unregister/broadcast until ctx is cancelled.
func (m *Manager) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			m.closeAll()
			return

		case client := <-m.register:
			m.mutex.Lock()
			m.clients[client] = true
			m.connMutex[client] = &sync.Mutex{}
			m.mutex.Unlock()
			m.logger.Info("client connected", slog.Int("total_clients", m.ClientCount()))

		case client := <-m.unregister:
			m.dropClient(client)

		case event := <-m.broadcast:
			m.mutex.RLock()
			clients := make([]*websocket.Conn, 0, len(m.clients))
			for client := range m.clients {
				clients = append(clients, client)
			}
			m.mutex.RUnlock()

			for _, client := range clients {
				if err := m.sendToClient(client, event); err != nil {
					// Drop in place. The unregister channel is drained
					// by this goroutine, so sending to it here would
					// block Run forever.
					m.dropClient(client)
				}
			}
		}
	}
}

// dropClient removes a client and closes its connection. Removing an
// already-removed client is a no-op.
func (m *Manager) dropClient(client *websocket.Conn) {
	m.mutex.Lock()
	if _, ok := m.clients[client]; ok {
		delete(m.clients, client)
		delete(m.connMutex, client)
		client.Close()
	}
	m.mutex.Unlock()
	m.logger.Info("client disconnected", slog.Int("total_clients", m.ClientCount()))
}

// ServeHTTP upgrades the connection and keeps it registered until the
// client goes away.
func (m *Manager) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.logger.Warn("upgrade failed", slog.String("error", err.Error()))
		return
	}

	m.register <- conn

	// Drain reads so close frames and pings are processed. Events flow
	// one way; anything the client sends is ignored.
	go func() {
		defer func() { m.unregister <- conn }()
		conn.SetReadLimit(512)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

// Broadcast queues an event for delivery to all clients. A full queue
// drops the event rather than blocking the lifecycle.
func (m *Manager) Broadcast(event license.Event) {
	select {
	case m.broadcast <- event:
	default:
		m.logger.Warn("broadcast queue full, dropping event",
			slog.String("event", string(event.Type)))
	}
}

func (m *Manager) sendToClient(client *websocket.Conn, event license.Event) error {
	m.mutex.RLock()
	mu, exists := m.connMutex[client]
	m.mutex.RUnlock()
	if !exists {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	client.SetWriteDeadline(time.Now().Add(10 * time.Second))
	if err := client.WriteJSON(event); err != nil {
		m.logger.Warn("write error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (m *Manager) closeAll() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for client := range m.clients {
		client.Close()
	}
	m.clients = make(map[*websocket.Conn]bool)
	m.connMutex = make(map[*websocket.Conn]*sync.Mutex)
}

// ClientCount returns the number of connected clients.
func (m *Manager) ClientCount() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}
