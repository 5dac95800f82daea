package websockets

import (
	"encoding/json"
	"server/internal/logger"
	"sync"

	"github.com/gofiber/websocket/v2"
)

// socket is the write surface of one connection. The underlying
// library allows a single concurrent writer per connection, so every
// write goes through the owning client's lock.
type socket interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// client pairs a connection with its write lock. Pool workers finishing
// different jobs for the same user would otherwise write concurrently.
type client struct {
	mu   sync.Mutex
	sock socket
}

func (c *client) write(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sock.WriteMessage(websocket.TextMessage, payload)
}

// Manager pushes analysis lifecycle events to connected dashboards.
// Connections are keyed by user id; a user can keep several tabs open.
type Manager struct {
	log   logger.Logger
	mu    sync.RWMutex
	conns map[string][]*client
}

func New() *Manager {
	return &Manager{
		log:   logger.New("websockets"),
		conns: make(map[string][]*client),
	}
}

// HandleWebSocket owns the connection until the client goes away. The
// auth middleware stores the user id in Locals before the upgrade.
func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")

	userID, ok := c.Locals("userID").(string)
	if !ok || userID == "" {
		log.Warn("websocket connection without user, closing")
		_ = c.Close()
		return
	}

	cl := m.register(userID, c)
	defer m.unregister(userID, cl)

	log.Info("websocket connected", "userID", userID)

	// Reads are only used to detect disconnects; clients never send
	// anything meaningful.
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}

	log.Info("websocket disconnected", "userID", userID)
}

func (m *Manager) register(userID string, s socket) *client {
	cl := &client{sock: s}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[userID] = append(m.conns[userID], cl)
	return cl
}

func (m *Manager) unregister(userID string, cl *client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	conns := m.conns[userID]
	for i, c := range conns {
		if c == cl {
			m.conns[userID] = append(conns[:i], conns[i+1:]...)
			break
		}
	}
	if len(m.conns[userID]) == 0 {
		delete(m.conns, userID)
	}
	_ = cl.sock.Close()
}

type event struct {
	Type  string         `json:"type"`
	JobID string         `json:"jobId"`
	Data  map[string]any `json:"data,omitempty"`
	Error string         `json:"error,omitempty"`
}

func (m *Manager) send(userID string, ev event) {
	log := m.log.Function("send")

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Er("failed to marshal websocket event", err, "type", ev.Type)
		return
	}

	m.mu.RLock()
	conns := append([]*client(nil), m.conns[userID]...)
	m.mu.RUnlock()

	for _, cl := range conns {
		if err := cl.write(payload); err != nil {
			log.Warn("failed to write websocket event", "userID", userID, "error", err)
		}
	}
}

func (m *Manager) SendAnalysisProgress(userID, jobID string, data map[string]any) {
	m.send(userID, event{Type: "analysis_progress", JobID: jobID, Data: data})
}

func (m *Manager) SendAnalysisComplete(userID, jobID string, data map[string]any) {
	m.send(userID, event{Type: "analysis_complete", JobID: jobID, Data: data})
}

func (m *Manager) SendAnalysisError(userID, jobID string, errorMsg string) {
	m.send(userID, event{Type: "analysis_error", JobID: jobID, Error: errorMsg})
}
