package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Message types exchanged with live clients.
const (
	TypeReportRequest = "report.request"
	TypeReportResult  = "report.result"
	TypeReportError   = "report.error"
	TypeDataChanged   = "data.changed"
)

// Message represents a message sent over WebSocket
type Message struct {
	Type string `json:"type"`

	// Set on report requests and their replies
	RequestID uint64 `json:"requestId,omitempty"`

	// Set on data.changed
	Entity string `json:"entity,omitempty"`
	Action string `json:"action,omitempty"`

	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of active clients and broadcasts change notifications to them
type Hub struct {
	clients map[*Client]bool

	// Outbound broadcasts, already encoded
	broadcast chan []byte

	register   chan *Client
	unregister chan *Client

	// Closed when Run returns
	done chan struct{}

	mu sync.RWMutex

	logger zerolog.Logger
	now    func() time.Time
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		logger:     logger,
		now:        time.Now,
	}
}

// Run handles client registrations and broadcasts until ctx is done.
// Remaining clients are disconnected on return.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case data := <-h.broadcast:
			h.broadcastMessage(data)

		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				delete(h.clients, client)
				client.close()
			}
			h.mu.Unlock()
			return
		}
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = true

	h.logger.Info().
		Str("accountID", client.accountID).
		Str("addr", client.remoteAddr()).
		Msg("Live client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		client.close()

		h.logger.Info().
			Str("accountID", client.accountID).
			Str("addr", client.remoteAddr()).
			Msg("Live client unregistered")
	}
}

// broadcastMessage sends data to every client. A client whose send buffer is full is dropped.
func (h *Hub) broadcastMessage(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if !client.queue(data) {
			delete(h.clients, client)
			client.close()
			h.logger.Warn().Str("accountID", client.accountID).Msg("Dropped slow live client")
		}
	}

	h.logger.Debug().Int("clientCount", len(h.clients)).Msg("Message broadcasted")
}

// Publish tells every connected client that entity changed. It never blocks; when the
// broadcast queue is full the notification is dropped.
func (h *Hub) Publish(entity, action string) {
	data, err := json.Marshal(Message{Type: TypeDataChanged, Entity: entity, Action: action, Timestamp: h.now()})
	if err != nil {
		h.logger.Error().Err(err).Str("entity", entity).Msg("Failed to marshal change notification")
		return
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn().Str("entity", entity).Str("action", action).Msg("Broadcast queue full, change notification dropped")
	}
}

// ClientsCount returns the number of connected clients
func (h *Hub) ClientsCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
