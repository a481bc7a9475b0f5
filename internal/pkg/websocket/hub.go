// Package websocket streams bulk-run progress to dashboard clients. Each
// provisioning or lifecycle run gets a run id; clients subscribe to it and
// receive one event per processed student.
package websocket

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// ProgressEvent is one progress update for a bulk run.
type ProgressEvent struct {
	RunID     string    `json:"runId"`
	Operation string    `json:"operation"`
	Current   int       `json:"current"`
	Total     int       `json:"total"`
	Done      bool      `json:"done"`
	Timestamp time.Time `json:"timestamp"`
}

// Hub maintains the set of subscribed clients per run and fans events out to
// them. Broadcasting never blocks the bulk run: slow clients get dropped.
type Hub struct {
	clients map[string]map[*Client]bool

	broadcast  chan ProgressEvent
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		broadcast:  make(chan ProgressEvent, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub loop. Call it once in a goroutine at startup.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.runID] == nil {
				h.clients[client.runID] = make(map[*Client]bool)
			}
			h.clients[client.runID][client] = true
			h.mu.Unlock()
			h.logger.Debug().Str("runId", client.runID).Msg("Progress subscriber registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if subscribers, ok := h.clients[client.runID]; ok {
				if _, ok := subscribers[client]; ok {
					delete(subscribers, client)
					close(client.send)
					if len(subscribers) == 0 {
						delete(h.clients, client.runID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			for client := range h.clients[event.RunID] {
				select {
				case client.send <- event:
				default:
					// Subscriber is not keeping up; it will be unregistered
					// when its write pump exits.
					h.logger.Warn().Str("runId", event.RunID).Msg("Dropping slow progress subscriber")
					go func(c *Client) { h.unregister <- c }(client)
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Publish sends one progress event to the run's subscribers. Safe to call
// from any goroutine; events for runs with no subscribers are discarded.
func (h *Hub) Publish(event ProgressEvent) {
	event.Timestamp = time.Now()
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Str("runId", event.RunID).Msg("Progress broadcast buffer full, dropping event")
	}
}
