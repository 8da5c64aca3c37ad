// Package network provides the WebSocket fan-out to presentation clients.
// Dashboards receive every audit event; incoming messages are translated to
// documented manager commands, never direct state mutation.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/edutanks/aquasim/internal/engine"
	"github.com/edutanks/aquasim/internal/events"
	"github.com/edutanks/aquasim/internal/platform/logger"
	"github.com/edutanks/aquasim/internal/platform/metrics"
	"github.com/edutanks/aquasim/internal/platform/optimization"
)

// Hub maintains the set of active clients and broadcasts events to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex

	manager  *engine.Manager
	eventLog *events.EventLog
	logger   *logger.Logger
	tuning   *optimization.Config
}

// NewHub initializes a new WebSocket Hub.
func NewHub(m *engine.Manager, el *events.EventLog, log *logger.Logger, tuning *optimization.Config) *Hub {
	if tuning == nil {
		tuning = optimization.DefaultConfig()
	}
	return &Hub{
		broadcast:  make(chan []byte, tuning.BroadcastChannelBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		manager:    m,
		eventLog:   el,
		logger:     log,
		tuning:     tuning,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket hub shutting down")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.RecordWSConnection(1)
			h.logger.Info("new WebSocket client connected")
			h.replayTo(client)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected")
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
					metrics.RecordWSMessage()
				default:
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastEvent serializes an audit event and sends it to all clients.
func (h *Hub) BroadcastEvent(event events.SimEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to serialize event for broadcast: %v", err)
		return
	}
	h.broadcast <- payload
}

// replayTo catches a freshly connected client up with recent history, so a
// dashboard opened mid-session starts with context instead of a blank feed.
func (h *Hub) replayTo(client *Client) {
	for _, event := range h.eventLog.Recent(h.tuning.LedgerReplayLimit) {
		payload, err := json.Marshal(event)
		if err != nil {
			continue
		}
		select {
		case client.send <- payload:
		default:
			return // client already saturated; the live feed will catch up
		}
	}
}

// StartEventPoller spawns a goroutine that polls the event log and pushes new
// events to the hub. The hub stays decoupled from whoever appends events.
func (h *Hub) StartEventPoller(ctx context.Context) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessed := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				allEvents := h.eventLog.Replay()
				if len(allEvents) > lastProcessed {
					for _, event := range allEvents[lastProcessed:] {
						h.BroadcastEvent(event)
					}
					lastProcessed = len(allEvents)
				}
			}
		}
	}()
}
