package network

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"

	"github.com/edutanks/aquasim/internal/domain/tank"
	"github.com/edutanks/aquasim/internal/events"
	"github.com/edutanks/aquasim/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 512
	// Minimum gap between commands from a single client.
	commandCooldown = 2 * time.Second
)

// NewClient creates a new WebSocket client and returns it.
func NewClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:  hub,
		conn: conn,
		send: make(chan []byte, hub.tuning.ClientSendBuffer),
	}
}

// CaretakerAction represents an incoming command from a dashboard.
type CaretakerAction struct {
	Type       string          `json:"type"`        // "PERFORM_ROUTINE", "ADJUST_TEMPERATURE"
	AquariumID string          `json:"aquarium_id"` // Which tank the action targets
	Payload    json.RawMessage `json:"payload"`     // Action-specific data
}

// Client object to hold connection status. Holds a Hub ref to allow unregister.
type Client struct {
	hub            *Hub
	conn           *websocket.Conn
	send           chan []byte
	lastActionTime time.Time
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the hub.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("error: %v", err)
			}
			break
		}

		var action CaretakerAction
		if err := json.Unmarshal(message, &action); err != nil {
			c.hub.logger.Error("failed to parse CaretakerAction from WebSocket: %v", err)
			continue
		}

		c.handleCaretakerAction(action)
	}
}

func (c *Client) handleCaretakerAction(action CaretakerAction) {
	// Rate limiting check: dashboards spamming routines would let students
	// trivially mask neglect between ticks.
	if time.Since(c.lastActionTime) < commandCooldown {
		c.hub.logger.Warn("rate limit exceeded for client action on %s", action.AquariumID)
		return
	}
	c.lastActionTime = time.Now()

	switch action.Type {
	case "PERFORM_ROUTINE":
		c.handlePerformRoutine(action.AquariumID, action.Payload)
	case "ADJUST_TEMPERATURE":
		c.handleAdjustTemperature(action.AquariumID, action.Payload)
	default:
		c.hub.logger.Warn("unknown CaretakerAction type: %s", action.Type)
	}
}

func (c *Client) handlePerformRoutine(aquariumID string, rawPayload []byte) {
	var parsed struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("failed to parse routine payload for %s", aquariumID)
		return
	}

	kind := tank.RoutineKind(parsed.Kind)
	if !tank.ValidRoutineKind(kind) {
		c.hub.logger.Warn("attempted unknown routine kind %q on %s", parsed.Kind, aquariumID)
		return
	}

	err := c.hub.manager.PerformRoutine(aquariumID, kind, c.hub.manager.Now())
	metrics.RecordCommand("perform_routine", err)
	if err != nil {
		c.hub.logger.Warn("routine %s rejected for %s: %v", kind, aquariumID, err)
		return
	}

	c.hub.eventLog.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		SimTime:    c.hub.manager.Now(),
		Type:       events.EventTypeRoutinePerformed,
		AquariumID: aquariumID,
		SubjectID:  string(kind),
		Payload:    map[string]interface{}{"kind": string(kind), "source": "websocket"},
	})
	c.hub.logger.Event("CARETAKER_ROUTINE", aquariumID, "Performed "+string(kind)+" routine")
}

func (c *Client) handleAdjustTemperature(aquariumID string, rawPayload []byte) {
	var parsed struct {
		Target float64 `json:"target"`
	}
	if err := json.Unmarshal(rawPayload, &parsed); err != nil {
		c.hub.logger.Warn("failed to parse temperature payload for %s", aquariumID)
		return
	}

	err := c.hub.manager.AdjustTemperature(aquariumID, parsed.Target)
	metrics.RecordCommand("adjust_temperature", err)
	if err != nil {
		c.hub.logger.Warn("temperature adjustment rejected for %s: %v", aquariumID, err)
		return
	}

	c.hub.eventLog.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		SimTime:    c.hub.manager.Now(),
		Type:       events.EventTypeTemperatureAdjusted,
		AquariumID: aquariumID,
		SubjectID:  aquariumID,
		Payload:    map[string]interface{}{"target": parsed.Target, "source": "websocket"},
	})
	c.hub.logger.Event("CARETAKER_TEMPERATURE", aquariumID, "Adjusted heater target")
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket message.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
