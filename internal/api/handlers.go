package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/edutanks/aquasim/internal/domain/species"
	"github.com/edutanks/aquasim/internal/domain/tank"
	"github.com/edutanks/aquasim/internal/engine"
	"github.com/edutanks/aquasim/internal/events"
	"github.com/edutanks/aquasim/internal/infra/cache"
	"github.com/edutanks/aquasim/internal/network"
	"github.com/edutanks/aquasim/internal/platform/logger"
	"github.com/edutanks/aquasim/internal/platform/metrics"
)

// Handler carries the dependencies shared by all HTTP endpoints. The cache
// is optional; when nil, reads always go to the manager.
type Handler struct {
	manager  *engine.Manager
	eventLog *events.EventLog
	hub      *network.Hub
	cache    *cache.SnapshotCache
	logger   *logger.Logger
	upgrader websocket.Upgrader
}

func NewHandler(m *engine.Manager, el *events.EventLog, hub *network.Hub, sc *cache.SnapshotCache, log *logger.Logger) *Handler {
	return &Handler{
		manager:  m,
		eventLog: el,
		hub:      hub,
		cache:    sc,
		logger:   log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Classroom deployments serve the dashboard from any origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// writeError maps domain errors onto HTTP status codes.
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, tank.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, tank.ErrUnknownSpecies), tank.IsValidation(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

type createAquariumRequest struct {
	Name              string            `json:"name"`
	TargetTemperature float64           `json:"target_temperature"`
	Intervals         map[string]string `json:"intervals,omitempty"` // kind -> Go duration string
}

func (h *Handler) CreateAquarium(c *gin.Context) {
	var req createAquariumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	cfg := engine.AquariumConfig{Name: req.Name, TargetTemperature: req.TargetTemperature}
	if len(req.Intervals) > 0 {
		cfg.Intervals = make(map[tank.RoutineKind]time.Duration, len(req.Intervals))
		for kind, raw := range req.Intervals {
			d, err := time.ParseDuration(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid interval for " + kind + ": " + raw})
				return
			}
			cfg.Intervals[tank.RoutineKind(kind)] = d
		}
	}

	id, err := h.manager.AddAquarium(cfg)
	metrics.RecordCommand("add_aquarium", err)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.appendEvent(events.EventTypeAquariumCreated, id, id, map[string]interface{}{"name": req.Name})
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *Handler) RemoveAquarium(c *gin.Context) {
	id := c.Param("id")
	err := h.manager.RemoveAquarium(id)
	metrics.RecordCommand("remove_aquarium", err)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.appendEvent(events.EventTypeAquariumRemoved, id, id, nil)
	h.invalidate(c, id)
	c.JSON(http.StatusOK, gin.H{"id": id, "state": string(tank.StateRemoved)})
}

func (h *Handler) ListAquariums(c *gin.Context) {
	s := h.manager.ExportState()
	c.JSON(http.StatusOK, gin.H{"sim_time": s.TakenAt, "aquariums": s.Aquariums})
}

func (h *Handler) GetAquarium(c *gin.Context) {
	id := c.Param("id")

	if h.cache != nil {
		if data, ok, err := h.cache.GetAquarium(c.Request.Context(), id); err == nil && ok {
			c.Data(http.StatusOK, "application/json", data)
			return
		}
	}

	snap, err := h.manager.Aquarium(id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if h.cache != nil {
		if err := h.cache.SetAquarium(c.Request.Context(), id, snap); err != nil {
			h.logger.Warn("failed to cache aquarium %s: %v", id, err)
		}
	}
	c.JSON(http.StatusOK, snap)
}

type addFishRequest struct {
	Name    string `json:"name"`
	Species string `json:"species"`
}

func (h *Handler) AddFish(c *gin.Context) {
	aqID := c.Param("id")
	var req addFishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	fishID, err := h.manager.AddFish(aqID, req.Name, species.ID(req.Species))
	metrics.RecordCommand("add_fish", err)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.appendEvent(events.EventTypeFishAdded, aqID, fishID, map[string]interface{}{"species": req.Species, "name": req.Name})
	h.invalidate(c, aqID)
	c.JSON(http.StatusCreated, gin.H{"id": fishID})
}

func (h *Handler) RemoveFish(c *gin.Context) {
	aqID := c.Param("id")
	fishID := c.Param("fish_id")

	err := h.manager.RemoveFish(aqID, fishID)
	metrics.RecordCommand("remove_fish", err)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.appendEvent(events.EventTypeFishRemoved, aqID, fishID, nil)
	h.invalidate(c, aqID)
	c.JSON(http.StatusOK, gin.H{"id": fishID})
}

func (h *Handler) PerformRoutine(c *gin.Context) {
	aqID := c.Param("id")
	kind := tank.RoutineKind(c.Param("kind"))

	err := h.manager.PerformRoutine(aqID, kind, h.manager.Now())
	metrics.RecordCommand("perform_routine", err)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.appendEvent(events.EventTypeRoutinePerformed, aqID, string(kind), map[string]interface{}{"kind": string(kind)})
	h.invalidate(c, aqID)
	c.JSON(http.StatusOK, gin.H{"aquarium_id": aqID, "kind": string(kind)})
}

type adjustTemperatureRequest struct {
	Target float64 `json:"target"`
}

func (h *Handler) AdjustTemperature(c *gin.Context) {
	aqID := c.Param("id")
	var req adjustTemperatureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	err := h.manager.AdjustTemperature(aqID, req.Target)
	metrics.RecordCommand("adjust_temperature", err)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.appendEvent(events.EventTypeTemperatureAdjusted, aqID, aqID, map[string]interface{}{"target": req.Target})
	h.invalidate(c, aqID)
	c.JSON(http.StatusOK, gin.H{"aquarium_id": aqID, "target": req.Target})
}

func (h *Handler) ListAlerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": h.manager.LastAlerts()})
}

func (h *Handler) ListDueRoutines(c *gin.Context) {
	due := h.manager.DueRoutines()
	if due == nil {
		due = []engine.DueRoutine{}
	}
	c.JSON(http.StatusOK, gin.H{"due": due})
}

type speciesView struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	HungerRatePerMin float64 `json:"hunger_rate_per_min"`
	HungerThreshold  float64 `json:"hunger_threshold"`
	TempMin          float64 `json:"temp_min"`
	TempMax          float64 `json:"temp_max"`
	InUse            bool    `json:"in_use"`
}

func (h *Handler) ListSpecies(c *gin.Context) {
	inUse := make(map[species.ID]bool)
	for _, id := range h.manager.SpeciesInUse() {
		inUse[id] = true
	}

	views := make([]speciesView, 0, len(species.Catalog))
	for _, id := range species.IDs() {
		def := species.Catalog[id]
		views = append(views, speciesView{
			ID:               string(id),
			Name:             def.Name,
			Description:      def.Description,
			HungerRatePerMin: def.HungerRatePerMin,
			HungerThreshold:  def.HungerThreshold,
			TempMin:          def.TempMin,
			TempMax:          def.TempMax,
			InUse:            inUse[id],
		})
	}
	c.JSON(http.StatusOK, gin.H{"species": views})
}

func (h *Handler) ListEvents(c *gin.Context) {
	if aqID := c.Query("aquarium_id"); aqID != "" {
		c.JSON(http.StatusOK, gin.H{"events": h.eventLog.GetByAquarium(aqID)})
		return
	}

	limit := 100
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"events": h.eventLog.Recent(limit)})
}

func (h *Handler) ExportState(c *gin.Context) {
	c.JSON(http.StatusOK, h.manager.ExportState())
}

func (h *Handler) ImportState(c *gin.Context) {
	var s engine.Snapshot
	if err := c.ShouldBindJSON(&s); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid snapshot body"})
		return
	}

	err := h.manager.ImportState(s)
	metrics.RecordCommand("import_state", err)
	if err != nil {
		h.writeError(c, err)
		return
	}

	h.appendEvent(events.EventTypeStateImported, "", "", map[string]interface{}{"aquariums": len(s.Aquariums)})
	c.JSON(http.StatusOK, gin.H{"aquariums": len(s.Aquariums), "sim_time": s.TakenAt})
}

// ServeWS upgrades the connection and attaches the client to the hub.
func (h *Handler) ServeWS(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed: %v", err)
		return
	}

	client := network.NewClient(h.hub, conn)
	client.Register()
	go client.WritePump()
	go client.ReadPump()
}

func (h *Handler) appendEvent(t events.EventType, aqID, subjectID string, payload map[string]interface{}) {
	h.eventLog.Append(events.SimEvent{
		ID:         events.GenerateEventID(),
		Timestamp:  time.Now(),
		SimTime:    h.manager.Now(),
		Type:       t,
		AquariumID: aqID,
		SubjectID:  subjectID,
		Payload:    payload,
	})
}

func (h *Handler) invalidate(c *gin.Context, aqID string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(c.Request.Context(), aqID); err != nil {
		h.logger.Warn("failed to invalidate cache for %s: %v", aqID, err)
	}
}
