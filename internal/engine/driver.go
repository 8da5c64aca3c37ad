package engine

import (
	"context"
	"time"

	"github.com/edutanks/aquasim/internal/events"
	"github.com/edutanks/aquasim/internal/platform/logger"
	"github.com/edutanks/aquasim/internal/platform/metrics"
)

// TickPayload is the data attached to each TIME_TICK audit event.
type TickPayload struct {
	TickNumber int64         `json:"tick_number"`
	Elapsed    time.Duration `json:"elapsed"`
	SimTime    time.Time     `json:"sim_time"`
	Aquariums  int           `json:"aquariums"`
	Alerts     int           `json:"alerts"`
}

// Driver owns the heartbeat of a live deployment. It is the only component
// that reads wall time: it measures real elapsed time, scales it, and feeds
// it to Manager.Advance. Headless tests skip the Driver entirely and call
// Advance with synthetic durations.
type Driver struct {
	manager  *Manager
	eventLog *events.EventLog
	logger   *logger.Logger

	interval  time.Duration
	timeScale float64

	tickNumber int64
	lastTick   time.Time
	seenAlerts map[string]bool

	stopChan chan struct{}
}

// NewDriver creates a driver that advances the manager every interval,
// multiplying real elapsed time by timeScale.
func NewDriver(m *Manager, el *events.EventLog, log *logger.Logger, interval time.Duration, timeScale float64) *Driver {
	return &Driver{
		manager:    m,
		eventLog:   el,
		logger:     log,
		interval:   interval,
		timeScale:  timeScale,
		seenAlerts: make(map[string]bool),
		stopChan:   make(chan struct{}),
	}
}

// Start begins the tick loop. Call in a goroutine.
func (d *Driver) Start(ctx context.Context) {
	d.logger.Info("simulation driver started: every %s at %.1fx time scale", d.interval, d.timeScale)
	d.lastTick = time.Now()

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			d.logger.Info("simulation driver stopped by context")
			return
		case <-d.stopChan:
			d.logger.Info("simulation driver stopped manually")
			return
		case now := <-ticker.C:
			d.Tick(now)
		}
	}
}

// Stop gracefully stops the driver.
func (d *Driver) Stop() {
	close(d.stopChan)
}

// Tick applies one scaled wall-clock step and publishes audit events for the
// tick and for every newly-raised alert condition. Exported so the headless
// CLI can pump the loop itself.
func (d *Driver) Tick(now time.Time) {
	elapsed := time.Duration(float64(now.Sub(d.lastTick)) * d.timeScale)
	d.lastTick = now
	if elapsed <= 0 {
		return
	}

	start := time.Now()
	snapshot, alerts := d.manager.Advance(elapsed)
	metrics.RecordTick(time.Since(start))
	d.tickNumber++

	d.eventLog.Append(events.SimEvent{
		ID:        events.GenerateEventID(),
		Timestamp: now,
		SimTime:   snapshot.TakenAt,
		Type:      events.EventTypeTimeTick,
		Payload: TickPayload{
			TickNumber: d.tickNumber,
			Elapsed:    elapsed,
			SimTime:    snapshot.TakenAt,
			Aquariums:  len(snapshot.Aquariums),
			Alerts:     len(alerts),
		},
	})

	// Alerts are recomputed every tick; only newly-raised conditions are
	// worth an audit entry and a broadcast.
	current := make(map[string]bool, len(alerts))
	for _, a := range alerts {
		key := a.Key()
		current[key] = true
		if d.seenAlerts[key] {
			continue
		}
		metrics.RecordAlert(string(a.Kind))
		d.logger.Event("ALERT_RAISED", a.Subject, a.Message)
		d.eventLog.Append(events.SimEvent{
			ID:         events.GenerateEventID(),
			Timestamp:  now,
			SimTime:    a.RaisedAt,
			Type:       events.EventTypeAlertRaised,
			AquariumID: a.AquariumID,
			SubjectID:  a.Subject,
			Payload:    a,
		})
	}
	d.seenAlerts = current
}
