package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/edutanks/aquasim/internal/domain/tank"
)

// AlertKind categorizes a raised alert.
type AlertKind string

const (
	AlertHungry                AlertKind = "HUNGRY"
	AlertUnhealthy             AlertKind = "UNHEALTHY"
	AlertRoutineOverdue        AlertKind = "ROUTINE_OVERDUE"
	AlertTemperatureOutOfRange AlertKind = "TEMPERATURE_OUT_OF_RANGE"
)

// Severity grades an alert.
type Severity string

const (
	SeverityInfo     Severity = "INFO"
	SeverityWarning  Severity = "WARNING"
	SeverityCritical Severity = "CRITICAL"
)

// Alert is an ephemeral finding. Alerts are never stored: they are recomputed
// from current state on every Advance, so an identical state always yields an
// identical alert set.
type Alert struct {
	AquariumID string    `json:"aquarium_id"`
	Subject    string    `json:"subject"` // fish ID or routine kind
	Kind       AlertKind `json:"kind"`
	Severity   Severity  `json:"severity"`
	RaisedAt   time.Time `json:"raised_at"` // simulated time
	Message    string    `json:"message"`
}

// Key identifies the alert condition independent of when it was raised.
// The driver uses it to broadcast only newly-raised conditions.
func (a Alert) Key() string {
	return a.AquariumID + "/" + string(a.Kind) + "/" + a.Subject
}

// computeAlerts derives the alert set for one aquarium. Iteration order is
// fixed (temperature, routines in kind order, fish in insertion order) so the
// result is deterministic.
func computeAlerts(a *tank.Aquarium, now time.Time, cfg Config, sched Scheduler) []Alert {
	var alerts []Alert

	if gap := math.Abs(a.CurrentTemperature - a.TargetTemperature); gap > cfg.TempAlertBand {
		sev := SeverityWarning
		if gap > 2*cfg.TempAlertBand {
			sev = SeverityCritical
		}
		alerts = append(alerts, Alert{
			AquariumID: a.ID,
			Subject:    a.ID,
			Kind:       AlertTemperatureOutOfRange,
			Severity:   sev,
			RaisedAt:   now,
			Message:    fmt.Sprintf("water at %.1f°C, target %.1f°C", a.CurrentTemperature, a.TargetTemperature),
		})
	}

	for _, kind := range tank.AllRoutineKinds() {
		r, ok := a.Routines[kind]
		if !ok || !sched.IsOverdue(r, now) {
			continue
		}
		overdue := sched.OverdueMagnitude(r, now)
		sev := SeverityWarning
		if overdue >= r.Interval {
			sev = SeverityCritical
		}
		alerts = append(alerts, Alert{
			AquariumID: a.ID,
			Subject:    string(kind),
			Kind:       AlertRoutineOverdue,
			Severity:   sev,
			RaisedAt:   now,
			Message:    fmt.Sprintf("%s overdue by %s", kind, overdue.Truncate(time.Second)),
		})
	}

	for _, f := range a.Fish {
		if f.Hunger >= cfg.HungryAlertAt {
			sev := SeverityWarning
			if f.Hunger >= 100 {
				sev = SeverityCritical
			}
			alerts = append(alerts, Alert{
				AquariumID: a.ID,
				Subject:    f.ID,
				Kind:       AlertHungry,
				Severity:   sev,
				RaisedAt:   now,
				Message:    fmt.Sprintf("%s hunger at %.0f", f.Name, f.Hunger),
			})
		}
		if f.Health <= cfg.UnhealthyAlertAt {
			sev := SeverityWarning
			if f.IsCritical() {
				sev = SeverityCritical
			}
			alerts = append(alerts, Alert{
				AquariumID: a.ID,
				Subject:    f.ID,
				Kind:       AlertUnhealthy,
				Severity:   sev,
				RaisedAt:   now,
				Message:    fmt.Sprintf("%s health at %.0f", f.Name, f.Health),
			})
		}
	}

	return alerts
}
