package engine

import (
	"fmt"
	"time"

	"github.com/edutanks/aquasim/internal/domain/rules"
	"github.com/edutanks/aquasim/internal/domain/tank"
)

// ConfigurationError reports an out-of-range global coefficient. It is
// detected at startup, before any aquarium exists.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration %s: %s", e.Setting, e.Reason)
}

// Config carries every tunable of the simulation engine.
type Config struct {
	// HardTemperatureRange bounds any temperature value in the system.
	HardTemperatureRange tank.TemperatureRange

	// DefaultIntervals are the routine recurrence periods a new aquarium
	// starts with, one per routine kind.
	DefaultIntervals map[tank.RoutineKind]time.Duration

	// HungryAlertAt is the hunger level that raises a Hungry alert.
	HungryAlertAt float64

	// UnhealthyAlertAt is the health level that raises an Unhealthy alert.
	UnhealthyAlertAt float64

	// TempAlertBand is the tolerated gap between current and target
	// temperature before a TemperatureOutOfRange alert is raised.
	TempAlertBand float64

	// Weights are the well-being rate constants.
	Weights rules.Weights
}

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		HardTemperatureRange: tank.TemperatureRange{Min: 0, Max: 40},
		DefaultIntervals: map[tank.RoutineKind]time.Duration{
			tank.RoutineFeeding:     8 * time.Hour,
			tank.RoutineCleaning:    24 * time.Hour,
			tank.RoutineTemperature: 12 * time.Hour,
			tank.RoutineExtra:       48 * time.Hour,
		},
		HungryAlertAt:    80,
		UnhealthyAlertAt: 30,
		TempAlertBand:    2.5,
		Weights:          rules.DefaultWeights(),
	}
}

// Validate checks every coefficient once, at startup. A failed validation is
// a ConfigurationError; the engine never re-checks these at runtime.
func (c Config) Validate() error {
	if c.HardTemperatureRange.Min >= c.HardTemperatureRange.Max {
		return &ConfigurationError{Setting: "hard_temperature_range", Reason: "min must be below max"}
	}
	for _, kind := range tank.AllRoutineKinds() {
		interval, ok := c.DefaultIntervals[kind]
		if !ok {
			return &ConfigurationError{Setting: "default_intervals", Reason: "missing " + string(kind)}
		}
		if interval <= 0 {
			return &ConfigurationError{Setting: "default_intervals." + string(kind), Reason: "must be positive"}
		}
	}
	if c.HungryAlertAt <= 0 || c.HungryAlertAt > 100 {
		return &ConfigurationError{Setting: "hungry_alert_at", Reason: "must be in (0, 100]"}
	}
	if c.UnhealthyAlertAt < 0 || c.UnhealthyAlertAt >= 100 {
		return &ConfigurationError{Setting: "unhealthy_alert_at", Reason: "must be in [0, 100)"}
	}
	if c.TempAlertBand <= 0 {
		return &ConfigurationError{Setting: "temp_alert_band", Reason: "must be positive"}
	}

	w := c.Weights
	if w.FeedingBaseline < 0 || w.FeedingBaseline > 100 {
		return &ConfigurationError{Setting: "weights.feeding_baseline", Reason: "must be in [0, 100]"}
	}
	if w.FeedingHealthBonus < 0 {
		return &ConfigurationError{Setting: "weights.feeding_health_bonus", Reason: "must not be negative"}
	}
	if w.CleanlinessDecayPerMin < 0 || w.DirtPenaltyPerPointMin < 0 ||
		w.HungerPenaltyPerPointMin < 0 || w.StressGainPerDegMin < 0 ||
		w.StressDecayPerMin < 0 || w.StressPenaltyPerPointMin < 0 || w.RecoveryPerMin < 0 {
		return &ConfigurationError{Setting: "weights", Reason: "rate constants must not be negative"}
	}
	if w.CleanThreshold < 0 || w.CleanThreshold > 100 {
		return &ConfigurationError{Setting: "weights.clean_threshold", Reason: "must be in [0, 100]"}
	}
	if w.MaxHealthDeltaPerTick <= 0 {
		return &ConfigurationError{Setting: "weights.max_health_delta_per_tick", Reason: "must be positive"}
	}
	if w.TempApproachMinutes <= 0 {
		return &ConfigurationError{Setting: "weights.temp_approach_minutes", Reason: "must be positive"}
	}
	return nil
}
