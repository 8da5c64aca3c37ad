package engine

import (
	"time"

	"github.com/edutanks/aquasim/internal/domain/rules"
	"github.com/edutanks/aquasim/internal/domain/species"
	"github.com/edutanks/aquasim/internal/domain/tank"
	"github.com/edutanks/aquasim/internal/platform/logger"
)

// WellBeingSystem applies one discrete update of elapsed time to an aquarium
// and every fish in it. All arithmetic lives in the pure rules package; this
// system only sequences the steps and logs transitions.
type WellBeingSystem struct {
	cfg    Config
	logger *logger.Logger
}

// NewWellBeingSystem creates the per-tick update system.
func NewWellBeingSystem(cfg Config, log *logger.Logger) *WellBeingSystem {
	return &WellBeingSystem{cfg: cfg, logger: log}
}

// ApplyTick advances the aquarium by elapsed time. Zero or negative elapsed
// is a no-op: a stalled clock must not mutate anything.
func (ws *WellBeingSystem) ApplyTick(a *tank.Aquarium, elapsed time.Duration) {
	minutes := rules.Minutes(elapsed)
	if minutes <= 0 {
		return
	}
	w := ws.cfg.Weights

	// Water drifts toward the heater target, never outside the hard range.
	a.CurrentTemperature = rules.Clamp(
		rules.ApproachTemperature(a.CurrentTemperature, a.TargetTemperature, minutes, w.TempApproachMinutes),
		ws.cfg.HardTemperatureRange.Min, ws.cfg.HardTemperatureRange.Max,
	)

	// Cleanliness decays independent of fish count.
	a.Cleanliness = rules.CleanlinessStep(a.Cleanliness, minutes, w)

	for _, f := range a.Fish {
		def, ok := species.Get(f.Species)
		if !ok {
			// Construction validates species; an unknown one here means a
			// corrupted import and is worth shouting about.
			ws.logger.Error("fish %s references unknown species %s, skipping tick", f.ID, f.Species)
			continue
		}

		f.Hunger = rules.HungerStep(f.Hunger, def.HungerRatePerMin, minutes)
		f.Stress = rules.StressStep(f.Stress, a.CurrentTemperature, def.TempMin, def.TempMax, minutes, w)

		previous := f.Health
		f.Health = rules.HealthStep(rules.HealthInputs{
			Health:          f.Health,
			Hunger:          f.Hunger,
			HungerThreshold: def.HungerThreshold,
			Stress:          f.Stress,
			Cleanliness:     a.Cleanliness,
		}, minutes, w)

		if previous > 0 && f.Health <= 0 {
			ws.logger.Warn("CRITICAL: fish %s (%s) in aquarium %s reached health 0", f.ID, f.Name, a.ID)
		}
	}
}
