package engine

import (
	"testing"
	"time"

	"github.com/edutanks/aquasim/internal/domain/species"
	"github.com/edutanks/aquasim/internal/domain/tank"
	"github.com/edutanks/aquasim/internal/platform/logger"
)

func newTestAquarium(t *testing.T, target float64) *tank.Aquarium {
	t.Helper()
	cfg := DefaultConfig()
	a, err := tank.NewAquarium("AQ-0001", "Test Tank", target, time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), cfg.HardTemperatureRange, cfg.DefaultIntervals)
	if err != nil {
		t.Fatalf("Unexpected error building aquarium: %v", err)
	}
	return a
}

func addTestFish(t *testing.T, a *tank.Aquarium, id string, sp species.ID) *tank.Fish {
	t.Helper()
	f, err := tank.NewFish(id, "Test "+id, sp, a.CreatedAt)
	if err != nil {
		t.Fatalf("Unexpected error building fish: %v", err)
	}
	a.Fish = append(a.Fish, f)
	return f
}

func TestApplyTickZeroElapsedIsNoop(t *testing.T) {
	ws := NewWellBeingSystem(DefaultConfig(), logger.NewLogger())
	a := newTestAquarium(t, 24)
	f := addTestFish(t, a, "FSH-0001", species.Goldfish)
	hungerBefore, cleanBefore := f.Hunger, a.Cleanliness

	ws.ApplyTick(a, 0)
	ws.ApplyTick(a, -time.Minute)

	if f.Hunger != hungerBefore || a.Cleanliness != cleanBefore {
		t.Errorf("Expected no mutation for non-positive elapsed, got hunger %v clean %v", f.Hunger, a.Cleanliness)
	}
}

func TestApplyTickCleanlinessAndHungerMove(t *testing.T) {
	ws := NewWellBeingSystem(DefaultConfig(), logger.NewLogger())
	a := newTestAquarium(t, 24)
	f := addTestFish(t, a, "FSH-0001", species.Goldfish)

	ws.ApplyTick(a, 30*time.Minute)

	if a.Cleanliness >= tank.NewAquariumCleanliness {
		t.Errorf("Expected cleanliness to decay below %v, got %v", tank.NewAquariumCleanliness, a.Cleanliness)
	}
	if f.Hunger <= tank.NewFishHunger {
		t.Errorf("Expected hunger to grow above %v, got %v", tank.NewFishHunger, f.Hunger)
	}
}

func TestApplyTickTemperatureMovesTowardTargetWithoutOvershoot(t *testing.T) {
	ws := NewWellBeingSystem(DefaultConfig(), logger.NewLogger())
	a := newTestAquarium(t, 20)
	a.TargetTemperature = 28 // heater turned up after setup

	ws.ApplyTick(a, 10*time.Minute)
	if a.CurrentTemperature <= 20 || a.CurrentTemperature >= 28 {
		t.Errorf("Expected water between 20 and 28 mid-approach, got %v", a.CurrentTemperature)
	}

	ws.ApplyTick(a, 24*time.Hour)
	if a.CurrentTemperature > 28 {
		t.Errorf("Expected water to never overshoot target, got %v", a.CurrentTemperature)
	}
}

func TestApplyTickStressAccumulatesOutsideSpeciesBand(t *testing.T) {
	ws := NewWellBeingSystem(DefaultConfig(), logger.NewLogger())

	// Betta tolerates 24-30; a tank at 18 is well below its band.
	a := newTestAquarium(t, 18)
	f := addTestFish(t, a, "FSH-0001", species.Betta)

	ws.ApplyTick(a, 20*time.Minute)
	if f.Stress == 0 {
		t.Error("Expected cold water to stress a betta")
	}

	// Warm the water back into the band; stress decays.
	a.TargetTemperature = 26
	a.CurrentTemperature = 26
	stressed := f.Stress
	ws.ApplyTick(a, 20*time.Minute)
	if f.Stress >= stressed {
		t.Errorf("Expected stress to decay in tolerated water, got %v (was %v)", f.Stress, stressed)
	}
}

func TestApplyTickProlongedNeglectReachesCriticalButNeverBelowZero(t *testing.T) {
	ws := NewWellBeingSystem(DefaultConfig(), logger.NewLogger())
	a := newTestAquarium(t, 24)
	f := addTestFish(t, a, "FSH-0001", species.Goldfish)

	// Many small ticks so the per-tick cap does not hide the decline.
	for i := 0; i < 10000; i++ {
		ws.ApplyTick(a, 30*time.Minute)
	}

	if !f.IsCritical() {
		t.Errorf("Expected total neglect to reach the critical state, health %v", f.Health)
	}
	if f.Health < 0 || f.Hunger > 100 || a.Cleanliness < 0 {
		t.Errorf("Vitals escaped their bounds: health %v hunger %v clean %v", f.Health, f.Hunger, a.Cleanliness)
	}
	if len(a.Fish) != 1 {
		t.Error("Expected critical fish to stay in the tank")
	}
}
