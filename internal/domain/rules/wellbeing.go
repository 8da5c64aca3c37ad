// Package rules contains the pure calculation logic for fish well-being.
// This package is PURE and must NOT import any infrastructure packages.
//
// Every factor (hunger, temperature stress, cleanliness) grows or decays
// independently; only the health step aggregates them. That keeps each factor
// testable on its own and lets the educational panel answer "why is this fish
// unhealthy?" from the individual values.
package rules

import (
	"math"
	"time"
)

// Weights holds every named constant of the simulation. Nothing in this
// package invents a number: the values are threaded in from the engine
// configuration so tests can pin them down.
type Weights struct {
	// FeedingBaseline is what hunger drops to when fish are fed. It is not
	// zero so repeated feeding carries no overfeeding incentive.
	FeedingBaseline float64

	// FeedingHealthBonus is the immediate health gain on feeding.
	FeedingHealthBonus float64

	// CleanlinessDecayPerMin is subtracted from cleanliness per sim minute.
	CleanlinessDecayPerMin float64

	// CleanThreshold is the cleanliness below which fish take dirt damage.
	CleanThreshold float64

	// DirtPenaltyPerPointMin scales damage per point below CleanThreshold
	// per sim minute.
	DirtPenaltyPerPointMin float64

	// HungerPenaltyPerPointMin scales damage per hunger point above the
	// species threshold per sim minute.
	HungerPenaltyPerPointMin float64

	// StressGainPerDegMin scales stress growth per degree of temperature
	// deviation outside the species band per sim minute.
	StressGainPerDegMin float64

	// StressDecayPerMin is how fast stress fades once temperature is back
	// in the tolerated band.
	StressDecayPerMin float64

	// StressPenaltyPerPointMin scales damage per stress point per sim minute.
	StressPenaltyPerPointMin float64

	// RecoveryPerMin is the bounded health regeneration when hunger, stress,
	// and cleanliness are all within healthy range.
	RecoveryPerMin float64

	// MaxHealthDeltaPerTick caps the health change of a single tick no
	// matter how large the elapsed time was, so a paused and resumed clock
	// cannot kill a tank instantly.
	MaxHealthDeltaPerTick float64

	// TempApproachMinutes is the exponential time constant with which the
	// water temperature approaches the heater target.
	TempApproachMinutes float64
}

// DefaultWeights returns the documented default constants.
// Decay and penalty rates follow the tuning of the desktop original.
func DefaultWeights() Weights {
	return Weights{
		FeedingBaseline:          20,
		FeedingHealthBonus:       8,
		CleanlinessDecayPerMin:   0.18,
		CleanThreshold:           40,
		DirtPenaltyPerPointMin:   0.01,
		HungerPenaltyPerPointMin: 0.02,
		StressGainPerDegMin:      0.5,
		StressDecayPerMin:        1.0,
		StressPenaltyPerPointMin: 0.015,
		RecoveryPerMin:           0.05,
		MaxHealthDeltaPerTick:    10,
		TempApproachMinutes:      18,
	}
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Minutes converts an elapsed duration to simulation minutes.
func Minutes(elapsed time.Duration) float64 {
	return elapsed.Minutes()
}

// ApproachTemperature moves current toward target with an exponential lag.
// With tau minutes as the time constant, one tau covers ~63% of the gap.
func ApproachTemperature(current, target, minutes, tau float64) float64 {
	if minutes <= 0 || tau <= 0 {
		return current
	}
	ratio := 1 - math.Exp(-minutes/tau)
	return current + (target-current)*ratio
}

// HungerStep grows hunger by the species rate, clamped to [0, 100].
func HungerStep(hunger, ratePerMin, minutes float64) float64 {
	return Clamp(hunger+ratePerMin*minutes, 0, 100)
}

// CleanlinessStep decays cleanliness over time, clamped at 0.
func CleanlinessStep(cleanliness, minutes float64, w Weights) float64 {
	return Clamp(cleanliness-w.CleanlinessDecayPerMin*minutes, 0, 100)
}

// StressStep accumulates stress while waterTemp is outside [tolMin, tolMax]
// and decays it otherwise. Result is clamped to [0, 100].
func StressStep(stress, waterTemp, tolMin, tolMax, minutes float64, w Weights) float64 {
	var deviation float64
	switch {
	case waterTemp < tolMin:
		deviation = tolMin - waterTemp
	case waterTemp > tolMax:
		deviation = waterTemp - tolMax
	}

	if deviation > 0 {
		stress += deviation * w.StressGainPerDegMin * minutes
	} else {
		stress -= w.StressDecayPerMin * minutes
	}
	return Clamp(stress, 0, 100)
}

// HealthInputs carries the factors that feed one health step.
type HealthInputs struct {
	Health          float64
	Hunger          float64
	HungerThreshold float64
	Stress          float64
	Cleanliness     float64
}

// HealthStep aggregates the three penalty factors into one health change.
// The net delta of a single step is capped at ±MaxHealthDeltaPerTick
// regardless of the elapsed time, and the result is clamped to [0, 100].
func HealthStep(in HealthInputs, minutes float64, w Weights) float64 {
	var penalty float64
	if excess := in.Hunger - in.HungerThreshold; excess > 0 {
		penalty += excess * w.HungerPenaltyPerPointMin * minutes
	}
	if in.Stress > 0 {
		penalty += in.Stress * w.StressPenaltyPerPointMin * minutes
	}
	if deficit := w.CleanThreshold - in.Cleanliness; deficit > 0 {
		penalty += deficit * w.DirtPenaltyPerPointMin * minutes
	}

	var delta float64
	if penalty > 0 {
		delta = -penalty
	} else {
		delta = w.RecoveryPerMin * minutes
	}

	delta = Clamp(delta, -w.MaxHealthDeltaPerTick, w.MaxHealthDeltaPerTick)
	return Clamp(in.Health+delta, 0, 100)
}

// Feed applies the immediate feeding adjustment: hunger drops to the
// baseline when above it, and health gets a small bounded bonus.
func Feed(hunger, health float64, w Weights) (newHunger, newHealth float64) {
	if hunger > w.FeedingBaseline {
		hunger = w.FeedingBaseline
	}
	// A fish already in the terminal critical state does not bounce back
	// from a pinch of flakes.
	if health > 0 {
		health = Clamp(health+w.FeedingHealthBonus, 0, 100)
	}
	return hunger, health
}
