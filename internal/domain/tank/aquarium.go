// Package tank defines the core domain entities for the aquarium simulator.
// This package is PURE and must NOT import any infrastructure packages
// (network, events, platform, storage).
package tank

import (
	"fmt"
	"time"
)

// State models the aquarium lifecycle. There is no paused state: pausing is a
// property of whether the manager's Advance is called, not of the entity.
type State string

const (
	StateActive  State = "ACTIVE"
	StateRemoved State = "REMOVED"
)

// TemperatureRange is the hard bound for any water temperature value.
// Values outside it are a validation error on input and are clamped during
// simulation so the invariant can never break mid-tick.
type TemperatureRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether t lies inside the range.
func (r TemperatureRange) Contains(t float64) bool {
	return t >= r.Min && t <= r.Max
}

// Default cleanliness for a newly set up tank. Fresh water, but the gravel
// still carries some dust from the bag.
const NewAquariumCleanliness = 90.0

// Aquarium owns an insertion-ordered collection of fish and one routine
// state per routine kind.
type Aquarium struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	State     State     `json:"state"`
	CreatedAt time.Time `json:"created_at"`

	// TargetTemperature is what the heater is set to; CurrentTemperature
	// approaches it over time.
	TargetTemperature  float64 `json:"target_temperature"`
	CurrentTemperature float64 `json:"current_temperature"`

	// Cleanliness runs 0 (filthy) to 100 (spotless). It decays on its own
	// and is only restored by the cleaning routine.
	Cleanliness float64 `json:"cleanliness"`

	Fish     []*Fish                       `json:"fish"`
	Routines map[RoutineKind]*RoutineState `json:"routines"`
}

// NewAquarium builds a validated aquarium with default routine states.
// The water starts at the target temperature.
func NewAquarium(id, name string, target float64, createdAt time.Time, hardRange TemperatureRange, intervals map[RoutineKind]time.Duration) (*Aquarium, error) {
	if id == "" {
		return nil, &ValidationError{Field: "aquarium.id", Reason: "must not be empty"}
	}
	if name == "" {
		return nil, &ValidationError{Field: "aquarium.name", Reason: "must not be empty"}
	}
	if !hardRange.Contains(target) {
		return nil, &ValidationError{
			Field:  "aquarium.target_temperature",
			Reason: fmt.Sprintf("%.1f outside hard range [%.1f, %.1f]", target, hardRange.Min, hardRange.Max),
		}
	}

	a := &Aquarium{
		ID:                 id,
		Name:               name,
		State:              StateActive,
		CreatedAt:          createdAt,
		TargetTemperature:  target,
		CurrentTemperature: target,
		Cleanliness:        NewAquariumCleanliness,
		Fish:               make([]*Fish, 0),
		Routines:           make(map[RoutineKind]*RoutineState, len(intervals)),
	}

	for _, kind := range AllRoutineKinds() {
		interval, ok := intervals[kind]
		if !ok {
			return nil, &ValidationError{Field: "aquarium.routines", Reason: "missing interval for " + string(kind)}
		}
		rs, err := NewRoutineState(kind, interval, createdAt)
		if err != nil {
			return nil, err
		}
		a.Routines[kind] = rs
	}

	return a, nil
}

// FindFish returns the fish with the given ID, if present.
func (a *Aquarium) FindFish(id string) (*Fish, bool) {
	for _, f := range a.Fish {
		if f.ID == id {
			return f, true
		}
	}
	return nil, false
}

// RemoveFish deletes the fish with the given ID, preserving insertion order
// of the rest. Returns ErrNotFound when the ID is unknown.
func (a *Aquarium) RemoveFish(id string) error {
	for i, f := range a.Fish {
		if f.ID == id {
			a.Fish = append(a.Fish[:i], a.Fish[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("fish %q: %w", id, ErrNotFound)
}

// Clone returns a deep copy safe to hand outside the engine.
func (a *Aquarium) Clone() *Aquarium {
	c := *a
	c.Fish = make([]*Fish, len(a.Fish))
	for i, f := range a.Fish {
		c.Fish[i] = f.Clone()
	}
	c.Routines = make(map[RoutineKind]*RoutineState, len(a.Routines))
	for k, r := range a.Routines {
		c.Routines[k] = r.Clone()
	}
	return &c
}
