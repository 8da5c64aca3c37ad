package tank

import (
	"fmt"
	"time"

	"github.com/edutanks/aquasim/internal/domain/species"
)

// Default vitals for a freshly added fish. A new fish is a little hungry and
// slightly worn from transport, so feeding it is the first thing to do.
const (
	NewFishHunger = 35.0
	NewFishHealth = 95.0
)

// Fish represents one animal living in an aquarium.
// Hunger runs 0 (full) to 100 (starving). Health runs 0 (critical) to 100.
// A fish at health 0 is in a terminal critical state: it stays in the tank
// and is surfaced through alerts, never removed automatically.
type Fish struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Species species.ID `json:"species"`

	Hunger float64 `json:"hunger"`
	Health float64 `json:"health"`

	// Stress accumulates while the water temperature is outside the species'
	// tolerated band and decays back toward zero when it is not.
	Stress float64 `json:"stress"`

	AddedAt time.Time `json:"added_at"`
}

// NewFish builds a validated fish with default vitals.
func NewFish(id, name string, sp species.ID, addedAt time.Time) (*Fish, error) {
	if id == "" {
		return nil, &ValidationError{Field: "fish.id", Reason: "must not be empty"}
	}
	if name == "" {
		return nil, &ValidationError{Field: "fish.name", Reason: "must not be empty"}
	}
	if _, ok := species.Get(sp); !ok {
		return nil, fmt.Errorf("species %q: %w", sp, ErrUnknownSpecies)
	}
	return &Fish{
		ID:      id,
		Name:    name,
		Species: sp,
		Hunger:  NewFishHunger,
		Health:  NewFishHealth,
		AddedAt: addedAt,
	}, nil
}

// Age returns how long the fish has lived in the tank at the given sim time.
func (f *Fish) Age(now time.Time) time.Duration {
	return now.Sub(f.AddedAt)
}

// IsCritical reports whether the fish has reached the terminal health state.
func (f *Fish) IsCritical() bool {
	return f.Health <= 0
}

// Clone returns an independent copy.
func (f *Fish) Clone() *Fish {
	c := *f
	return &c
}
