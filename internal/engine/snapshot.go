package engine

import (
	"time"

	"github.com/edutanks/aquasim/internal/domain/species"
	"github.com/edutanks/aquasim/internal/domain/tank"
)

// Snapshot is an immutable, JSON-serializable projection of all engine state.
// It is the unit of the persistence contract: ImportState(ExportState()) must
// reproduce identical observable state, timestamps included.
type Snapshot struct {
	TakenAt     time.Time          `json:"taken_at"` // simulated time
	AquariumSeq uint64             `json:"aquarium_seq"`
	FishSeq     uint64             `json:"fish_seq"`
	Aquariums   []AquariumSnapshot `json:"aquariums"`
}

// AquariumSnapshot is a deep copy of one aquarium. Removed aquariums are
// included with their terminal state so their IDs stay reserved across a
// save/load round trip.
type AquariumSnapshot struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	State              tank.State        `json:"state"`
	CreatedAt          time.Time         `json:"created_at"`
	TargetTemperature  float64           `json:"target_temperature"`
	CurrentTemperature float64           `json:"current_temperature"`
	Cleanliness        float64           `json:"cleanliness"`
	Fish               []FishSnapshot    `json:"fish"`
	Routines           []RoutineSnapshot `json:"routines"`
}

// FishSnapshot is a copy of one fish.
type FishSnapshot struct {
	ID      string     `json:"id"`
	Name    string     `json:"name"`
	Species species.ID `json:"species"`
	Hunger  float64    `json:"hunger"`
	Health  float64    `json:"health"`
	Stress  float64    `json:"stress"`
	AddedAt time.Time  `json:"added_at"`
}

// RoutineSnapshot is a copy of one routine state. NextDue is derived at copy
// time for the presentation layer; it is never read back on import.
type RoutineSnapshot struct {
	Kind          tank.RoutineKind `json:"kind"`
	Interval      time.Duration    `json:"interval"`
	LastPerformed time.Time        `json:"last_performed"`
	NextDue       time.Time        `json:"next_due"`
}

func snapshotAquarium(a *tank.Aquarium) AquariumSnapshot {
	s := AquariumSnapshot{
		ID:                 a.ID,
		Name:               a.Name,
		State:              a.State,
		CreatedAt:          a.CreatedAt,
		TargetTemperature:  a.TargetTemperature,
		CurrentTemperature: a.CurrentTemperature,
		Cleanliness:        a.Cleanliness,
		Fish:               make([]FishSnapshot, 0, len(a.Fish)),
		Routines:           make([]RoutineSnapshot, 0, len(a.Routines)),
	}
	for _, f := range a.Fish {
		s.Fish = append(s.Fish, FishSnapshot{
			ID:      f.ID,
			Name:    f.Name,
			Species: f.Species,
			Hunger:  f.Hunger,
			Health:  f.Health,
			Stress:  f.Stress,
			AddedAt: f.AddedAt,
		})
	}
	for _, kind := range tank.AllRoutineKinds() {
		if r, ok := a.Routines[kind]; ok {
			s.Routines = append(s.Routines, RoutineSnapshot{
				Kind:          r.Kind,
				Interval:      r.Interval,
				LastPerformed: r.LastPerformed,
				NextDue:       r.NextDue(),
			})
		}
	}
	return s
}
