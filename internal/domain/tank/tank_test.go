package tank

import (
	"errors"
	"testing"
	"time"

	"github.com/edutanks/aquasim/internal/domain/species"
)

var testRange = TemperatureRange{Min: 0, Max: 40}

func testIntervals() map[RoutineKind]time.Duration {
	return map[RoutineKind]time.Duration{
		RoutineFeeding:     8 * time.Hour,
		RoutineCleaning:    24 * time.Hour,
		RoutineTemperature: 12 * time.Hour,
		RoutineExtra:       48 * time.Hour,
	}
}

func TestNewAquariumDefaults(t *testing.T) {
	createdAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	a, err := NewAquarium("AQ-0001", "Classroom A", 24, createdAt, testRange, testIntervals())
	if err != nil {
		t.Fatalf("Expected aquarium to be created, got error: %v", err)
	}

	if a.State != StateActive {
		t.Errorf("Expected new aquarium to be ACTIVE, got %s", a.State)
	}
	if a.CurrentTemperature != 24 {
		t.Errorf("Expected water to start at target 24, got %v", a.CurrentTemperature)
	}
	if a.Cleanliness != NewAquariumCleanliness {
		t.Errorf("Expected cleanliness %v, got %v", NewAquariumCleanliness, a.Cleanliness)
	}
	for _, kind := range AllRoutineKinds() {
		r, ok := a.Routines[kind]
		if !ok {
			t.Fatalf("Expected routine state for %s", kind)
		}
		if !r.LastPerformed.Equal(createdAt) {
			t.Errorf("Expected %s to count as performed at creation, got %v", kind, r.LastPerformed)
		}
	}
}

func TestNewAquariumRejectsTargetOutsideHardRange(t *testing.T) {
	_, err := NewAquarium("AQ-0001", "Hot Tub", 45, time.Now(), testRange, testIntervals())
	if !IsValidation(err) {
		t.Errorf("Expected validation error for 45°C target, got %v", err)
	}
}

func TestNewAquariumRejectsMissingOrInvalidIntervals(t *testing.T) {
	incomplete := testIntervals()
	delete(incomplete, RoutineCleaning)
	if _, err := NewAquarium("AQ-0001", "A", 24, time.Now(), testRange, incomplete); !IsValidation(err) {
		t.Errorf("Expected validation error for missing interval, got %v", err)
	}

	zeroed := testIntervals()
	zeroed[RoutineFeeding] = 0
	if _, err := NewAquarium("AQ-0001", "A", 24, time.Now(), testRange, zeroed); !IsValidation(err) {
		t.Errorf("Expected validation error for zero interval, got %v", err)
	}
}

func TestNewRoutineStateRejectsNonPositiveInterval(t *testing.T) {
	if _, err := NewRoutineState(RoutineFeeding, -time.Hour, time.Now()); !IsValidation(err) {
		t.Errorf("Expected validation error for negative interval, got %v", err)
	}
	if _, err := NewRoutineState(RoutineKind("SINGING"), time.Hour, time.Now()); !IsValidation(err) {
		t.Errorf("Expected validation error for unknown kind, got %v", err)
	}
}

func TestRoutineNextDueIsDerived(t *testing.T) {
	performedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	r, err := NewRoutineState(RoutineFeeding, 8*time.Hour, performedAt)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := performedAt.Add(8 * time.Hour)
	if !r.NextDue().Equal(want) {
		t.Errorf("Expected next due %v, got %v", want, r.NextDue())
	}

	// Moving LastPerformed moves the derived due time with it.
	r.LastPerformed = r.LastPerformed.Add(2 * time.Hour)
	if !r.NextDue().Equal(want.Add(2 * time.Hour)) {
		t.Errorf("Expected derived due time to follow LastPerformed")
	}
}

func TestNewFishDefaultsAndValidation(t *testing.T) {
	addedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	f, err := NewFish("FSH-0001", "Bubbles", species.Goldfish, addedAt)
	if err != nil {
		t.Fatalf("Expected fish to be created, got error: %v", err)
	}
	if f.Hunger != NewFishHunger || f.Health != NewFishHealth {
		t.Errorf("Expected default vitals %v/%v, got %v/%v", NewFishHunger, NewFishHealth, f.Hunger, f.Health)
	}
	if f.Stress != 0 {
		t.Errorf("Expected new fish to start unstressed, got %v", f.Stress)
	}

	if _, err := NewFish("FSH-0002", "Ghost", species.ID("KRAKEN"), addedAt); !errors.Is(err, ErrUnknownSpecies) {
		t.Errorf("Expected ErrUnknownSpecies, got %v", err)
	}
	if _, err := NewFish("", "Bubbles", species.Goldfish, addedAt); !IsValidation(err) {
		t.Errorf("Expected validation error for empty ID, got %v", err)
	}
}

func TestRemoveFishPreservesOrder(t *testing.T) {
	a, err := NewAquarium("AQ-0001", "A", 24, time.Now(), testRange, testIntervals())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, id := range []string{"FSH-0001", "FSH-0002", "FSH-0003"} {
		f, err := NewFish(id, "Fish "+id, species.Guppy, time.Now())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		a.Fish = append(a.Fish, f)
	}

	if err := a.RemoveFish("FSH-0002"); err != nil {
		t.Fatalf("Unexpected error removing fish: %v", err)
	}
	if len(a.Fish) != 2 || a.Fish[0].ID != "FSH-0001" || a.Fish[1].ID != "FSH-0003" {
		t.Errorf("Expected insertion order preserved after removal, got %v, %v", a.Fish[0].ID, a.Fish[1].ID)
	}

	if err := a.RemoveFish("FSH-0002"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for repeated removal, got %v", err)
	}
}

func TestCloneIsDeep(t *testing.T) {
	a, err := NewAquarium("AQ-0001", "A", 24, time.Now(), testRange, testIntervals())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	f, _ := NewFish("FSH-0001", "Bubbles", species.Goldfish, time.Now())
	a.Fish = append(a.Fish, f)

	c := a.Clone()
	c.Fish[0].Health = 1
	c.Routines[RoutineFeeding].LastPerformed = time.Now().Add(time.Hour)

	if a.Fish[0].Health == 1 {
		t.Error("Expected clone fish to be independent of the original")
	}
	if a.Routines[RoutineFeeding].LastPerformed.Equal(c.Routines[RoutineFeeding].LastPerformed) {
		t.Error("Expected clone routines to be independent of the original")
	}
}
