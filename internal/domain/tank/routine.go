package tank

import "time"

// RoutineKind identifies a recurring maintenance action.
type RoutineKind string

const (
	RoutineFeeding     RoutineKind = "FEEDING"
	RoutineCleaning    RoutineKind = "CLEANING"
	RoutineTemperature RoutineKind = "TEMPERATURE"
	RoutineExtra       RoutineKind = "EXTRA"
)

// AllRoutineKinds lists every kind in the fixed order used for iteration.
// The order is stable so alert sets and snapshots are deterministic.
func AllRoutineKinds() []RoutineKind {
	return []RoutineKind{RoutineFeeding, RoutineCleaning, RoutineTemperature, RoutineExtra}
}

// ValidRoutineKind reports whether k names a known routine kind.
func ValidRoutineKind(k RoutineKind) bool {
	switch k {
	case RoutineFeeding, RoutineCleaning, RoutineTemperature, RoutineExtra:
		return true
	}
	return false
}

// RoutineState tracks when a routine was last performed for one aquarium.
// The next-due time is always derived from LastPerformed + Interval and is
// never stored, so the two can never drift out of sync.
type RoutineState struct {
	Kind          RoutineKind   `json:"kind"`
	Interval      time.Duration `json:"interval"`
	LastPerformed time.Time     `json:"last_performed"`
}

// NewRoutineState builds a validated routine state.
// A zero or negative interval is a configuration error: it would make the
// routine "always due", so it is rejected here instead of handled at runtime.
func NewRoutineState(kind RoutineKind, interval time.Duration, performedAt time.Time) (*RoutineState, error) {
	if !ValidRoutineKind(kind) {
		return nil, &ValidationError{Field: "routine.kind", Reason: "unknown kind " + string(kind)}
	}
	if interval <= 0 {
		return nil, &ValidationError{Field: "routine.interval", Reason: "must be positive"}
	}
	return &RoutineState{
		Kind:          kind,
		Interval:      interval,
		LastPerformed: performedAt,
	}, nil
}

// NextDue returns the derived due time for the next performance.
func (r *RoutineState) NextDue() time.Time {
	return r.LastPerformed.Add(r.Interval)
}

// Clone returns an independent copy.
func (r *RoutineState) Clone() *RoutineState {
	c := *r
	return &c
}
