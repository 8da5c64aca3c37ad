package engine

import (
	"time"

	"github.com/edutanks/aquasim/internal/domain/tank"
)

// Scheduler answers due/overdue questions about routine states.
// It is purely computational: given the same routine and the same now, every
// call yields the same answer. Intervals are validated at construction, so
// there is no "always due" routine to special-case here.
type Scheduler struct{}

// IsOverdue reports whether now is strictly past the routine's due time.
func (Scheduler) IsOverdue(r *tank.RoutineState, now time.Time) bool {
	return now.After(r.NextDue())
}

// OverdueMagnitude returns how far past due the routine is, or zero when it
// is not overdue. The magnitude scales alert severity.
func (s Scheduler) OverdueMagnitude(r *tank.RoutineState, now time.Time) time.Duration {
	if !s.IsOverdue(r, now) {
		return 0
	}
	return now.Sub(r.NextDue())
}

// MarkPerformed records the routine as done at now; the next due time is
// derived from it. Any active overdue alert clears on the next computation
// because alerts are always recomputed from current state.
func (Scheduler) MarkPerformed(r *tank.RoutineState, now time.Time) {
	r.LastPerformed = now
}
