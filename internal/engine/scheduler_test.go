package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edutanks/aquasim/internal/domain/tank"
)

func TestSchedulerIsOverdueStrictlyAfterDueTime(t *testing.T) {
	var s Scheduler
	performedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	r, err := tank.NewRoutineState(tank.RoutineCleaning, 24*time.Hour, performedAt)
	require.NoError(t, err)

	assert.False(t, s.IsOverdue(r, performedAt.Add(23*time.Hour)), "23h after a 24h routine must not be overdue")
	assert.False(t, s.IsOverdue(r, performedAt.Add(24*time.Hour)), "exactly at the due instant must not be overdue")
	assert.True(t, s.IsOverdue(r, performedAt.Add(25*time.Hour)), "25h after a 24h routine must be overdue")
}

func TestSchedulerOverdueMagnitude(t *testing.T) {
	var s Scheduler
	performedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	r, err := tank.NewRoutineState(tank.RoutineFeeding, 8*time.Hour, performedAt)
	require.NoError(t, err)

	assert.Equal(t, time.Duration(0), s.OverdueMagnitude(r, performedAt.Add(time.Hour)))
	assert.Equal(t, 2*time.Hour, s.OverdueMagnitude(r, performedAt.Add(10*time.Hour)))
}

func TestSchedulerMarkPerformedIsIdempotentPerInstant(t *testing.T) {
	var s Scheduler
	performedAt := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	r, err := tank.NewRoutineState(tank.RoutineFeeding, 8*time.Hour, performedAt)
	require.NoError(t, err)

	now := performedAt.Add(10 * time.Hour)
	s.MarkPerformed(r, now)
	first := r.NextDue()

	// Performing again at the same instant changes nothing.
	s.MarkPerformed(r, now)
	assert.Equal(t, first, r.NextDue())
	assert.False(t, s.IsOverdue(r, now), "a just-performed routine is not overdue")
}
