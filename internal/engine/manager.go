package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/edutanks/aquasim/internal/domain/rules"
	"github.com/edutanks/aquasim/internal/domain/species"
	"github.com/edutanks/aquasim/internal/domain/tank"
	"github.com/edutanks/aquasim/internal/platform/logger"
)

// Manager owns the collection of aquariums and is the single writer of all
// simulation state. Every public operation is serialized behind one mutex;
// reads hand out deep copies so the presentation layer never observes an
// in-progress mutation.
//
// Time only moves through Advance. Commands mutate state immediately but
// never touch hunger, health, cleanliness, or stress implicitly.
type Manager struct {
	mu sync.Mutex

	cfg       Config
	logger    *logger.Logger
	wellbeing *WellBeingSystem
	scheduler Scheduler

	now   time.Time
	order []string // aquarium IDs in insertion order
	tanks map[string]*tank.Aquarium

	aquariumSeq uint64
	fishSeq     uint64

	lastAlerts []Alert
}

// AquariumConfig is the user-facing creation payload.
type AquariumConfig struct {
	Name              string
	TargetTemperature float64
	// Intervals optionally overrides the default routine recurrence periods.
	Intervals map[tank.RoutineKind]time.Duration
}

// NewManager validates the configuration and returns an empty manager whose
// simulated clock starts at startAt.
func NewManager(cfg Config, startAt time.Time, log *logger.Logger) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Manager{
		cfg:       cfg,
		logger:    log,
		wellbeing: NewWellBeingSystem(cfg, log),
		now:       startAt,
		tanks:     make(map[string]*tank.Aquarium),
	}, nil
}

// Now returns the current simulated time.
func (m *Manager) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// AddAquarium creates a new aquarium with default routine states for every
// routine kind and returns its ID. IDs are sequential and never reused.
func (m *Manager) AddAquarium(cfg AquariumConfig) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	intervals := make(map[tank.RoutineKind]time.Duration, len(m.cfg.DefaultIntervals))
	for kind, d := range m.cfg.DefaultIntervals {
		intervals[kind] = d
	}
	for kind, d := range cfg.Intervals {
		if !tank.ValidRoutineKind(kind) {
			return "", &tank.ValidationError{Field: "aquarium.intervals", Reason: "unknown kind " + string(kind)}
		}
		intervals[kind] = d
	}

	id := fmt.Sprintf("AQ-%04d", m.aquariumSeq+1)
	a, err := tank.NewAquarium(id, cfg.Name, cfg.TargetTemperature, m.now, m.cfg.HardTemperatureRange, intervals)
	if err != nil {
		return "", err
	}

	m.aquariumSeq++
	m.tanks[id] = a
	m.order = append(m.order, id)
	m.logger.Event("AQUARIUM_CREATED", id, cfg.Name)
	return id, nil
}

// RemoveAquarium transitions an aquarium from Active to Removed. The entity
// stays known (its ID is never reused) but is excluded from all future ticks.
func (m *Manager) RemoveAquarium(aqID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.activeLocked(aqID)
	if err != nil {
		return err
	}
	a.State = tank.StateRemoved
	m.logger.Event("AQUARIUM_REMOVED", aqID, a.Name)
	return nil
}

// AddFish creates a fish in the given aquarium and returns its ID.
// The name may be empty, in which case the species name is used.
func (m *Manager) AddFish(aqID, name string, sp species.ID) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.activeLocked(aqID)
	if err != nil {
		return "", err
	}
	def, ok := species.Get(sp)
	if !ok {
		return "", fmt.Errorf("species %q: %w", sp, tank.ErrUnknownSpecies)
	}
	if name == "" {
		name = def.Name
	}

	id := fmt.Sprintf("FSH-%04d", m.fishSeq+1)
	f, err := tank.NewFish(id, name, sp, m.now)
	if err != nil {
		return "", err
	}

	m.fishSeq++
	a.Fish = append(a.Fish, f)
	m.logger.Event("FISH_ADDED", id, name+" ("+string(sp)+") into "+aqID)
	return id, nil
}

// RemoveFish deletes a fish. Removal is always an explicit user action; the
// engine never removes a fish on its own, critical or not.
func (m *Manager) RemoveFish(aqID, fishID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.activeLocked(aqID)
	if err != nil {
		return err
	}
	if err := a.RemoveFish(fishID); err != nil {
		return err
	}
	m.logger.Event("FISH_REMOVED", fishID, "from "+aqID)
	return nil
}

// PerformRoutine records the routine as done at now and applies its immediate
// adjustment: feeding lowers every fish's hunger to the baseline, cleaning
// restores cleanliness, the temperature check resets accumulated stress
// tracking (not the water temperature), and the extra routine only resets
// its timer.
func (m *Manager) PerformRoutine(aqID string, kind tank.RoutineKind, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.activeLocked(aqID)
	if err != nil {
		return err
	}
	r, ok := a.Routines[kind]
	if !ok {
		return &tank.ValidationError{Field: "routine.kind", Reason: "unknown kind " + string(kind)}
	}

	switch kind {
	case tank.RoutineFeeding:
		for _, f := range a.Fish {
			f.Hunger, f.Health = rules.Feed(f.Hunger, f.Health, m.cfg.Weights)
		}
	case tank.RoutineCleaning:
		a.Cleanliness = 100
	case tank.RoutineTemperature:
		for _, f := range a.Fish {
			f.Stress = 0
		}
	case tank.RoutineExtra:
		// Timer only.
	}

	m.scheduler.MarkPerformed(r, now)
	m.logger.Event("ROUTINE_PERFORMED", aqID, string(kind))
	return nil
}

// AdjustTemperature sets the heater target. The water itself only moves
// toward it on subsequent Advance calls.
func (m *Manager) AdjustTemperature(aqID string, target float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, err := m.activeLocked(aqID)
	if err != nil {
		return err
	}
	if !m.cfg.HardTemperatureRange.Contains(target) {
		return &tank.ValidationError{
			Field:  "aquarium.target_temperature",
			Reason: fmt.Sprintf("%.1f outside hard range [%.1f, %.1f]", target, m.cfg.HardTemperatureRange.Min, m.cfg.HardTemperatureRange.Max),
		}
	}
	a.TargetTemperature = target
	m.logger.Event("TEMPERATURE_ADJUSTED", aqID, fmt.Sprintf("target %.1f°C", target))
	return nil
}

// Advance is the single entry point driving all time-based state change.
// It moves the simulated clock by elapsed, updates every Active aquarium,
// and returns an immutable snapshot plus the full current alert set. It never
// fails for valid pre-existing state: any elapsed value, including zero or
// very large ones, is tolerated (per-tick health deltas are capped).
func (m *Manager) Advance(elapsed time.Duration) (Snapshot, []Alert) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elapsed > 0 {
		m.now = m.now.Add(elapsed)
		for _, id := range m.order {
			a := m.tanks[id]
			if a.State != tank.StateActive {
				continue
			}
			m.wellbeing.ApplyTick(a, elapsed)
		}
	}

	alerts := make([]Alert, 0)
	for _, id := range m.order {
		a := m.tanks[id]
		if a.State != tank.StateActive {
			continue
		}
		alerts = append(alerts, computeAlerts(a, m.now, m.cfg, m.scheduler)...)
	}
	m.lastAlerts = alerts

	return m.exportLocked(), append([]Alert(nil), alerts...)
}

// LastAlerts returns a copy of the alert set from the most recent Advance.
func (m *Manager) LastAlerts() []Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Alert(nil), m.lastAlerts...)
}

// DueRoutine names one overdue routine for the maintenance checklist.
type DueRoutine struct {
	AquariumID string           `json:"aquarium_id"`
	Kind       tank.RoutineKind `json:"kind"`
	NextDue    time.Time        `json:"next_due"`
	OverdueBy  time.Duration    `json:"overdue_by"`
}

// DueRoutines lists every overdue routine across all Active aquariums at the
// current simulated time.
func (m *Manager) DueRoutines() []DueRoutine {
	m.mu.Lock()
	defer m.mu.Unlock()

	var due []DueRoutine
	for _, id := range m.order {
		a := m.tanks[id]
		if a.State != tank.StateActive {
			continue
		}
		for _, kind := range tank.AllRoutineKinds() {
			r, ok := a.Routines[kind]
			if !ok || !m.scheduler.IsOverdue(r, m.now) {
				continue
			}
			due = append(due, DueRoutine{
				AquariumID: id,
				Kind:       kind,
				NextDue:    r.NextDue(),
				OverdueBy:  m.scheduler.OverdueMagnitude(r, m.now),
			})
		}
	}
	return due
}

// ExportState returns the full serializable snapshot for persistence.
func (m *Manager) ExportState() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exportLocked()
}

// Aquarium returns a deep copy of one aquarium's snapshot, removed or not.
func (m *Manager) Aquarium(aqID string) (AquariumSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.tanks[aqID]
	if !ok {
		return AquariumSnapshot{}, fmt.Errorf("aquarium %q: %w", aqID, tank.ErrNotFound)
	}
	return snapshotAquarium(a), nil
}

// SpeciesInUse lists the distinct species present in current state, for the
// educational content collaborator. Order follows first appearance.
func (m *Manager) SpeciesInUse() []species.ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[species.ID]bool)
	var ids []species.ID
	for _, id := range m.order {
		for _, f := range m.tanks[id].Fish {
			if !seen[f.Species] {
				seen[f.Species] = true
				ids = append(ids, f.Species)
			}
		}
	}
	return ids
}

// ImportState rehydrates the manager from a snapshot, replacing all current
// state. Every entity passes back through its validated constructor and every
// vital is bounds-checked, so a corrupted snapshot is rejected without
// partial mutation.
func (m *Manager) ImportState(s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	order := make([]string, 0, len(s.Aquariums))
	tanks := make(map[string]*tank.Aquarium, len(s.Aquariums))

	for _, as := range s.Aquariums {
		intervals := make(map[tank.RoutineKind]time.Duration, len(as.Routines))
		for _, rs := range as.Routines {
			intervals[rs.Kind] = rs.Interval
		}
		a, err := tank.NewAquarium(as.ID, as.Name, as.TargetTemperature, as.CreatedAt, m.cfg.HardTemperatureRange, intervals)
		if err != nil {
			return fmt.Errorf("import aquarium %s: %w", as.ID, err)
		}
		if !m.cfg.HardTemperatureRange.Contains(as.CurrentTemperature) {
			return fmt.Errorf("import aquarium %s: %w", as.ID, &tank.ValidationError{
				Field:  "aquarium.current_temperature",
				Reason: fmt.Sprintf("%.1f outside hard range [%.1f, %.1f]", as.CurrentTemperature, m.cfg.HardTemperatureRange.Min, m.cfg.HardTemperatureRange.Max),
			})
		}
		if !vitalInBounds(as.Cleanliness) {
			return fmt.Errorf("import aquarium %s: %w", as.ID, &tank.ValidationError{
				Field:  "aquarium.cleanliness",
				Reason: fmt.Sprintf("%.1f outside [0, 100]", as.Cleanliness),
			})
		}
		a.State = as.State
		a.CurrentTemperature = as.CurrentTemperature
		a.Cleanliness = as.Cleanliness
		for _, rs := range as.Routines {
			a.Routines[rs.Kind].LastPerformed = rs.LastPerformed
		}
		for _, fs := range as.Fish {
			f, err := tank.NewFish(fs.ID, fs.Name, fs.Species, fs.AddedAt)
			if err != nil {
				return fmt.Errorf("import fish %s: %w", fs.ID, err)
			}
			if !vitalInBounds(fs.Hunger) {
				return importVitalError(fs.ID, "fish.hunger", fs.Hunger)
			}
			if !vitalInBounds(fs.Health) {
				return importVitalError(fs.ID, "fish.health", fs.Health)
			}
			if !vitalInBounds(fs.Stress) {
				return importVitalError(fs.ID, "fish.stress", fs.Stress)
			}
			f.Hunger = fs.Hunger
			f.Health = fs.Health
			f.Stress = fs.Stress
			a.Fish = append(a.Fish, f)
		}
		order = append(order, as.ID)
		tanks[as.ID] = a
	}

	m.now = s.TakenAt
	m.order = order
	m.tanks = tanks
	m.aquariumSeq = s.AquariumSeq
	m.fishSeq = s.FishSeq
	m.lastAlerts = nil
	m.logger.Info("state imported: %d aquariums, sim time %s", len(order), s.TakenAt.Format(time.RFC3339))
	return nil
}

// vitalInBounds reports whether a 0-100 vital carries a legal value.
func vitalInBounds(v float64) bool {
	return v >= 0 && v <= 100
}

func importVitalError(subjectID, field string, v float64) error {
	return fmt.Errorf("import fish %s: %w", subjectID, &tank.ValidationError{
		Field:  field,
		Reason: fmt.Sprintf("%.1f outside [0, 100]", v),
	})
}

// activeLocked resolves an Active aquarium or fails with ErrNotFound.
// Removed aquariums are treated as unknown: their IDs accept no commands.
func (m *Manager) activeLocked(aqID string) (*tank.Aquarium, error) {
	a, ok := m.tanks[aqID]
	if !ok || a.State != tank.StateActive {
		return nil, fmt.Errorf("aquarium %q: %w", aqID, tank.ErrNotFound)
	}
	return a, nil
}

func (m *Manager) exportLocked() Snapshot {
	s := Snapshot{
		TakenAt:     m.now,
		AquariumSeq: m.aquariumSeq,
		FishSeq:     m.fishSeq,
		Aquariums:   make([]AquariumSnapshot, 0, len(m.order)),
	}
	for _, id := range m.order {
		s.Aquariums = append(s.Aquariums, snapshotAquarium(m.tanks[id]))
	}
	return s
}
