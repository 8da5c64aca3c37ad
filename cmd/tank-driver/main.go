// Package main - tank-driver
// Headless scenario runner: seeds a manager, pumps synthetic ticks, and
// verifies the simulation stays inside its documented bounds. Useful for
// soak runs and for demos without a server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/edutanks/aquasim/internal/domain/species"
	"github.com/edutanks/aquasim/internal/domain/tank"
	"github.com/edutanks/aquasim/internal/engine"
	"github.com/edutanks/aquasim/internal/platform/logger"
)

type scenario struct {
	Aquariums  int
	Fish       int
	Ticks      int
	Dt         time.Duration
	FeedEvery  int
	CleanEvery int
}

func main() {
	aquariums := flag.Int("aquariums", 3, "Number of aquariums to seed")
	fish := flag.Int("fish", 4, "Fish per aquarium")
	ticks := flag.Int("ticks", 500, "Number of synthetic ticks to run")
	dt := flag.Duration("dt", 5*time.Minute, "Simulated time per tick")
	feedEvery := flag.Int("feed-every", 0, "Perform feeding every N ticks (0 = never)")
	cleanEvery := flag.Int("clean-every", 0, "Perform cleaning every N ticks (0 = never)")
	flag.Parse()

	sc := scenario{
		Aquariums:  *aquariums,
		Fish:       *fish,
		Ticks:      *ticks,
		Dt:         *dt,
		FeedEvery:  *feedEvery,
		CleanEvery: *cleanEvery,
	}

	fmt.Println("=========================================")
	fmt.Println("TANK DRIVER - Headless Simulation Runner")
	fmt.Println("=========================================")
	fmt.Printf("Aquariums: %d, Fish each: %d\n", sc.Aquariums, sc.Fish)
	fmt.Printf("Ticks: %d x %v simulated\n", sc.Ticks, sc.Dt)
	fmt.Println("=========================================")

	if err := run(sc); err != nil {
		fmt.Fprintf(os.Stderr, "FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK: all vitals stayed within bounds")
}

func run(sc scenario) error {
	appLogger := logger.NewLogger()
	start := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

	manager, err := engine.NewManager(engine.DefaultConfig(), start, appLogger)
	if err != nil {
		return err
	}

	allSpecies := species.IDs()
	for i := 0; i < sc.Aquariums; i++ {
		aqID, err := manager.AddAquarium(engine.AquariumConfig{
			Name:              fmt.Sprintf("Classroom Tank %d", i+1),
			TargetTemperature: 24,
		})
		if err != nil {
			return err
		}
		for j := 0; j < sc.Fish; j++ {
			sp := allSpecies[(i+j)%len(allSpecies)]
			if _, err := manager.AddFish(aqID, "", sp); err != nil {
				return err
			}
		}
	}

	alertCounts := make(map[engine.AlertKind]int)

	for tick := 1; tick <= sc.Ticks; tick++ {
		if sc.FeedEvery > 0 && tick%sc.FeedEvery == 0 {
			performAll(manager, tank.RoutineFeeding)
		}
		if sc.CleanEvery > 0 && tick%sc.CleanEvery == 0 {
			performAll(manager, tank.RoutineCleaning)
		}

		snap, alerts := manager.Advance(sc.Dt)
		for _, a := range alerts {
			alertCounts[a.Kind]++
		}
		if err := checkBounds(snap); err != nil {
			return fmt.Errorf("tick %d: %w", tick, err)
		}
	}

	final := manager.ExportState()
	fmt.Printf("\nFinal sim time: %s\n", final.TakenAt.Format(time.RFC3339))
	for _, as := range final.Aquariums {
		fmt.Printf("  %s %-18s temp %5.1f°C clean %5.1f  fish %d\n",
			as.ID, as.Name, as.CurrentTemperature, as.Cleanliness, len(as.Fish))
	}
	fmt.Println("\nAlert totals:")
	for kind, n := range alertCounts {
		fmt.Printf("  %-26s %d\n", kind, n)
	}
	return nil
}

func performAll(m *engine.Manager, kind tank.RoutineKind) {
	for _, as := range m.ExportState().Aquariums {
		if as.State != tank.StateActive {
			continue
		}
		_ = m.PerformRoutine(as.ID, kind, m.Now())
	}
}

// checkBounds verifies the clamping contract on every vital.
func checkBounds(s engine.Snapshot) error {
	for _, as := range s.Aquariums {
		if as.Cleanliness < 0 || as.Cleanliness > 100 {
			return fmt.Errorf("%s cleanliness out of bounds: %v", as.ID, as.Cleanliness)
		}
		for _, fs := range as.Fish {
			if fs.Hunger < 0 || fs.Hunger > 100 {
				return fmt.Errorf("%s hunger out of bounds: %v", fs.ID, fs.Hunger)
			}
			if fs.Health < 0 || fs.Health > 100 {
				return fmt.Errorf("%s health out of bounds: %v", fs.ID, fs.Health)
			}
			if fs.Stress < 0 || fs.Stress > 100 {
				return fmt.Errorf("%s stress out of bounds: %v", fs.ID, fs.Stress)
			}
		}
	}
	return nil
}
