// Package species defines the static catalog of fish species.
// This package is PURE and must NOT import any infrastructure packages.
// The educational content panel keys its lookup data on the same IDs.
package species

import "sort"

// ID identifies a species in the catalog.
type ID string

const (
	Goldfish  ID = "GOLDFISH"
	NeonTetra ID = "NEON_TETRA"
	Betta     ID = "BETTA"
	Corydoras ID = "CORYDORAS"
	Angelfish ID = "ANGELFISH"
	Guppy     ID = "GUPPY"
)

// Definition provides the simulation parameters for a species.
type Definition struct {
	Name        string
	Description string

	// HungerRatePerMin is how fast hunger grows (points per simulated minute).
	HungerRatePerMin float64

	// HungerThreshold is the hunger level above which health starts dropping.
	HungerThreshold float64

	// TempMin and TempMax bound the tolerated water temperature in °C.
	// Outside this band the fish accumulates temperature stress.
	TempMin float64
	TempMax float64
}

// Catalog contains all known species and their properties.
var Catalog = map[ID]Definition{
	Goldfish: {
		Name:             "Goldfish",
		Description:      "Hardy coldwater classic. Forgiving for beginners, messy eater.",
		HungerRatePerMin: 0.45,
		HungerThreshold:  70,
		TempMin:          18,
		TempMax:          24,
	},
	NeonTetra: {
		Name:             "Neon Tetra",
		Description:      "Small tropical schooling fish. Sensitive to temperature swings.",
		HungerRatePerMin: 0.55,
		HungerThreshold:  65,
		TempMin:          22,
		TempMax:          27,
	},
	Betta: {
		Name:             "Betta",
		Description:      "Territorial labyrinth fish. Needs warm, stable water.",
		HungerRatePerMin: 0.40,
		HungerThreshold:  70,
		TempMin:          24,
		TempMax:          30,
	},
	Corydoras: {
		Name:             "Corydoras",
		Description:      "Bottom-dwelling scavenger. Tolerates a wide band, hates dirt.",
		HungerRatePerMin: 0.35,
		HungerThreshold:  75,
		TempMin:          21,
		TempMax:          27,
	},
	Angelfish: {
		Name:             "Angelfish",
		Description:      "Tall-bodied cichlid. Demands warmth and regular feeding.",
		HungerRatePerMin: 0.50,
		HungerThreshold:  68,
		TempMin:          24,
		TempMax:          29,
	},
	Guppy: {
		Name:             "Guppy",
		Description:      "Prolific livebearer. Cheap, cheerful, eats constantly.",
		HungerRatePerMin: 0.60,
		HungerThreshold:  72,
		TempMin:          22,
		TempMax:          28,
	},
}

// Get returns the definition for a species ID.
func Get(id ID) (Definition, bool) {
	def, ok := Catalog[id]
	return def, ok
}

// IDs returns every catalog ID in stable (sorted) order.
func IDs() []ID {
	ids := make([]ID, 0, len(Catalog))
	for id := range Catalog {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
