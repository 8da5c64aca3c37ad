package rules

import (
	"math"
	"testing"
)

func TestHungerStepClampsAtHundred(t *testing.T) {
	h := HungerStep(95, 0.45, 60)
	if h != 100 {
		t.Errorf("Expected hunger to clamp at 100, got %v", h)
	}
}

func TestHungerStepGrowsByRate(t *testing.T) {
	h := HungerStep(10, 0.45, 10)
	if math.Abs(h-14.5) > 1e-9 {
		t.Errorf("Expected hunger 14.5 after 10 minutes at 0.45/min, got %v", h)
	}
}

func TestApproachTemperatureConverges(t *testing.T) {
	current := 18.0
	target := 25.0

	// One time constant covers ~63% of the gap.
	after := ApproachTemperature(current, target, 18, 18)
	expected := current + (target-current)*(1-math.Exp(-1))
	if math.Abs(after-expected) > 1e-9 {
		t.Errorf("Expected %v after one tau, got %v", expected, after)
	}

	// It never overshoots, even over a huge gap in time.
	far := ApproachTemperature(current, target, 100000, 18)
	if far > target || far < current {
		t.Errorf("Temperature overshot: %v not in [%v, %v]", far, current, target)
	}
}

func TestApproachTemperatureZeroElapsedIsNoop(t *testing.T) {
	if got := ApproachTemperature(20, 30, 0, 18); got != 20 {
		t.Errorf("Expected no movement for zero elapsed, got %v", got)
	}
}

func TestCleanlinessStepClampsAtZero(t *testing.T) {
	w := DefaultWeights()
	c := CleanlinessStep(1, 60, w)
	if c != 0 {
		t.Errorf("Expected cleanliness to clamp at 0, got %v", c)
	}
}

func TestStressAccumulatesOutsideBandAndDecaysInside(t *testing.T) {
	w := DefaultWeights()

	// 2 degrees below the band for 10 minutes: 2 * 0.5 * 10 = 10 points.
	s := StressStep(0, 20, 22, 26, 10, w)
	if math.Abs(s-10) > 1e-9 {
		t.Errorf("Expected stress 10 after cold exposure, got %v", s)
	}

	// Back in the band, it decays at 1/min and clamps at 0.
	s = StressStep(s, 24, 22, 26, 15, w)
	if s != 0 {
		t.Errorf("Expected stress to decay to 0, got %v", s)
	}
}

func TestHealthStepPenaltySumsFactors(t *testing.T) {
	w := DefaultWeights()
	in := HealthInputs{
		Health:          80,
		Hunger:          80, // 10 over threshold
		HungerThreshold: 70,
		Stress:          20,
		Cleanliness:     30, // 10 under clean threshold
	}

	// Per minute: 10*0.02 + 20*0.015 + 10*0.01 = 0.6. Over 10 minutes: 6.
	got := HealthStep(in, 10, w)
	if math.Abs(got-74) > 1e-9 {
		t.Errorf("Expected health 74, got %v", got)
	}
}

func TestHealthStepRecoversWhenAllFactorsHealthy(t *testing.T) {
	w := DefaultWeights()
	in := HealthInputs{Health: 50, Hunger: 10, HungerThreshold: 70, Stress: 0, Cleanliness: 90}

	got := HealthStep(in, 60, w)
	if math.Abs(got-53) > 1e-9 {
		t.Errorf("Expected health 53 after an hour of recovery, got %v", got)
	}
}

func TestHealthStepDeltaIsCappedPerTick(t *testing.T) {
	w := DefaultWeights()
	in := HealthInputs{
		Health:          100,
		Hunger:          100,
		HungerThreshold: 50,
		Stress:          100,
		Cleanliness:     0,
	}

	// A week of neglect in one tick still costs at most the per-tick cap.
	got := HealthStep(in, 7*24*60, w)
	if got != 100-w.MaxHealthDeltaPerTick {
		t.Errorf("Expected health %v after capped tick, got %v", 100-w.MaxHealthDeltaPerTick, got)
	}
}

func TestHealthStepClampsAtZero(t *testing.T) {
	w := DefaultWeights()
	in := HealthInputs{Health: 3, Hunger: 100, HungerThreshold: 50, Stress: 100, Cleanliness: 0}
	got := HealthStep(in, 60, w)
	if got != 0 {
		t.Errorf("Expected health to clamp at 0, got %v", got)
	}
}

func TestFeedDropsHungerToBaselineOnly(t *testing.T) {
	w := DefaultWeights()

	hunger, health := Feed(90, 50, w)
	if hunger != w.FeedingBaseline {
		t.Errorf("Expected hunger %v after feeding, got %v", w.FeedingBaseline, hunger)
	}
	if health != 58 {
		t.Errorf("Expected health 58 after feeding bonus, got %v", health)
	}

	// Feeding below the baseline must not raise hunger.
	hunger, _ = Feed(5, 50, w)
	if hunger != 5 {
		t.Errorf("Expected hunger to stay at 5, got %v", hunger)
	}
}

func TestFeedDoesNotReviveCriticalFish(t *testing.T) {
	w := DefaultWeights()
	_, health := Feed(90, 0, w)
	if health != 0 {
		t.Errorf("Expected critical fish to stay at 0 health, got %v", health)
	}
}
