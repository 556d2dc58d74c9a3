package perfsim

import (
	"testing"

	"github.com/gonum/floats"
)

func TestSteadyTrimLevel(t *testing.T) {
	trim, err := SteadyTrim(160, 0, 3.6e6, 500, 0)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	// In level flight the trim matches the closed form steady relations.
	if !floats.EqualWithinAbs(trim.AoA, StableAoA(160, 0, 3.6e6, 500), 1e-9) {
		t.Fatalf("level trim AoA: %f", trim.AoA)
	}
	if !floats.EqualWithinAbs(trim.Thrust, 232416.327152, 1e-3) {
		t.Fatalf("level trim thrust: %f", trim.Thrust)
	}
	if !floats.EqualWithinAbs(trim.Thrust, trim.Drag, 1e-3) {
		t.Fatal("level trim thrust does not balance drag")
	}
	if !floats.EqualWithinAbs(trim.Pitch, trim.AoA, 1e-12) {
		t.Fatal("level trim pitch must equal the AoA")
	}
	if len(trim.String()) == 0 {
		t.Fatal("empty stringified trim")
	}
}

func TestSteadyTrimClimb(t *testing.T) {
	γ := Deg2rad(3)
	trim, err := SteadyTrim(160, 0, 3.6e6, 500, γ)
	if err != nil {
		t.Fatalf("err %s", err)
	}
	if !floats.EqualWithinAbs(trim.AoA, 0.09739872, 1e-7) {
		t.Fatalf("climbing trim AoA: %f", trim.AoA)
	}
	if !floats.EqualWithinAbs(trim.Thrust, 420564.9671, 1e-2) {
		t.Fatalf("climbing trim thrust: %f", trim.Thrust)
	}
	// On a climbing slope the AoA unloads slightly and the thrust carries the
	// weight component along the flight path.
	if trim.AoA >= StableAoA(160, 0, 3.6e6, 500) {
		t.Fatal("climbing trim AoA must be below the level trim AoA")
	}
	if trim.Thrust <= trim.Drag {
		t.Fatal("climbing trim thrust must exceed drag")
	}
}

func TestRateOfClimb(t *testing.T) {
	engines := make([]Engine, 4)
	for i := 0; i < 4; i++ {
		engines[i] = NewTurbofan(270e3, 5)
	}
	ac := NewAircraft("quadjet", 500, 3.6e6, 1.6e6, engines, NewConstantPitch(0))
	roc := RateOfClimb(ac, 3.6e6, 0, 160, 0.95)
	if !floats.EqualWithinAbs(roc, 19.746868, 1e-4) {
		t.Fatalf("sea level rate of climb: %f", roc)
	}
	// The climb rate shrinks with altitude at constant CAS and weight.
	if RateOfClimb(ac, 3.6e6, 8000, 160, 0.95) >= roc {
		t.Fatal("rate of climb does not decrease with altitude")
	}
	// Idle thrust cannot sustain a climb.
	if RateOfClimb(ac, 3.6e6, 0, 160, 0.05) >= 0 {
		t.Fatal("idle rate of climb must be negative")
	}
}
