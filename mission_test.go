package perfsim

import (
	"testing"
	"time"

	"github.com/gonum/floats"
)

// quadjet returns a heavy four engine test aircraft with the given pilot.
func quadjet(pilot PitchControl) *Aircraft {
	engines := make([]Engine, 4)
	for i := 0; i < 4; i++ {
		engines[i] = NewTurbofan(270e3, 5)
	}
	return NewAircraft("quadjet", 500, 3.6e6, 1.6e6, engines, pilot)
}

func TestPhase(t *testing.T) {
	for _, phase := range []Phase{Climb, Descent, Approach} {
		parsed, err := ParsePhase(phase.String())
		if err != nil {
			t.Fatalf("err %s", err)
		}
		if parsed != phase {
			t.Fatalf("parsed %s as %s", phase, parsed)
		}
	}
	if _, err := ParsePhase("cruise"); err == nil {
		t.Fatal("parsing an unknown phase does not fail")
	}
	assertPanic(t, func() {
		_ = Phase(0).String()
	})
	assertPanic(t, func() {
		// The approach thrust follows the glideslope, not a fixed fraction.
		Approach.thrustFraction()
	})
}

func TestMissionApproachPanics(t *testing.T) {
	ac := quadjet(NewConstantPitch(0))
	start := time.Date(2017, 3, 1, 8, 0, 0, 0, time.UTC)
	assertPanic(t, func() {
		NewMission(ac, InitialConditions{0, 450, 3.6e6, 160}, Approach, start, start.Add(time.Hour), ExportConfig{})
	})
}

func TestMissionStop(t *testing.T) {
	pilot := NewSpeedHoldPilot(0.005, 160, 0.78, Climb)
	ac := quadjet(pilot)
	start := time.Date(2017, 3, 1, 8, 0, 0, 0, time.UTC)
	astro := NewMission(ac, InitialConditions{0, 450, 3.6e6, 160}, Climb, start, start.Add(time.Hour), ExportConfig{})
	// Request the stop before propagating: not a single step must be taken.
	astro.StopPropagation()
	astro.Propagate()
	if !astro.CurrentDT.Equal(astro.StartDT) {
		t.Fatal("astro propagated time despite the stop request")
	}
	if !floats.EqualWithinAbs(astro.FuelBurnt(), 0, 1e-12) {
		t.Fatal("astro burnt fuel despite the stop request")
	}
}

func TestMissionPropagateUntil(t *testing.T) {
	pilot := NewSpeedHoldPilot(0.005, 160, 0.78, Climb)
	ac := quadjet(pilot)
	start := time.Date(2017, 3, 1, 8, 0, 0, 0, time.UTC)
	astro := NewMission(ac, InitialConditions{0, 450, 3.6e6, 160}, Climb, start, start, ExportConfig{})
	astro.PropagateUntil(start.Add(60 * time.Second))
	if astro.CurrentDT.Sub(astro.StartDT) != 61*time.Second {
		t.Fatalf("propagated for %s", astro.CurrentDT.Sub(astro.StartDT))
	}
	if astro.State.Altitude <= 450 {
		t.Fatalf("aircraft did not climb: %f m", astro.State.Altitude)
	}
	if astro.FuelBurnt() <= 0 {
		t.Fatalf("no fuel burnt in one minute of climb: %f kg", astro.FuelBurnt())
	}
}

func TestMissionClimb(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full climb in short mode")
	}
	pilot := NewSpeedHoldPilot(0.005, 160, 0.78, Climb)
	ac := quadjet(pilot)
	start := time.Date(2017, 3, 1, 8, 0, 0, 0, time.UTC)
	// No end date: the phase propagates until the cruise altitude.
	astro := NewMission(ac, InitialConditions{0, 450, 3.6e6, 160}, Climb, start, start.Add(-time.Second), ExportConfig{})
	astro.Propagate()
	duration := astro.CurrentDT.Sub(astro.StartDT).Seconds()
	if duration < 1090 || duration > 1130 {
		t.Fatalf("climb duration: %.0f s", duration)
	}
	if astro.State.Altitude < CruiseAltitude || astro.State.Altitude > CruiseAltitude+50 {
		t.Fatalf("climb top of climb altitude: %f m", astro.State.Altitude)
	}
	if !floats.EqualWithinAbs(astro.State.Distance, 227.06e3, 2e3) {
		t.Fatalf("climb ground distance: %f m", astro.State.Distance)
	}
	if !floats.EqualWithinAbs(astro.FuelBurnt(), 7575, 100) {
		t.Fatalf("climb fuel burnt: %f kg", astro.FuelBurnt())
	}
	// At the top of climb the aircraft holds the cruise Mach number.
	if !floats.EqualWithinAbs(astro.State.Mach(), 0.78, 0.01) {
		t.Fatalf("top of climb Mach number: %f", astro.State.Mach())
	}
}

func TestMissionDescent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping full descent in short mode")
	}
	pilot := NewSpeedHoldPilot(0.005, 140, 0.78, Descent)
	ac := quadjet(pilot)
	start := time.Date(2017, 3, 1, 10, 0, 0, 0, time.UTC)
	// Start the descent on the cruise Mach number.
	vCas := TAS2CAS(Mach2TAS(0.78, CruiseAltitude), CruiseAltitude)
	astro := NewMission(ac, InitialConditions{0, CruiseAltitude, 2.8e6, vCas}, Descent, start, start.Add(-time.Second), ExportConfig{})
	astro.Propagate()
	duration := astro.CurrentDT.Sub(astro.StartDT).Seconds()
	if duration < 1030 || duration > 1070 {
		t.Fatalf("descent duration: %.0f s", duration)
	}
	if astro.State.Altitude > DescentFloor || astro.State.Altitude < DescentFloor-100 {
		t.Fatalf("descent floor altitude: %f m", astro.State.Altitude)
	}
	if !floats.EqualWithinAbs(astro.State.Distance, 191.5e3, 3e3) {
		t.Fatalf("descent ground distance: %f m", astro.State.Distance)
	}
	if !floats.EqualWithinAbs(astro.FuelBurnt(), 414, 20) {
		t.Fatalf("descent fuel burnt: %f kg", astro.FuelBurnt())
	}
	// The idle descent must still be a descent throughout.
	if astro.State.FlightPath >= 0 {
		t.Fatalf("final flight path angle: %f rad", astro.State.FlightPath)
	}
}

func TestMissionFuelExhaustion(t *testing.T) {
	// A nearly dry quadjet burns through its usable fuel within the first
	// minute of a full thrust climb and must raise the critical fuel warning.
	engines := make([]Engine, 4)
	for i := 0; i < 4; i++ {
		engines[i] = NewTurbofan(270e3, 5)
	}
	pilot := NewSpeedHoldPilot(0.005, 160, 0.78, Climb)
	ac := NewAircraft("quadjet", 500, 3.6e6, 1e3, engines, pilot)
	start := time.Date(2017, 3, 1, 8, 0, 0, 0, time.UTC)
	astro := NewMission(ac, InitialConditions{0, 450, 3.6e6, 160}, Climb, start, start, ExportConfig{})
	astro.PropagateUntil(start.Add(60 * time.Second))
	if astro.State.Weight >= ac.ZeroFuelWeight() {
		t.Fatalf("usable fuel not exhausted: %f N left", astro.State.Weight-ac.ZeroFuelWeight())
	}
	if !astro.fuelWarned {
		t.Fatal("no critical fuel warning raised")
	}
}

func TestMissionTrim(t *testing.T) {
	pilot := NewSpeedHoldPilot(0.005, 160, 0.78, Climb)
	ac := quadjet(pilot)
	start := time.Date(2017, 3, 1, 8, 0, 0, 0, time.UTC)
	astro := NewMission(ac, InitialConditions{0, 450, 3.6e6, 160}, Climb, start, start.Add(time.Hour), ExportConfig{})
	// The initial state is trimmed: pitch is the steady AoA plus the steady
	// flight path angle at the applied thrust, and the pilot is referenced to it.
	α := StableAoA(160, 450, 3.6e6, ac.WingArea)
	if !floats.EqualWithinAbs(astro.State.AoA, α, 1e-9) {
		t.Fatalf("initial AoA: %f", astro.State.AoA)
	}
	if !floats.EqualWithinAbs(astro.State.Pitch, astro.State.AoA+astro.State.FlightPath, 1e-9) {
		t.Fatalf("initial pitch: %f", astro.State.Pitch)
	}
	if !floats.EqualWithinAbs(pilot.trimPitch, astro.State.Pitch, 1e-12) {
		t.Fatal("pilot not referenced to the trimmed pitch")
	}
	if astro.State.FlightPath <= 0 {
		t.Fatal("near full thrust trim must climb")
	}
}
