package perfsim

import (
	"testing"

	"github.com/gonum/floats"
)

func TestCAS2TAS(t *testing.T) {
	// At sea level the calibrated and true airspeeds coincide.
	if !floats.EqualWithinAbs(CAS2TAS(160, 0), 160, 1e-9) {
		t.Fatalf("CAS2TAS(160, 0) = %f", CAS2TAS(160, 0))
	}
	if !floats.EqualWithinAbs(CAS2TAS(100, 2000), 110.00599585, 1e-6) {
		t.Fatalf("CAS2TAS(100, 2000) = %f", CAS2TAS(100, 2000))
	}
	if !floats.EqualWithinAbs(CAS2TAS(160, 8000), 233.95381811, 1e-6) {
		t.Fatalf("CAS2TAS(160, 8000) = %f", CAS2TAS(160, 8000))
	}
}

func TestAirspeedRoundTrip(t *testing.T) {
	for _, altitude := range []float64{0, 2000, 8000, 11000, 15000} {
		vCas := TAS2CAS(CAS2TAS(150, altitude), altitude)
		if !floats.EqualWithinAbs(vCas, 150, 1e-9) {
			t.Fatalf("round trip at %.0f m: %f", altitude, vCas)
		}
	}
}

func TestMachConversions(t *testing.T) {
	if !floats.EqualWithinAbs(CAS2Mach(140, 10000), 0.76535544, 1e-7) {
		t.Fatalf("CAS2Mach(140, 10000) = %f", CAS2Mach(140, 10000))
	}
	if !floats.EqualWithinAbs(Mach2TAS(0.78, 10000), 233.58126860, 1e-6) {
		t.Fatalf("Mach2TAS(0.78, 10000) = %f", Mach2TAS(0.78, 10000))
	}
	if !floats.EqualWithinAbs(TAS2Mach(Mach2TAS(0.78, 10000), 10000), 0.78, 1e-12) {
		t.Fatal("TAS2Mach is not the inverse of Mach2TAS")
	}
	if !floats.EqualWithinAbs(TAS2Mach(250, 11000), 0.84725804, 1e-7) {
		t.Fatalf("TAS2Mach(250, 11000) = %f", TAS2Mach(250, 11000))
	}
}
