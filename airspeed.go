package perfsim

import "math"

/* Compressible airspeed conversions against the ISA atmosphere.
The calibrated airspeed is taken equal to the indicated airspeed (no
instrument nor position error). */

// CAS2TAS converts a calibrated airspeed (m/s) at the given altitude (m) to a
// true airspeed, accounting for compressibility.
func CAS2TAS(vCas, altitude float64) float64 {
	gr := AirGamma / (AirGamma - 1)
	atm := ISA(altitude)
	sl := ISA(0)
	// Impact pressure from CAS referenced to sea level, then expanded at altitude.
	p1 := 1 + (1/(2*gr))*(sl.Density/sl.Pressure)*vCas*vCas
	p2 := math.Pow(p1, gr)
	p3 := math.Pow(1+(sl.Pressure/atm.Pressure)*(p2-1), 1/gr)
	return math.Sqrt(2 * gr * (atm.Pressure / atm.Density) * (p3 - 1))
}

// TAS2CAS converts a true airspeed (m/s) at the given altitude (m) to a
// calibrated airspeed.
func TAS2CAS(vTas, altitude float64) float64 {
	gr := AirGamma / (AirGamma - 1)
	atm := ISA(altitude)
	sl := ISA(0)
	p1 := 1 + (1/(2*gr))*(atm.Density/atm.Pressure)*vTas*vTas
	p2 := math.Pow(p1, gr) - 1
	p3 := math.Pow((atm.Pressure/sl.Pressure)*p2+1, 1/gr)
	return math.Sqrt(2 * gr * (sl.Pressure / sl.Density) * (p3 - 1))
}

// CAS2Mach returns the Mach number for a calibrated airspeed (m/s) at the
// given altitude (m).
func CAS2Mach(vCas, altitude float64) float64 {
	return CAS2TAS(vCas, altitude) / ISA(altitude).SpeedOfSound
}

// TAS2Mach returns the Mach number for a true airspeed (m/s) at the given
// altitude (m).
func TAS2Mach(vTas, altitude float64) float64 {
	return vTas / ISA(altitude).SpeedOfSound
}

// Mach2TAS returns the true airspeed (m/s) for a Mach number at the given
// altitude (m).
func Mach2TAS(mach, altitude float64) float64 {
	return mach * ISA(altitude).SpeedOfSound
}
