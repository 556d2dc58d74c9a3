package perfsim

import "math"

const (
	// LiftCoeff0 is the lift coefficient at zero angle of attack.
	LiftCoeff0 = 0.03
	// LiftSlope is the lift curve slope in 1/rad.
	LiftSlope = 4.4
	// DragCoeff0 is the zero-lift drag coefficient.
	DragCoeff0 = 0.0175
	// InducedDragK is the induced drag factor of the parabolic drag polar.
	InducedDragK = 0.0576
)

// LiftCoefficient returns C_L from the linear lift curve at the provided angle
// of attack (rad).
func LiftCoefficient(α float64) float64 {
	return LiftCoeff0 + LiftSlope*α
}

// DragCoefficient returns C_D from the parabolic drag polar for a given C_L.
func DragCoefficient(cl float64) float64 {
	return DragCoeff0 + InducedDragK*cl*cl
}

// StableLiftCoefficient returns the steady-state lift coefficient assuming
// lift equals weight, from the calibrated airspeed (m/s), altitude (m),
// weight (N) and wing area (m^2).
func StableLiftCoefficient(vCas, altitude, weight, wingArea float64) float64 {
	vTas := CAS2TAS(vCas, altitude)
	ρ := ISA(altitude).Density
	return (2 * weight) / (ρ * wingArea * vTas * vTas)
}

// StableAoA returns the steady-state angle of attack (rad) by inverting the
// lift curve at the steady lift coefficient.
func StableAoA(vCas, altitude, weight, wingArea float64) float64 {
	return (StableLiftCoefficient(vCas, altitude, weight, wingArea) - LiftCoeff0) / LiftSlope
}

// Lift returns the lift force (N) at a true airspeed (m/s), altitude (m) and
// lift coefficient.
func Lift(vTas, altitude, cl, wingArea float64) float64 {
	ρ := ISA(altitude).Density
	return 0.5 * cl * ρ * wingArea * vTas * vTas
}

// Drag returns the drag force (N) from the calibrated airspeed (m/s),
// altitude (m), lift coefficient and wing area (m^2).
func Drag(vCas, altitude, cl, wingArea float64) float64 {
	vTas := CAS2TAS(vCas, altitude)
	ρ := ISA(altitude).Density
	return 0.5 * DragCoefficient(cl) * ρ * wingArea * vTas * vTas
}

// StableFlightPathAngle returns the flight path angle (rad) of steady straight
// flight at the provided thrust, drag and weight (all N).
func StableFlightPathAngle(thrust, drag, weight float64) float64 {
	return math.Asin((thrust - drag) / weight)
}
