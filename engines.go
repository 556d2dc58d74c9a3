package perfsim

import "math"

// Engine defines an aircraft engine.
type Engine interface {
	// Returns the maximum available thrust in Newtons at the given altitude (m) and Mach number.
	MaxThrust(altitude, mach float64) float64
	// Returns the fuel mass flow in kg/s at the given thrust setting (N), Mach number and altitude (m).
	FuelFlow(thrust, mach, altitude float64) float64
}

/* Available engines */

// Turbofan is a high bypass ratio turbofan with an empirical thrust lapse
// driven by the pressure ratio and Mach number, and an empirical TSFC.
type Turbofan struct {
	MaxThrustSL float64 // maximum sea level static thrust (N)
	BPR         float64 // bypass ratio
}

// MaxThrust implements the Engine interface.
func (t *Turbofan) MaxThrust(altitude, mach float64) float64 {
	g0 := 0.6375 + 0.0604*t.BPR
	// Pressure ratio drives the thrust lapse.
	δ := ISA(altitude).Pressure / ISA(0).Pressure
	a := -0.4327*δ*δ + 1.3855*δ + 0.0472
	x := 0.9106*δ*δ*δ - 1.7736*δ*δ + 1.8697*δ
	z := 0.1377*δ*δ*δ - 0.4374*δ*δ + 1.3003*δ
	machTerm := z * mach * (0.377 * (1 + t.BPR)) / math.Sqrt(g0*(1+0.82*t.BPR))
	ramTerm := (0.23 + 0.19*math.Sqrt(t.BPR)) * x * mach * mach
	return (a - machTerm + ramTerm) * t.MaxThrustSL
}

// FuelFlow implements the Engine interface.
func (t *Turbofan) FuelFlow(thrust, mach, altitude float64) float64 {
	// Temperature ratio θ, with TSFC of 11 mg/s per Newton at sea level static.
	θ := ISA(altitude).Temperature / ISA(0).Temperature
	ct := 11e-6 * (1 + mach) * math.Sqrt(θ)
	return ct * thrust
}

// NewTurbofan returns a turbofan from its sea level static thrust (N) and
// bypass ratio.
func NewTurbofan(maxThrustSL, bpr float64) *Turbofan {
	return &Turbofan{maxThrustSL, bpr}
}

// GenericEngine is an engine with constant thrust and TSFC.
type GenericEngine struct {
	thrust float64
	tsfc   float64
}

// MaxThrust implements the Engine interface.
func (e *GenericEngine) MaxThrust(altitude, mach float64) float64 {
	return e.thrust
}

// FuelFlow implements the Engine interface.
func (e *GenericEngine) FuelFlow(thrust, mach, altitude float64) float64 {
	return e.tsfc * thrust
}

// NewGenericEngine returns a generic engine from a constant max thrust (N) and
// TSFC (kg/s per N).
func NewGenericEngine(thrust, tsfc float64) *GenericEngine {
	return &GenericEngine{thrust, tsfc}
}
