package perfsim

import "math"

// ControlLaw defines an enum of pitch control laws.
type ControlLaw uint8

const (
	constantPitch ControlLaw = iota + 1
	speedHold
	glideslope
)

func (cl ControlLaw) String() string {
	switch cl {
	case constantPitch:
		return "constPitch"
	case speedHold:
		return "speedHold"
	case glideslope:
		return "glideslope"
	}
	panic("cannot stringify unknown control law")
}

// PitchControl defines a pilot pitch control interface.
type PitchControl interface {
	Control(st State) float64 // commanded pitch attitude in rad
	Type() ControlLaw
	Reason() string
}

// GenericPitch partially defines a PitchControl.
type GenericPitch struct {
	reason string
	cl     ControlLaw
}

// Reason implements the PitchControl interface.
func (cl GenericPitch) Reason() string {
	return cl.reason
}

// Type implements the PitchControl interface.
func (cl GenericPitch) Type() ControlLaw {
	return cl.cl
}

func newGenericPitchFromCL(cl ControlLaw) GenericPitch {
	return GenericPitch{cl.String(), cl}
}

/* Let's define some control laws. */

// ConstantPitch holds a fixed pitch attitude.
type ConstantPitch struct {
	θ float64
	GenericPitch
}

// Control implements the PitchControl interface.
func (cl ConstantPitch) Control(st State) float64 {
	return cl.θ
}

// NewConstantPitch defines a new constant pitch law at the given attitude (rad).
func NewConstantPitch(θ float64) ConstantPitch {
	return ConstantPitch{θ, newGenericPitchFromCL(constantPitch)}
}

// SpeedHoldPilot models the pilot pitch response holding a constant calibrated
// airspeed below the crossover to the cruise Mach number, and the cruise Mach
// number above it. The correction is proportional to the speed error and is
// applied about the trimmed pitch attitude of the phase.
type SpeedHoldPilot struct {
	Gain       float64 // proportional gain (rad per m/s of speed error), from trial and error on the model
	RefCAS     float64 // reference constant CAS to hold (m/s)
	CruiseMach float64
	Phase      Phase
	trimPitch  float64
	GenericPitch
}

// Control implements the PitchControl interface.
func (cl *SpeedHoldPilot) Control(st State) float64 {
	vSound := ISA(st.Altitude).SpeedOfSound
	vCas := st.CAS()
	var vErr float64
	if cl.Phase == Climb {
		if math.Round(st.Mach()*100)/100 < cl.CruiseMach {
			vErr = vCas - cl.RefCAS
		} else {
			vErr = vCas - TAS2CAS(cl.CruiseMach*vSound, st.Altitude)
		}
	} else {
		if math.Round(vCas) < cl.RefCAS {
			vErr = vCas - TAS2CAS(cl.CruiseMach*vSound, st.Altitude)
		} else {
			vErr = vCas - cl.RefCAS
		}
	}
	return vErr*cl.Gain + cl.trimPitch
}

func (cl *SpeedHoldPilot) setTrim(θ float64) {
	cl.trimPitch = θ
}

// NewSpeedHoldPilot defines a new speed hold law. The trim pitch is set by the
// mission at the start of the phase.
func NewSpeedHoldPilot(gain, refCAS, cruiseMach float64, phase Phase) *SpeedHoldPilot {
	return &SpeedHoldPilot{gain, refCAS, cruiseMach, phase, 0, newGenericPitchFromCL(speedHold)}
}

// GlideslopePilot flies a quasi-steady powered glide at a constant descent
// angle: the pitch follows the steady angle of attack on the glideslope.
type GlideslopePilot struct {
	WingArea   float64 // m^2
	Glideslope float64 // positive descent angle (rad)
	GenericPitch
}

// Control implements the PitchControl interface.
func (cl *GlideslopePilot) Control(st State) float64 {
	α := StableAoA(st.CAS(), st.Altitude, st.Weight, cl.WingArea)
	return α - cl.Glideslope
}

// NewGlideslopePilot defines a new glideslope law from the wing area (m^2) and
// a positive glideslope angle (rad).
func NewGlideslopePilot(wingArea, gs float64) *GlideslopePilot {
	return &GlideslopePilot{wingArea, gs, newGenericPitchFromCL(glideslope)}
}

// trimmable is implemented by control laws which are referenced to the trimmed
// pitch attitude of the phase.
type trimmable interface {
	setTrim(θ float64)
}
