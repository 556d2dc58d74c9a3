package perfsim

import (
	"os"

	kitlog "github.com/go-kit/kit/log"
)

// Aircraft defines a fixed-wing aircraft.
type Aircraft struct {
	Name       string       // Name of the aircraft
	WingArea   float64      // Reference wing area (m^2)
	MTOW       float64      // Maximum take off weight (N)
	FuelWeight float64      // Usable fuel weight (N)
	Engines    []Engine     // Installed engines
	Pilot      PitchControl // Pitch control law flown during the phase
	logger     kitlog.Logger
}

// MaxThrust returns the total maximum available thrust (N) of all engines at
// the given altitude (m) and Mach number.
func (a *Aircraft) MaxThrust(altitude, mach float64) float64 {
	var thrust float64
	for _, eng := range a.Engines {
		thrust += eng.MaxThrust(altitude, mach)
	}
	return thrust
}

// FuelFlow returns the total fuel mass flow (kg/s) with the thrust setting (N)
// split evenly between the engines.
func (a *Aircraft) FuelFlow(thrust, mach, altitude float64) float64 {
	perEngine := thrust / float64(len(a.Engines))
	var flow float64
	for _, eng := range a.Engines {
		flow += eng.FuelFlow(perEngine, mach, altitude)
	}
	return flow
}

// ZeroFuelWeight returns the weight (N) of the aircraft at MTOW with all
// usable fuel burnt.
func (a *Aircraft) ZeroFuelWeight() float64 {
	return a.MTOW - a.FuelWeight
}

// NewAircraft returns a new aircraft with its logger.
func NewAircraft(name string, wingArea, mtow, fuelWeight float64, engines []Engine, pilot PitchControl) *Aircraft {
	if len(engines) == 0 {
		panic("aircraft must have at least one engine")
	}
	klog := kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))
	klog = kitlog.With(klog, "aircraft", name)
	return &Aircraft{name, wingArea, mtow, fuelWeight, engines, pilot, klog}
}
