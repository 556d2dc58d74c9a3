package perfsim

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/ChristopherRabotin/ode"
)

const (
	// StepSize is the default integration step size of a phase propagation.
	StepSize = 1 * time.Second
	// CruiseAltitude is the altitude (m) at which a climb phase completes.
	CruiseAltitude = 10000.0
	// DescentFloor is the altitude (m) at which a descent phase completes.
	DescentFloor = 1000.0
)

var wg sync.WaitGroup

/* Handles the point mass flight phase propagations. */

// Phase defines the simulated flight phase.
type Phase uint8

const (
	// Climb is a constant CAS/Mach climb to the cruise altitude.
	Climb Phase = iota + 1
	// Descent is a constant Mach/CAS descent to the descent floor.
	Descent
	// Approach is a quasi-steady powered glide down to the screen height.
	Approach
)

func (p Phase) String() string {
	switch p {
	case Climb:
		return "climb"
	case Descent:
		return "descent"
	case Approach:
		return "approach"
	}
	panic("cannot stringify unknown phase")
}

// ParsePhase returns the phase corresponding to the provided name.
func ParsePhase(name string) (Phase, error) {
	switch name {
	case "climb":
		return Climb, nil
	case "descent":
		return Descent, nil
	case "approach":
		return Approach, nil
	}
	return 0, fmt.Errorf("unknown phase `%s`", name)
}

// thrustFraction returns the fraction of the maximum thrust applied during
// this phase: near full thrust in climb, near idle in descent.
func (p Phase) thrustFraction() float64 {
	switch p {
	case Climb:
		return 0.95
	case Descent:
		return 0.05
	}
	panic(fmt.Errorf("no fixed thrust fraction for phase %s", p))
}

// InitialConditions defines the point mass state at the start of a phase.
type InitialConditions struct {
	Distance float64 // m
	Altitude float64 // m
	Weight   float64 // N
	CAS      float64 // m/s
}

// State stores a propagated point mass state.
type State struct {
	DT         time.Time
	TAS        float64 // true airspeed (m/s)
	FlightPath float64 // flight path angle γ (rad)
	Altitude   float64 // m
	Distance   float64 // ground distance x (m)
	Weight     float64 // N
	Pitch      float64 // pitch attitude θ (rad)
	AoA        float64 // angle of attack α (rad)
	Thrust     float64 // applied thrust (N)
}

// CAS returns the calibrated airspeed (m/s) of this state.
func (s State) CAS() float64 {
	return TAS2CAS(s.TAS, s.Altitude)
}

// Mach returns the Mach number of this state.
func (s State) Mach() float64 {
	return TAS2Mach(s.TAS, s.Altitude)
}

// Mission defines a flight phase simulation and does the propagation.
type Mission struct {
	Vehicle                    *Aircraft // As pointer because the aircraft logger is shared.
	Phase                      Phase
	State                      State // current point mass state, updated during propagation
	StartDT, StopDT, CurrentDT time.Time
	initWeight                 float64
	step                       time.Duration // time step
	stopChan                   chan (bool)
	histChan                   chan<- (State)
	done, fuelWarned           bool
}

// NewMission is the same as NewPreciseMission with the default step size.
func NewMission(ac *Aircraft, ics InitialConditions, phase Phase, start, end time.Time, conf ExportConfig) *Mission {
	return NewPreciseMission(ac, ics, phase, start, end, StepSize, conf)
}

// NewPreciseMission returns a new Mission instance with a custom time step.
func NewPreciseMission(ac *Aircraft, ics InitialConditions, phase Phase, start, end time.Time, step time.Duration, conf ExportConfig) *Mission {
	if phase == Approach {
		panic("approach phases are propagated by ApproachMission")
	}
	// If the export config is useless, then no output will be written.
	var histChan chan (State)
	refCAS := refSpeed(ac, ics)
	if !conf.IsUseless() {
		histChan = make(chan (State), 1000) // a 1k entry buffer
		wg.Add(1)
		go func() {
			defer wg.Done()
			StreamStates(conf, runInfo{phase, ics.Weight, refCAS}, histChan)
		}()
	} else {
		histChan = nil
	}
	if start.Location() != time.UTC {
		start = start.UTC()
	}
	if end.Location() != time.UTC {
		end = end.UTC()
	}

	// Trim the aircraft in steady straight flight at the applied thrust.
	vTas := CAS2TAS(ics.CAS, ics.Altitude)
	mach := CAS2Mach(ics.CAS, ics.Altitude)
	α := StableAoA(ics.CAS, ics.Altitude, ics.Weight, ac.WingArea)
	thrust := phase.thrustFraction() * ac.MaxThrust(ics.Altitude, mach)
	cl := StableLiftCoefficient(ics.CAS, ics.Altitude, ics.Weight, ac.WingArea)
	γ := StableFlightPathAngle(thrust, Drag(ics.CAS, ics.Altitude, cl, ac.WingArea), ics.Weight)
	θ := α + γ
	if tp, ok := ac.Pilot.(trimmable); ok {
		tp.setTrim(θ)
	}
	st := State{start, vTas, γ, ics.Altitude, ics.Distance, ics.Weight, θ, α, thrust}

	a := &Mission{ac, phase, st, start, end, start, ics.Weight, step, make(chan (bool), 1), histChan, false, false}
	// Write the first data point.
	if histChan != nil {
		histChan <- st
	}

	if end.Before(start) {
		a.Vehicle.logger.Log("level", "warning", "subsys", "fdm", "message", "no end date, propagating to phase completion")
	}

	return a
}

// refSpeed returns the reference speed held during the phase, used to key the
// result cache.
func refSpeed(ac *Aircraft, ics InitialConditions) float64 {
	if sh, ok := ac.Pilot.(*SpeedHoldPilot); ok {
		return sh.RefCAS
	}
	return ics.CAS
}

// LogStatus returns the status of the propagation and vehicle.
func (a *Mission) LogStatus() {
	a.Vehicle.logger.Log("level", "info", "subsys", "fdm", "phase", a.Phase, "date", a.CurrentDT, "alt(m)", a.State.Altitude, "cas(m/s)", a.State.CAS(), "mach", a.State.Mach(), "fuelBurnt(kg)", a.FuelBurnt())
}

// FuelBurnt returns the fuel mass (kg) burnt since the start of the phase.
func (a *Mission) FuelBurnt() float64 {
	return (a.initWeight - a.State.Weight) / Grav
}

// PropagateUntil propagates until the given time is reached.
func (a *Mission) PropagateUntil(dt time.Time) {
	a.StopDT = dt
	a.Propagate()
}

// Propagate starts the propagation.
func (a *Mission) Propagate() {
	// Add a ticker status report based on the duration of the simulation.
	a.LogStatus()
	ticker := time.NewTicker(10 * time.Second)
	go func() {
		for range ticker.C {
			if a.done {
				break
			}
			a.LogStatus()
		}
	}()
	initFuel := a.FuelBurnt()
	ode.NewRK4(0, a.step.Seconds(), a).Solve() // Blocking.
	a.done = true
	ticker.Stop()
	duration := a.CurrentDT.Sub(a.StartDT)
	durStr := duration.String()
	if duration.Hours() > 1 {
		durStr += fmt.Sprintf(" (~%.2fh)", duration.Hours())
	}
	a.Vehicle.logger.Log("level", "notice", "subsys", "fdm", "status", "finished", "duration", durStr, "alt(m)", a.State.Altitude, "distance(km)", a.State.Distance/1e3, "fuelBurnt(kg)", a.FuelBurnt()-initFuel)
	a.LogStatus()
	if a.State.Weight < a.Vehicle.ZeroFuelWeight() {
		a.Vehicle.logger.Log("level", "critical", "subsys", "prop", "fuel(N)", a.State.Weight-a.Vehicle.ZeroFuelWeight())
	}
	wg.Wait() // Don't return until we're done writing all the files.
}

// StopPropagation is used to stop the propagation before it is completed.
func (a *Mission) StopPropagation() {
	a.stopChan <- true
}

// Stop implements the stop call of the integrator. To stop the propagation, call StopPropagation().
func (a *Mission) Stop(t float64) bool {
	select {
	case <-a.stopChan:
		if a.histChan != nil {
			close(a.histChan)
		}
		return true // Stop because there is a request to stop.
	default:
		a.CurrentDT = a.CurrentDT.Add(a.step)
		// A hard limit is set on a full day of simulated flight.
		if a.CurrentDT.After(a.StartDT.Add(24 * time.Hour)) {
			a.Vehicle.logger.Log("level", "critical", "subsys", "fdm", "status", "killed")
			if a.histChan != nil {
				close(a.histChan)
			}
			return true
		}
		switch a.Phase {
		case Climb:
			if a.State.Altitude >= CruiseAltitude {
				if a.histChan != nil {
					close(a.histChan)
				}
				return true
			}
		case Descent:
			if a.State.Altitude <= DescentFloor {
				if a.histChan != nil {
					close(a.histChan)
				}
				return true
			}
		}
		if a.StopDT.Before(a.StartDT) {
			// No end date, propagate until the phase completes.
			return false
		}
		if a.CurrentDT.Sub(a.StopDT).Nanoseconds() > 0 {
			if a.histChan != nil {
				close(a.histChan)
			}
			return true // Stop, we've reached the end of the simulation.
		}
	}
	return false
}

// GetState returns the state for the integrator.
func (a *Mission) GetState() (s []float64) {
	s = make([]float64, 5)
	s[0] = a.State.TAS
	s[1] = a.State.FlightPath
	s[2] = a.State.Altitude
	s[3] = a.State.Distance
	s[4] = a.State.Weight
	return
}

// SetState sets the updated state.
func (a *Mission) SetState(t float64, s []float64) {
	st := State{DT: a.CurrentDT, TAS: s[0], FlightPath: s[1], Altitude: s[2], Distance: s[3], Weight: s[4]}
	// Re-evaluate the control law at the new state for the record.
	st.Pitch = a.Vehicle.Pilot.Control(st)
	st.AoA = st.Pitch - st.FlightPath
	st.Thrust = a.Phase.thrustFraction() * a.Vehicle.MaxThrust(st.Altitude, st.Mach())
	a.State = st

	if a.histChan != nil {
		a.histChan <- st
	}

	// Propulsion sanity check: all usable fuel burnt.
	if !a.fuelWarned && st.Weight < a.Vehicle.ZeroFuelWeight() {
		a.fuelWarned = true
		a.Vehicle.logger.Log("level", "critical", "subsys", "prop", "fuel(N)", st.Weight-a.Vehicle.ZeroFuelWeight(), "dt", a.CurrentDT)
	}
	if st.TAS <= 0 {
		a.Vehicle.logger.Log("level", "critical", "subsys", "fdm", "stalled", st.TAS, "dt", a.CurrentDT)
	}
}

// Func is the integration function of the point mass equations of motion.
func (a *Mission) Func(t float64, f []float64) (fDot []float64) {
	fDot = make([]float64, 5) // init return vector
	v, γ, h, w := f[0], f[1], f[2], f[4]
	mach := TAS2Mach(v, h)
	st := State{DT: a.CurrentDT, TAS: v, FlightPath: γ, Altitude: h, Distance: f[3], Weight: w}

	// Pilot pitch command, angle of attack and resulting aero forces.
	θ := a.Vehicle.Pilot.Control(st)
	α := θ - γ
	cl := LiftCoefficient(α)
	lift := Lift(v, h, cl, a.Vehicle.WingArea)
	drag := 0.5 * DragCoefficient(cl) * ISA(h).Density * a.Vehicle.WingArea * v * v
	thrust := a.Phase.thrustFraction() * a.Vehicle.MaxThrust(h, mach)

	sinγ, cosγ := math.Sincos(γ)
	// dv/dt
	fDot[0] = (Grav / w) * (thrust - drag - w*sinγ)
	// dγ/dt
	fDot[1] = (Grav / w) * (1 / v) * (lift - w)
	// dh/dt
	fDot[2] = v * sinγ
	// dx/dt
	fDot[3] = v * cosγ
	// dW/dt
	fDot[4] = -Grav * a.Vehicle.FuelFlow(thrust, mach, h)

	for i := 0; i < 5; i++ {
		if math.IsNaN(fDot[i]) {
			panic(fmt.Errorf("fDot[%d]=NaN @ dt=%s\nv=%f γ=%f h=%f W=%f\nT=%f D=%f L=%f", i, a.CurrentDT, v, γ, h, w, thrust, drag, lift))
		}
	}
	return
}
