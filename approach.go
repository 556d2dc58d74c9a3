package perfsim

import (
	"fmt"
	"math"
	"time"

	"github.com/ChristopherRabotin/ode"
)

const (
	// DefaultGlideslope is the standard approach glideslope angle (rad).
	DefaultGlideslope = 3 * deg2rad
	// ScreenHeight is the landing screen height (m), 35 ft.
	ScreenHeight = 10.668
)

// ApproachMission is an ode.Integrable which propagates a quasi-steady powered
// glide at constant true airspeed down a glideslope to the screen height. The
// pitch attitude and thrust setting follow the simplified equations of motion
// of steady straight powered glide flight.
type ApproachMission struct {
	Vehicle            *Aircraft
	State              State   // current state, updated during propagation
	TAS                float64 // constant approach true airspeed (m/s)
	Glideslope         float64 // positive descent angle (rad)
	ScreenH            float64 // m
	StartDT, CurrentDT time.Time
	initWeight         float64
	step               time.Duration
	stopChan           chan (bool)
	histChan           chan<- (State)
	fuelWarned         bool
}

// NewApproachMission returns a new approach propagation at the provided true
// airspeed (m/s), glideslope angle (rad, positive down) and screen height (m).
func NewApproachMission(ac *Aircraft, ics InitialConditions, vTas, gs, screenH float64, start time.Time, step time.Duration, conf ExportConfig) *ApproachMission {
	if gs <= 0 {
		panic(fmt.Errorf("glideslope angle must be positive, got %f", gs))
	}
	var histChan chan (State)
	if !conf.IsUseless() {
		histChan = make(chan (State), 1000)
		wg.Add(1)
		go func() {
			defer wg.Done()
			StreamStates(conf, runInfo{Approach, ics.Weight, vTas}, histChan)
		}()
	} else {
		histChan = nil
	}
	if start.Location() != time.UTC {
		start = start.UTC()
	}

	γ := -gs
	st := glideState(ac, start, vTas, γ, ics.Altitude, ics.Distance, ics.Weight)
	a := &ApproachMission{ac, st, vTas, gs, screenH, start, start, ics.Weight, step, make(chan (bool), 1), histChan, false}
	if histChan != nil {
		histChan <- st
	}
	return a
}

// glideState evaluates the quasi-steady pitch and thrust setting of the glide
// at the given state.
func glideState(ac *Aircraft, dt time.Time, vTas, γ, h, x, w float64) State {
	vCas := TAS2CAS(vTas, h)
	α := StableAoA(vCas, h, w, ac.WingArea)
	cl := StableLiftCoefficient(vCas, h, w, ac.WingArea)
	// Thrust balances drag and the weight component along the glideslope. On a
	// slope steeper than the drag limited glide it floors at idle.
	thrust := Drag(vCas, h, cl, ac.WingArea) + w*math.Sin(γ)
	if thrust < 0 {
		thrust = 0
	}
	return State{dt, vTas, γ, h, x, w, α + γ, α, thrust}
}

// LogStatus returns the status of the propagation and vehicle.
func (a *ApproachMission) LogStatus() {
	a.Vehicle.logger.Log("level", "info", "subsys", "fdm", "phase", Approach, "date", a.CurrentDT, "alt(m)", a.State.Altitude, "tas(m/s)", a.State.TAS, "thrust(N)", a.State.Thrust, "fuelBurnt(kg)", a.FuelBurnt())
}

// FuelBurnt returns the fuel mass (kg) burnt since the start of the approach.
func (a *ApproachMission) FuelBurnt() float64 {
	return (a.initWeight - a.State.Weight) / Grav
}

// Propagate starts the propagation.
func (a *ApproachMission) Propagate() {
	a.LogStatus()
	ode.NewRK4(0, a.step.Seconds(), a).Solve() // Blocking.
	a.Vehicle.logger.Log("level", "notice", "subsys", "fdm", "status", "finished", "duration", a.CurrentDT.Sub(a.StartDT), "alt(m)", a.State.Altitude, "distance(km)", a.State.Distance/1e3, "fuelBurnt(kg)", a.FuelBurnt())
	wg.Wait() // Don't return until we're done writing all the files.
}

// StopPropagation is used to stop the propagation before it is completed.
func (a *ApproachMission) StopPropagation() {
	a.stopChan <- true
}

// Stop implements the stop call of the integrator.
func (a *ApproachMission) Stop(t float64) bool {
	select {
	case <-a.stopChan:
		if a.histChan != nil {
			close(a.histChan)
		}
		return true
	default:
		a.CurrentDT = a.CurrentDT.Add(a.step)
		if a.State.Altitude <= a.ScreenH {
			if a.histChan != nil {
				close(a.histChan)
			}
			return true
		}
		// A glide which does not reach the screen height within a day ran away.
		if a.CurrentDT.After(a.StartDT.Add(24 * time.Hour)) {
			a.Vehicle.logger.Log("level", "critical", "subsys", "fdm", "status", "killed")
			if a.histChan != nil {
				close(a.histChan)
			}
			return true
		}
	}
	return false
}

// GetState returns the state for the integrator.
func (a *ApproachMission) GetState() (s []float64) {
	s = make([]float64, 3)
	s[0] = a.State.Altitude
	s[1] = a.State.Distance
	s[2] = a.State.Weight
	return
}

// SetState sets the updated state.
func (a *ApproachMission) SetState(t float64, s []float64) {
	st := glideState(a.Vehicle, a.CurrentDT, a.TAS, -a.Glideslope, s[0], s[1], s[2])
	a.State = st
	if a.histChan != nil {
		a.histChan <- st
	}
	if !a.fuelWarned && st.Weight < a.Vehicle.ZeroFuelWeight() {
		a.fuelWarned = true
		a.Vehicle.logger.Log("level", "critical", "subsys", "prop", "fuel(N)", st.Weight-a.Vehicle.ZeroFuelWeight(), "dt", a.CurrentDT)
	}
}

// Func is the integration function of the quasi-steady glide.
func (a *ApproachMission) Func(t float64, f []float64) (fDot []float64) {
	fDot = make([]float64, 3)
	h, w := f[0], f[2]
	γ := -a.Glideslope
	mach := TAS2Mach(a.TAS, h)
	vCas := TAS2CAS(a.TAS, h)
	cl := StableLiftCoefficient(vCas, h, w, a.Vehicle.WingArea)
	thrust := Drag(vCas, h, cl, a.Vehicle.WingArea) + w*math.Sin(γ)
	if thrust < 0 {
		thrust = 0
	}

	sinγ, cosγ := math.Sincos(γ)
	// dh/dt
	fDot[0] = a.TAS * sinγ
	// dx/dt
	fDot[1] = a.TAS * cosγ
	// dW/dt
	fDot[2] = -Grav * a.Vehicle.FuelFlow(thrust, mach, h)

	for i := 0; i < 3; i++ {
		if math.IsNaN(fDot[i]) {
			panic(fmt.Errorf("fDot[%d]=NaN @ dt=%s\nh=%f W=%f T=%f", i, a.CurrentDT, h, w, thrust))
		}
	}
	return
}
