package perfsim

import (
	"fmt"
	"math"

	"github.com/gonum/floats"
	"github.com/gonum/matrix/mat64"
)

const (
	trimTolerance = 1e-3 // N, well below any meaningful force imbalance
	trimMaxIters  = 20
)

// Trim is the steady straight flight solution at a given speed, altitude,
// weight and flight path angle.
type Trim struct {
	AoA    float64 // rad
	Thrust float64 // N, total thrust required
	Pitch  float64 // rad
	Drag   float64 // N
}

func (t Trim) String() string {
	return fmt.Sprintf("α=%.4f rad T=%.1f N θ=%.4f rad D=%.1f N", t.AoA, t.Thrust, t.Pitch, t.Drag)
}

// SteadyTrim solves for the angle of attack and thrust of steady straight
// flight on the provided flight path angle (rad) via Newton-Raphson on the
// lift and thrust balance equations.
func SteadyTrim(vCas, altitude, weight, wingArea, γ float64) (Trim, error) {
	vTas := CAS2TAS(vCas, altitude)
	q := 0.5 * ISA(altitude).Density * wingArea * vTas * vTas
	sinγ, cosγ := math.Sincos(γ)

	// Residuals of the lift and thrust balance.
	resid := func(α, thrust float64) (f1, f2 float64) {
		cl := LiftCoefficient(α)
		f1 = q*cl - weight*cosγ
		f2 = thrust - q*DragCoefficient(cl) - weight*sinγ
		return
	}

	// Initial guess from the small angle steady relations.
	α := StableAoA(vCas, altitude, weight, wingArea)
	thrust := q*DragCoefficient(LiftCoefficient(α)) + weight*sinγ

	for iter := 0; iter < trimMaxIters; iter++ {
		f1, f2 := resid(α, thrust)
		if floats.EqualWithinAbs(f1, 0, trimTolerance) && floats.EqualWithinAbs(f2, 0, trimTolerance) {
			cl := LiftCoefficient(α)
			return Trim{α, thrust, α + γ, q * DragCoefficient(cl)}, nil
		}
		cl := LiftCoefficient(α)
		jac := mat64.NewDense(2, 2, []float64{
			q * LiftSlope, 0,
			-q * 2 * InducedDragK * cl * LiftSlope, 1,
		})
		var jacInv mat64.Dense
		if err := jacInv.Inverse(jac); err != nil {
			return Trim{}, fmt.Errorf("singular trim Jacobian: %s", err)
		}
		Δ := mat64.NewVector(2, nil)
		Δ.MulVec(&jacInv, mat64.NewVector(2, []float64{f1, f2}))
		α -= Δ.At(0, 0)
		thrust -= Δ.At(1, 0)
	}
	return Trim{}, fmt.Errorf("trim did not converge after %d iterations (v=%.1f m/s h=%.0f m W=%.0f N γ=%.4f rad)", trimMaxIters, vCas, altitude, weight, γ)
}

// RateOfClimb returns the steady rate of climb (m/s) at the given thrust
// fraction, with lift balancing weight.
func RateOfClimb(ac *Aircraft, weight, altitude, vCas, thrustFraction float64) float64 {
	vTas := CAS2TAS(vCas, altitude)
	mach := CAS2Mach(vCas, altitude)
	cl := StableLiftCoefficient(vCas, altitude, weight, ac.WingArea)
	drag := Drag(vCas, altitude, cl, ac.WingArea)
	thrust := thrustFraction * ac.MaxThrust(altitude, mach)
	return vTas * (thrust - drag) / weight
}
