package perfsim

import (
	"math"

	"github.com/gonum/floats"
)

const (
	deg2rad = math.Pi / 180
)

// sign returns the sign of a given number.
func sign(v float64) float64 {
	if floats.EqualWithinAbs(v, 0, 1e-12) {
		return 1
	}
	return v / math.Abs(v)
}

// Deg2rad converts degrees to radians, and enforced only positive numbers.
func Deg2rad(a float64) float64 {
	if a < 0 {
		a += 360
	}
	return math.Mod(a*deg2rad, 2*math.Pi)
}

// Rad2deg converts radians to degrees, and enforced only positive numbers.
func Rad2deg(a float64) float64 {
	if a < 0 {
		a += 2 * math.Pi
	}
	return math.Mod(a/deg2rad, 360)
}

// Rad2deg180 converts radians to degrees in the [-180, 180) range.
func Rad2deg180(a float64) float64 {
	deg := a / deg2rad
	for deg >= 180 {
		deg -= 360
	}
	for deg < -180 {
		deg += 360
	}
	return deg
}
