package perfsim

import (
	"fmt"
	"math"
)

const (
	// Grav is the standard gravitational acceleration in m/s^2.
	Grav = 9.80665
	// AirGasConstant is the specific gas constant of dry air in J/(kg.K).
	AirGasConstant = 287.05287
	// AirGamma is the ratio of specific heats of dry air.
	AirGamma = 1.4
)

// isaLayer defines the base conditions of an ISA layer.
type isaLayer struct {
	baseAlt  float64 // geopotential altitude of the layer base (m)
	baseTemp float64 // temperature at the layer base (K)
	basePres float64 // static pressure at the layer base (Pa)
	lapse    float64 // temperature lapse rate (K/m), zero if isothermal
}

// ISA layers up to 32 km, base pressures precomputed from the hydrostatic equation.
var isaLayers = []isaLayer{
	{0, 288.15, 101325, -0.0065},
	{11000, 216.65, 22632.06, 0},
	{20000, 216.65, 5474.889, 0.001},
	{32000, 228.65, 868.0187, 0.0028},
}

// Atmosphere stores the ISA conditions at a given altitude.
type Atmosphere struct {
	Temperature  float64 // K
	Pressure     float64 // Pa
	Density      float64 // kg/m^3
	SpeedOfSound float64 // m/s
}

func (a Atmosphere) String() string {
	return fmt.Sprintf("T=%.2f K p=%.2f Pa rho=%.4f kg/m^3 a=%.2f m/s", a.Temperature, a.Pressure, a.Density, a.SpeedOfSound)
}

// ISA returns the International Standard Atmosphere conditions at the provided
// geopotential altitude in meters. Panics if the altitude is outside of the
// supported range of -1 km to 32 km.
func ISA(altitude float64) Atmosphere {
	if altitude < -1e3 || altitude > 32e3 {
		panic(fmt.Errorf("altitude %.1f m outside of supported ISA range [-1 km, 32 km]", altitude))
	}
	layer := isaLayers[0]
	for _, l := range isaLayers {
		if altitude < l.baseAlt {
			break
		}
		layer = l
	}
	var temp, pres float64
	if layer.lapse == 0 {
		temp = layer.baseTemp
		pres = layer.basePres * math.Exp(-Grav*(altitude-layer.baseAlt)/(AirGasConstant*temp))
	} else {
		temp = layer.baseTemp + layer.lapse*(altitude-layer.baseAlt)
		pres = layer.basePres * math.Pow(temp/layer.baseTemp, -Grav/(AirGasConstant*layer.lapse))
	}
	return Atmosphere{
		Temperature:  temp,
		Pressure:     pres,
		Density:      pres / (AirGasConstant * temp),
		SpeedOfSound: math.Sqrt(AirGamma * AirGasConstant * temp),
	}
}
