package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	perfsim "github.com/Git4amar/perf-aero-sim"
	"github.com/spf13/viper"
)

// This code effectively only reads the scenario file and propagates the phase.

const (
	defaultScenario = "~~unset~~"
)

var (
	scenario string
	verbose  bool
)

func init() {
	// Read flags
	flag.StringVar(&scenario, "scenario", defaultScenario, "flight phase scenario TOML file")
	flag.BoolVar(&verbose, "verbose", false, "really verbose (esp. for configuration)")
}

func main() {
	flag.Parse()
	// Load scenario
	if scenario == defaultScenario {
		log.Fatal("no scenario provided")
	}
	scenario = strings.Replace(scenario, ".toml", "", 1)
	viper.AddConfigPath(".")
	viper.SetConfigName(scenario)
	err := viper.ReadInConfig()
	if err != nil {
		log.Fatalf("./%s.toml: Error %s", scenario, err)
	}

	// Read mission parameters
	phase, err := perfsim.ParsePhase(viper.GetString("mission.phase"))
	if err != nil {
		log.Fatalf("could not understand phase: %s", err)
	}
	startDT := viper.GetTime("mission.start")
	if startDT.IsZero() {
		startDT = time.Now().UTC()
	}
	endDT := viper.GetTime("mission.end")
	if endDT.IsZero() {
		endDT = startDT.Add(-1) // Propagate until the phase completes.
	}
	step := viper.GetDuration("mission.step")
	if step == 0 {
		step = perfsim.StepSize
	}
	if verbose {
		log.Printf("[conf] time step: %s\n", step)
	}

	// Read aircraft
	acName := viper.GetString("aircraft.name")
	wingArea := viper.GetFloat64("aircraft.wing_area")
	mtow := viper.GetFloat64("aircraft.mtow")
	fuelWeight := viper.GetFloat64("aircraft.fuel")
	numEngines := viper.GetInt("aircraft.engines")
	thrustSL := viper.GetFloat64("aircraft.engine.thrust_sl")
	bpr := viper.GetFloat64("aircraft.engine.bpr")
	engines := make([]perfsim.Engine, numEngines)
	for i := range engines {
		engines[i] = perfsim.NewTurbofan(thrustSL, bpr)
	}
	if verbose {
		log.Printf("[conf] %s: S=%.0f m^2 MTOW=%.0f N %dx%.0f kN (BPR %.0f)\n", acName, wingArea, mtow, numEngines, thrustSL/1e3, bpr)
	}

	// Read initial conditions
	ics := perfsim.InitialConditions{
		Distance: viper.GetFloat64("initial.distance"),
		Altitude: viper.GetFloat64("initial.altitude"),
		Weight:   viper.GetFloat64("initial.weight"),
		CAS:      viper.GetFloat64("initial.cas"),
	}
	if ics.Weight == 0 {
		ics.Weight = mtow
	}

	// Read export
	conf := perfsim.ExportConfig{
		Filename:  viper.GetString("export.filename"),
		AsCSV:     viper.GetBool("export.csv"),
		Cache:     viper.GetBool("export.cache"),
		Timestamp: viper.GetBool("export.timestamp"),
	}
	if conf.Filename == "" {
		conf.Filename = fmt.Sprintf("%s-%s", acName, phase)
	}

	switch phase {
	case perfsim.Approach:
		vTas := viper.GetFloat64("approach.tas")
		gs := perfsim.DefaultGlideslope
		if gsDeg := viper.GetFloat64("approach.glideslope"); gsDeg != 0 {
			gs = perfsim.Deg2rad(gsDeg)
		}
		screenH := viper.GetFloat64("approach.screen_height")
		if screenH == 0 {
			screenH = perfsim.ScreenHeight
		}
		ac := perfsim.NewAircraft(acName, wingArea, mtow, fuelWeight, engines, perfsim.NewGlideslopePilot(wingArea, gs))
		perfsim.NewApproachMission(ac, ics, vTas, gs, screenH, startDT, step, conf).Propagate()
	default:
		gain := viper.GetFloat64("pilot.gain")
		refCAS := viper.GetFloat64("pilot.vref")
		cruiseMach := viper.GetFloat64("pilot.cruise_mach")
		pilot := perfsim.NewSpeedHoldPilot(gain, refCAS, cruiseMach, phase)
		ac := perfsim.NewAircraft(acName, wingArea, mtow, fuelWeight, engines, pilot)
		perfsim.NewPreciseMission(ac, ics, phase, startDT, endDT, step, conf).Propagate()
	}
}
