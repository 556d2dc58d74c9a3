package perfsim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/soniakeys/meeus/julian"
)

// Series stores one recorded quantity of a simulation run.
type Series struct {
	Unit   string    `json:"unit"`
	Values []float64 `json:"values"`
}

// ResultFile stores the serialized results of a phase simulation. It doubles
// as a cache: a simulation with the same phase, initial weight and reference
// speed can be loaded instead of re-propagated.
type ResultFile struct {
	Phase         string            `json:"phase"`
	InitialWeight float64           `json:"initialWeight"` // N
	RefSpeed      float64           `json:"refSpeed"`      // m/s
	Series        map[string]Series `json:"series"`
}

// Len returns the number of recorded states.
func (r *ResultFile) Len() int {
	if s, found := r.Series["t"]; found {
		return len(s.Values)
	}
	return 0
}

// runInfo identifies a propagation for its artifacts.
type runInfo struct {
	phase      Phase
	initWeight float64
	refSpeed   float64
}

// resultsPath returns the cache file path of a run.
func resultsPath(phase Phase, initialWeight, refSpeed float64) string {
	return filepath.Join(pasConfig().resultsDir, fmt.Sprintf("%s_%.0f_%.0f_simulation_result.json", phase, initialWeight, refSpeed))
}

// LoadResults loads the cached result file for the given phase, initial
// weight (N) and reference speed (m/s).
func LoadResults(phase Phase, initialWeight, refSpeed float64) (*ResultFile, error) {
	data, err := os.ReadFile(resultsPath(phase, initialWeight, refSpeed))
	if err != nil {
		return nil, err
	}
	res := ResultFile{}
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Propagator propagates a flight phase.
type Propagator interface {
	Propagate()
}

// LoadOrPropagate returns the cached results for the given run if present,
// and otherwise builds the propagator, runs it and loads the fresh cache.
// The built propagator must be configured with a caching ExportConfig.
func LoadOrPropagate(build func() Propagator, phase Phase, initialWeight, refSpeed float64) (*ResultFile, error) {
	res, err := LoadResults(phase, initialWeight, refSpeed)
	if err == nil {
		return res, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}
	build().Propagate()
	return LoadResults(phase, initialWeight, refSpeed)
}

// createTrajectoryCSVFile returns a file which requires a defer close statement!
func createTrajectoryCSVFile(filename string, conf ExportConfig, run runInfo, stateDT time.Time) *os.File {
	config := pasConfig()
	if conf.Timestamp {
		t := time.Now()
		filename = fmt.Sprintf("%s/trajectory-%s-%d-%02d-%02dT%02d.%02d.%02d.csv", config.outputDir, filename, t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second())
	} else {
		filename = fmt.Sprintf("%s/trajectory-%s.csv", config.outputDir, filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf(`# Creation date (UTC): %s
# Records are t, x, h, TAS, CAS, Mach, gamma, theta, aoa, thrust, weight, fuelBurnt.
#   Angles in degrees, speeds in m/s, forces in N, fuel in kg. jd is a UTC Julian date.
#   Phase: %s. Initial weight: %.0f N. Reference speed: %.2f m/s.
#   Simulation time start (UTC): %s
t,jd,x,h,tas,cas,mach,gamma,theta,aoa,thrust,weight,fuelBurnt,`, time.Now(), run.phase, run.initWeight, run.refSpeed, stateDT.UTC()))
	if conf.CSVAppendHdr != nil {
		// Append the headers for the appended columns.
		f.WriteString(conf.CSVAppendHdr())
	}
	return f
}

// StreamStates streams the states of a propagation to the configured artifacts.
func StreamStates(conf ExportConfig, run runInfo, stateChan <-chan (State)) {
	var firstStatePtr, prevStatePtr *State
	var fCSV *os.File
	var res *ResultFile
	if conf.Cache {
		res = &ResultFile{Phase: run.phase.String(), InitialWeight: run.initWeight, RefSpeed: run.refSpeed, Series: map[string]Series{
			"t":         {Unit: "s"},
			"x":         {Unit: "m"},
			"h":         {Unit: "m"},
			"v_tas":     {Unit: "m/s"},
			"v_cas":     {Unit: "m/s"},
			"mach":      {Unit: ""},
			"gamma":     {Unit: "rad"},
			"theta":     {Unit: "rad"},
			"aoa":       {Unit: "rad"},
			"thrust":    {Unit: "N"},
			"fuel_burn": {Unit: "kg"},
		}}
	}

	for {
		state, more := <-stateChan
		if more {
			if prevStatePtr == nil {
				firstStatePtr = &state
				if conf.AsCSV {
					fCSV = createTrajectoryCSVFile(conf.Filename, conf, run, state.DT)
				}
			}
			prevStatePtr = &state
			elapsed := state.DT.Sub(firstStatePtr.DT).Seconds()
			fuelBurnt := (run.initWeight - state.Weight) / Grav
			if conf.AsCSV {
				asTxt := fmt.Sprintf("%.1f,%f,%.3f,%.3f,%.3f,%.3f,%.4f,%.4f,%.4f,%.4f,%.3f,%.3f,%.4f", elapsed, julian.TimeToJD(state.DT), state.Distance, state.Altitude, state.TAS, state.CAS(), state.Mach(), Rad2deg180(state.FlightPath), Rad2deg180(state.Pitch), Rad2deg180(state.AoA), state.Thrust, state.Weight, fuelBurnt)
				if conf.CSVAppend != nil {
					asTxt += "," + conf.CSVAppend(state)
				}
				if _, err := fCSV.WriteString("\n" + asTxt); err != nil {
					panic(err)
				}
			}
			if conf.Cache {
				res.append("t", elapsed)
				res.append("x", state.Distance)
				res.append("h", state.Altitude)
				res.append("v_tas", state.TAS)
				res.append("v_cas", state.CAS())
				res.append("mach", state.Mach())
				res.append("gamma", state.FlightPath)
				res.append("theta", state.Pitch)
				res.append("aoa", state.AoA)
				res.append("thrust", state.Thrust)
				res.append("fuel_burn", fuelBurnt)
			}
		} else {
			// The channel is closed, hence the simulation is over.
			if conf.AsCSV && fCSV != nil {
				fCSV.WriteString(fmt.Sprintf("\n# Simulation time end (UTC): %s\n", prevStatePtr.DT.UTC()))
				fCSV.Close()
			}
			if conf.Cache && res != nil {
				writeResultsFile(res, run)
			}
			break
		}
	}
}

func (r *ResultFile) append(key string, val float64) {
	s := r.Series[key]
	s.Values = append(s.Values, val)
	r.Series[key] = s
}

// writeResultsFile serializes the results to the cache file of the run.
func writeResultsFile(res *ResultFile, run runInfo) {
	dir := pasConfig().resultsDir
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(err)
	}
	marsh, err := json.MarshalIndent(res, "", "    ")
	if err != nil {
		panic(err)
	}
	fn := resultsPath(run.phase, run.initWeight, run.refSpeed)
	if err := os.WriteFile(fn, marsh, 0644); err != nil {
		panic(err)
	}
	fmt.Printf("Saved results to %s.\n", fn)
}

// ExportConfig configures the exporting of the simulation.
type ExportConfig struct {
	Filename     string
	AsCSV        bool
	Cache        bool // write the JSON result cache file
	Timestamp    bool
	CSVAppend    func(st State) string // Custom export (do not include leading comma)
	CSVAppendHdr func() string         // Header for the custom export
}

// IsUseless returns whether this config doesn't actually do anything.
func (c ExportConfig) IsUseless() bool {
	return !c.AsCSV && !c.Cache
}
