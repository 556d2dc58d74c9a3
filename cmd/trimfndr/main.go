package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	perfsim "github.com/Git4amar/perf-aero-sim"
)

const (
	serviceCeilingROC = 0.508 // m/s, 100 ft/min
)

var (
	cpus     int
	aircraft string
	stepSize float64
	climbCAS float64
	wg       sync.WaitGroup
)

func init() {
	// Read flags
	flag.IntVar(&cpus, "cpus", -1, "number of CPUs to use for this sweep (set to 0 for max CPUs)")
	flag.StringVar(&aircraft, "aircraft", "undef", "aircraft preset to sweep")
	flag.Float64Var(&stepSize, "step", 500, "altitude step in meters (250 to 1000 recommended)")
	flag.Float64Var(&climbCAS, "cas", 160, "climb calibrated airspeed in m/s")
}

/*
 * This tool sweeps the climb performance envelope: for each altitude and weight it
 * computes the steady trim and the full thrust rate of climb, and reports the
 * service ceiling (the altitude at which the rate of climb drops to 100 ft/min).
 */

func quadjet() *perfsim.Aircraft {
	engines := []perfsim.Engine{}
	for i := 0; i < 4; i++ {
		engines = append(engines, perfsim.NewTurbofan(270e3, 5))
	}
	return perfsim.NewAircraft("quadjet", 500, 3.6e6, 1.6e6, engines, perfsim.NewConstantPitch(0))
}

func main() {
	flag.Parse()
	availableCPUs := runtime.NumCPU()
	if cpus <= 0 || cpus > availableCPUs {
		cpus = availableCPUs
	}
	runtime.GOMAXPROCS(cpus)
	fmt.Printf("running on %d CPUs\n", cpus)

	if stepSize <= 0 {
		fmt.Println("altitude step must be positive")
		flag.Usage()
		return
	}

	var acPtr func() *perfsim.Aircraft
	aircraft = strings.ToLower(aircraft)
	switch aircraft {
	case "quadjet":
		acPtr = quadjet
	default:
		fmt.Printf("unsupported aircraft `%s`\n", aircraft)
		flag.Usage()
		return
	}

	fmt.Printf("Sweeping climb envelope of %s at %.0f m/s CAS\n", aircraft, climbCAS)

	ac := acPtr()
	weights := []float64{ac.MTOW, ac.MTOW - 0.5*ac.FuelWeight, ac.ZeroFuelWeight()}
	rslts := make(chan string, 10)
	wg.Add(1)
	go streamResults(fmt.Sprintf("%s-%.0fstep", aircraft, stepSize), rslts)

	ceilings := make([]float64, len(weights))
	for wNo, weight := range weights {
		ceilings[wNo] = -1
		for alt := 0.0; alt <= perfsim.CruiseAltitude; alt += stepSize {
			roc := perfsim.RateOfClimb(ac, weight, alt, climbCAS, 0.95)
			trim, err := perfsim.SteadyTrim(climbCAS, alt, weight, ac.WingArea, 0)
			if err != nil {
				fmt.Fprintf(os.Stderr, "trim failed at W=%.0f N h=%.0f m: %s\n", weight, alt, err)
				os.Exit(1)
			}
			rslts <- fmt.Sprintf("%f,%f,%f,%f,%f\n", weight, alt, roc, perfsim.Rad2deg180(trim.AoA), trim.Thrust)
			if roc >= serviceCeilingROC {
				ceilings[wNo] = alt
			}
		}
	}
	close(rslts)
	wg.Wait()

	fmt.Printf("\n\n=== RESULT ===\n\n")
	for wNo, weight := range weights {
		if ceilings[wNo] < 0 {
			fmt.Printf("W=%.0f N\tno climb capability at %.0f m/s CAS\n", weight, climbCAS)
			continue
		}
		fmt.Printf("W=%.0f N\tservice ceiling ~%.0f m\n", weight, ceilings[wNo])
	}
}

func streamResults(fn string, rslts <-chan string) {
	// Write CSV file.
	f, err := os.Create(fmt.Sprintf("./%s.csv", fn))
	if err != nil {
		panic(err)
	}
	// Header
	f.WriteString(fmt.Sprintf("#climb CAS=%f m/s, thrust fraction=0.95\n#W (N), h (m), ROC (m/s), trim aoa (degrees), trim thrust (N)\n", climbCAS))
	for {
		rslt, more := <-rslts
		if more {
			if _, err := f.WriteString(rslt); err != nil {
				panic(err)
			}
		} else {
			break
		}
	}
	f.Close()
	wg.Done()
}
