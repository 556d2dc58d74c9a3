package perfsim

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
)

var (
	cfgLoaded = false
	config    = _pasconfig{}
)

// _pasconfig is a "hidden" struct, just use `pasConfig`
type _pasconfig struct {
	outputDir  string
	resultsDir string
}

// pasConfig returns the perf-aero-sim configuration.
func pasConfig() _pasconfig {
	if cfgLoaded {
		return config
	}
	// Load the configuration file
	confPath := os.Getenv("PAS_CONFIG")
	if confPath == "" {
		panic("environment variable `PAS_CONFIG` is missing or empty")
	}
	viper.SetConfigName("conf")
	viper.AddConfigPath(confPath)
	err := viper.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("%s/conf.toml not found", confPath))
	}

	outputDir := viper.GetString("general.output_path")
	resultsDir := viper.GetString("general.results_path")
	if resultsDir == "" {
		resultsDir = "simulation_results"
	}

	cfgLoaded = true
	config = _pasconfig{outputDir: outputDir, resultsDir: resultsDir}
	return config
}
