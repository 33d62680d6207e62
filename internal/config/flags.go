package config

import "flag"

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagMode     = flag.String("mode", "", "Arena mode (standard, hoops, dropshot, throwback)")
	flagAssets   = flag.String("assets", "", "Directory with panel mesh files")
	flagDuration = flag.Float64("duration", 0, "Prediction length in seconds")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagMode != "" {
		cfg.Arena.Mode = *flagMode
	}
	if *flagAssets != "" {
		cfg.Arena.AssetDir = *flagAssets
	}
	if *flagDuration > 0 {
		cfg.Simulation.Horizon = *flagDuration
	}
}
