// Package config handles simulator configuration loading and management.
package config

// Config holds all simulator settings.
type Config struct {
	Arena      ArenaConfig      `yaml:"arena"`
	Simulation SimulationConfig `yaml:"simulation"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ArenaConfig selects the arena geometry.
type ArenaConfig struct {
	Mode     string `yaml:"mode"`      // standard, hoops, dropshot, throwback
	AssetDir string `yaml:"asset_dir"` // directory with panel mesh files, empty for built-in panels
}

// SimulationConfig holds integrator settings.
type SimulationConfig struct {
	TickRate int     `yaml:"tick_rate"` // simulation steps per second
	Horizon  float64 `yaml:"horizon"`   // prediction length in seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Arena: ArenaConfig{
			Mode:     "standard",
			AssetDir: "",
		},
		Simulation: SimulationConfig{
			TickRate: 120,
			Horizon:  6.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
