// Package config provides configuration loading and access for the fluid engine.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all engine configuration parameters.
type Config struct {
	Screen    ScreenConfig    `yaml:"screen"`
	Sim       SimConfig       `yaml:"sim"`
	Splat     SplatConfig     `yaml:"splat"`
	Render    RenderConfig    `yaml:"render"`
	Palette   PaletteConfig   `yaml:"palette"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// SimConfig holds solver parameters.
type SimConfig struct {
	SimResolution       int     `yaml:"sim_resolution"`       // Base grid size of the velocity/pressure fields
	DyeResolution       int     `yaml:"dye_resolution"`       // Base grid size of the dye field (usually finer)
	VelocityDissipation float64 `yaml:"velocity_dissipation"` // Exponential decay rate of velocity per second
	DensityDissipation  float64 `yaml:"density_dissipation"`  // Exponential decay rate of dye per second
	Pressure            float64 `yaml:"pressure"`             // Warm-start carry-forward coefficient (< 1)
	PressureIterations  int     `yaml:"pressure_iterations"`  // Jacobi relaxation passes per tick
	Curl                float64 `yaml:"curl"`                 // Vorticity confinement strength
	MaxDT               float64 `yaml:"max_dt"`               // Timestep clamp in seconds
}

// SplatConfig holds impulse injection parameters.
type SplatConfig struct {
	Radius          float64 `yaml:"radius"`            // Gaussian radius, percent of the surface short axis
	Force           float64 `yaml:"force"`             // Velocity multiplier applied to pointer deltas
	IdleIntervalSec float64 `yaml:"idle_interval_sec"` // Seconds without input before a random burst (0 = off)
}

// RenderConfig holds compositing parameters.
type RenderConfig struct {
	Shading         bool       `yaml:"shading"`
	ShadingStrength float64    `yaml:"shading_strength"`
	Transparent     bool       `yaml:"transparent"`
	BackColor       [3]float64 `yaml:"back_color"` // RGB in [0,1]
}

// PaletteConfig holds color generation parameters.
type PaletteConfig struct {
	Colorful    bool     `yaml:"colorful"`     // Cycle active pointer colors over time
	UpdateSpeed float64  `yaml:"update_speed"` // Accumulated-time threshold scale for color cycling
	HueJitter   float64  `yaml:"hue_jitter"`   // Max hue perturbation per draw, in degrees
	Colors      []string `yaml:"colors"`       // Hex palette stops
}

// TelemetryConfig holds performance telemetry parameters.
type TelemetryConfig struct {
	PerfWindow     int     `yaml:"perf_window"`      // Frames per rolling stats window
	LogIntervalSec float64 `yaml:"log_interval_sec"` // Seconds between slog perf summaries (0 = off)
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	// Start with embedded defaults
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Load user config if provided
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.clamp()

	return cfg, nil
}

// clamp sanitizes values the solver cannot tolerate.
func (c *Config) clamp() {
	if c.Sim.SimResolution < 32 {
		c.Sim.SimResolution = 32
	}
	if c.Sim.DyeResolution < c.Sim.SimResolution {
		c.Sim.DyeResolution = c.Sim.SimResolution
	}
	if c.Sim.PressureIterations < 1 {
		c.Sim.PressureIterations = 1
	}
	if c.Sim.Pressure < 0 {
		c.Sim.Pressure = 0
	} else if c.Sim.Pressure > 1 {
		c.Sim.Pressure = 1
	}
	if c.Sim.MaxDT <= 0 {
		c.Sim.MaxDT = 1.0 / 60.0
	}
	if c.Splat.Radius <= 0 {
		c.Splat.Radius = 0.25
	}
	if c.Splat.IdleIntervalSec < 0 {
		c.Splat.IdleIntervalSec = 0
	}
	if c.Telemetry.PerfWindow < 1 {
		c.Telemetry.PerfWindow = 120
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
