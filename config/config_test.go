package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	if cfg.Sim.SimResolution != 128 {
		t.Errorf("SimResolution = %d, want 128", cfg.Sim.SimResolution)
	}
	if cfg.Sim.DyeResolution != 1024 {
		t.Errorf("DyeResolution = %d, want 1024", cfg.Sim.DyeResolution)
	}
	if cfg.Sim.PressureIterations != 20 {
		t.Errorf("PressureIterations = %d, want 20", cfg.Sim.PressureIterations)
	}
	if cfg.Sim.Curl != 30.0 {
		t.Errorf("Curl = %v, want 30", cfg.Sim.Curl)
	}
	if cfg.Splat.Radius != 0.25 {
		t.Errorf("Splat.Radius = %v, want 0.25", cfg.Splat.Radius)
	}
	if cfg.Splat.Force != 6000 {
		t.Errorf("Splat.Force = %v, want 6000", cfg.Splat.Force)
	}
	if !cfg.Render.Shading {
		t.Error("Render.Shading should default to true")
	}
	if len(cfg.Palette.Colors) == 0 {
		t.Error("default palette should have color stops")
	}
	if cfg.Telemetry.PerfWindow != 120 {
		t.Errorf("PerfWindow = %d, want 120", cfg.Telemetry.PerfWindow)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.yaml")
	user := `
sim:
  sim_resolution: 256
splat:
  force: 4000
`
	if err := os.WriteFile(path, []byte(user), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	// Overridden fields take the user values.
	if cfg.Sim.SimResolution != 256 {
		t.Errorf("SimResolution = %d, want user override 256", cfg.Sim.SimResolution)
	}
	if cfg.Splat.Force != 4000 {
		t.Errorf("Splat.Force = %v, want user override 4000", cfg.Splat.Force)
	}
	// Untouched fields keep the embedded defaults.
	if cfg.Sim.DyeResolution != 1024 {
		t.Errorf("DyeResolution = %d, want default 1024", cfg.Sim.DyeResolution)
	}
	if cfg.Sim.Curl != 30.0 {
		t.Errorf("Curl = %v, want default 30", cfg.Sim.Curl)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestClamp(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*Config)
		check func(*testing.T, *Config)
	}{
		{
			"sim resolution floor",
			func(c *Config) { c.Sim.SimResolution = 8 },
			func(t *testing.T, c *Config) {
				if c.Sim.SimResolution != 32 {
					t.Errorf("SimResolution = %d, want 32", c.Sim.SimResolution)
				}
			},
		},
		{
			"dye never coarser than sim",
			func(c *Config) { c.Sim.SimResolution = 256; c.Sim.DyeResolution = 64 },
			func(t *testing.T, c *Config) {
				if c.Sim.DyeResolution != 256 {
					t.Errorf("DyeResolution = %d, want 256", c.Sim.DyeResolution)
				}
			},
		},
		{
			"pressure iterations floor",
			func(c *Config) { c.Sim.PressureIterations = 0 },
			func(t *testing.T, c *Config) {
				if c.Sim.PressureIterations != 1 {
					t.Errorf("PressureIterations = %d, want 1", c.Sim.PressureIterations)
				}
			},
		},
		{
			"pressure coefficient range",
			func(c *Config) { c.Sim.Pressure = 1.5 },
			func(t *testing.T, c *Config) {
				if c.Sim.Pressure != 1 {
					t.Errorf("Pressure = %v, want 1", c.Sim.Pressure)
				}
			},
		},
		{
			"max dt fallback",
			func(c *Config) { c.Sim.MaxDT = 0 },
			func(t *testing.T, c *Config) {
				if c.Sim.MaxDT != 1.0/60.0 {
					t.Errorf("MaxDT = %v, want %v", c.Sim.MaxDT, 1.0/60.0)
				}
			},
		},
		{
			"splat radius fallback",
			func(c *Config) { c.Splat.Radius = -1 },
			func(t *testing.T, c *Config) {
				if c.Splat.Radius != 0.25 {
					t.Errorf("Splat.Radius = %v, want 0.25", c.Splat.Radius)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := Load("")
			if err != nil {
				t.Fatal(err)
			}
			tc.mut(cfg)
			cfg.clamp()
			tc.check(t, cfg)
		})
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Sim.Curl = 42.5

	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	back, err := Load(path)
	if err != nil {
		t.Fatalf("reloading written config: %v", err)
	}
	if back.Sim.Curl != 42.5 {
		t.Errorf("Curl after round trip = %v, want 42.5", back.Sim.Curl)
	}
}
