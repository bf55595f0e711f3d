package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Solver.Size != 64 {
		t.Errorf("Solver.Size = %d, want 64", cfg.Solver.Size)
	}
	if cfg.Scene.TimeScale != 100 {
		t.Errorf("Scene.TimeScale = %v, want 100", cfg.Scene.TimeScale)
	}
	if len(cfg.Scene.Rockets) != 1 || len(cfg.Scene.Globes) != 1 {
		t.Errorf("default scene has %d rockets and %d globes", len(cfg.Scene.Rockets), len(cfg.Scene.Globes))
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smoke.yaml")
	data := []byte("solver:\n  size: 32\n  viscosity: 0.25\nserver:\n  address: \":9000\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Solver.Size != 32 || cfg.Solver.Viscosity != 0.25 {
		t.Errorf("solver = %+v, want overridden size and viscosity", cfg.Solver)
	}
	if cfg.Solver.DiffuseRate != 0.5 {
		t.Errorf("DiffuseRate = %v, want default 0.5", cfg.Solver.DiffuseRate)
	}
	if cfg.Server.Address != ":9000" || cfg.Server.FrameRate != 30 {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v, want os.ErrNotExist", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("solver: [1, 2"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() accepted malformed YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero size", func(c *Config) { c.Solver.Size = 0 }},
		{"negative diffusion", func(c *Config) { c.Solver.DiffuseRate = -1 }},
		{"negative viscosity", func(c *Config) { c.Solver.Viscosity = -0.1 }},
		{"zero density", func(c *Config) { c.Solver.Density = 0 }},
		{"zero time scale", func(c *Config) { c.Scene.TimeScale = 0 }},
		{"zero server frame rate", func(c *Config) { c.Server.FrameRate = 0 }},
		{"zero terminal frame rate", func(c *Config) { c.Terminal.FrameRate = -2 }},
		{"zero headless dt", func(c *Config) { c.Telemetry.HeadlessDT = 0 }},
		{"flat globe", func(c *Config) { c.Scene.Globes = []GlobeConfig{{Radius: 0}} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Errorf("Validate() error = %v, want ErrInvalid", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults fail validation: %v", err)
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := Default()
	cfg.Solver.Size = 48
	cfg.Scene.Emitters = []EmitterConfig{{X: 0.1, Y: 0.2, Rate: 3}}

	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Solver.Size != 48 || len(got.Scene.Emitters) != 1 || got.Scene.Emitters[0].Rate != 3 {
		t.Errorf("round trip lost values: %+v", got)
	}
}

func TestInitAndCfg(t *testing.T) {
	defer func() { global = nil }()

	if err := Init(""); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if Cfg().Solver.Size != 64 {
		t.Errorf("Cfg().Solver.Size = %d", Cfg().Solver.Size)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	global = nil
	defer func() {
		if recover() == nil {
			t.Error("Cfg() did not panic")
		}
	}()
	Cfg()
}
