// Package config provides configuration loading and access for the smoke simulation.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// ErrInvalid is returned by Validate for out-of-range values.
var ErrInvalid = errors.New("config: invalid value")

// Config holds all simulation configuration parameters.
type Config struct {
	Solver    SolverConfig    `yaml:"solver"`
	Scene     SceneConfig     `yaml:"scene"`
	Server    ServerConfig    `yaml:"server"`
	Terminal  TerminalConfig  `yaml:"terminal"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Detector  DetectorConfig  `yaml:"detector"`
}

// SolverConfig holds grid resolution and fluid constants.
type SolverConfig struct {
	Size        int     `yaml:"size"`         // Cells per axis
	DiffuseRate float64 `yaml:"diffuse_rate"` // Smoke diffusion
	Viscosity   float64 `yaml:"viscosity"`    // Velocity diffusion
	Density     float64 `yaml:"density"`      // Fluid density used by the pressure solve
}

// SceneConfig holds the ambient force and the objects placed in the scene.
type SceneConfig struct {
	TimeScale float64         `yaml:"time_scale"`
	ForceX    float64         `yaml:"force_x"`
	ForceY    float64         `yaml:"force_y"`
	Rockets   []RocketConfig  `yaml:"rockets"`
	Globes    []GlobeConfig   `yaml:"globes"`
	Emitters  []EmitterConfig `yaml:"emitters"`
}

// RocketConfig describes a moving smoke source. Positions are normalized.
type RocketConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	VX       float64 `yaml:"vx"` // Units per second
	VY       float64 `yaml:"vy"`
	Emission float64 `yaml:"emission"`
	Thrust   float64 `yaml:"thrust"`
}

// GlobeConfig describes a spinning body that stirs the flow.
type GlobeConfig struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Radius   float64 `yaml:"radius"`
	Spin     float64 `yaml:"spin"` // Radians per second
	Strength float64 `yaml:"strength"`
}

// EmitterConfig describes a fixed smoke source.
type EmitterConfig struct {
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
	Rate float64 `yaml:"rate"`
}

// ServerConfig holds the websocket front-end settings.
type ServerConfig struct {
	Address   string `yaml:"address"`
	Prefix    string `yaml:"prefix"`
	Root      string `yaml:"root"`
	FrameRate int    `yaml:"frame_rate"`
}

// TerminalConfig holds the termbox front-end settings.
type TerminalConfig struct {
	FrameRate   int     `yaml:"frame_rate"`
	LogFile     string  `yaml:"log_file"`
	ClickAmount float64 `yaml:"click_amount"`
}

// TelemetryConfig holds the CSV output settings.
type TelemetryConfig struct {
	Output     string  `yaml:"output"`      // CSV path, empty disables
	HeadlessDT float64 `yaml:"headless_dt"` // Seconds per frame in headless mode
}

// DetectorConfig holds the face detector settings.
type DetectorConfig struct {
	Cascade      string  `yaml:"cascade"` // Path to the pigo facefinder cascade
	MinSize      int     `yaml:"min_size"`
	MaxSize      int     `yaml:"max_size"`
	ShiftFactor  float64 `yaml:"shift_factor"`
	ScaleFactor  float64 `yaml:"scale_factor"`
	IoUThreshold float64 `yaml:"iou_threshold"`
	MinQuality   float64 `yaml:"min_quality"`
	Emission     float64 `yaml:"emission"`
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		panic(fmt.Sprintf("config: parsing embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only fields present in the file are overwritten.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the solver would accept but cannot run stably with.
func (c *Config) Validate() error {
	switch {
	case c.Solver.Size < 1:
		return fmt.Errorf("%w: solver.size must be positive, got %d", ErrInvalid, c.Solver.Size)
	case c.Solver.DiffuseRate < 0:
		return fmt.Errorf("%w: solver.diffuse_rate must not be negative, got %v", ErrInvalid, c.Solver.DiffuseRate)
	case c.Solver.Viscosity < 0:
		return fmt.Errorf("%w: solver.viscosity must not be negative, got %v", ErrInvalid, c.Solver.Viscosity)
	case c.Solver.Density <= 0:
		return fmt.Errorf("%w: solver.density must be positive, got %v", ErrInvalid, c.Solver.Density)
	case c.Scene.TimeScale <= 0:
		return fmt.Errorf("%w: scene.time_scale must be positive, got %v", ErrInvalid, c.Scene.TimeScale)
	case c.Server.FrameRate <= 0:
		return fmt.Errorf("%w: server.frame_rate must be positive, got %d", ErrInvalid, c.Server.FrameRate)
	case c.Terminal.FrameRate <= 0:
		return fmt.Errorf("%w: terminal.frame_rate must be positive, got %d", ErrInvalid, c.Terminal.FrameRate)
	case c.Telemetry.HeadlessDT <= 0:
		return fmt.Errorf("%w: telemetry.headless_dt must be positive, got %v", ErrInvalid, c.Telemetry.HeadlessDT)
	}
	for i, g := range c.Scene.Globes {
		if g.Radius <= 0 {
			return fmt.Errorf("%w: scene.globes[%d].radius must be positive, got %v", ErrInvalid, i, g.Radius)
		}
	}
	return nil
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
