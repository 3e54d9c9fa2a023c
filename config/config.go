// Package config loads engine settings from TOML.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/physics"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("config: invalid")

// Config is the engine configuration.
type Config struct {
	Window  Window  `toml:"window"`
	Physics Physics `toml:"physics"`
	Debug   Debug   `toml:"debug"`
	Editor  Editor  `toml:"editor"`
}

type Window struct {
	Title  string `toml:"title"`
	Width  int    `toml:"width"`
	Height int    `toml:"height"`
}

type Physics struct {
	GravityX           float32 `toml:"gravity_x"`
	GravityY           float32 `toml:"gravity_y"`
	VelocityIterations int     `toml:"velocity_iterations"`
	PositionIterations int     `toml:"position_iterations"`
	// FixedStep in seconds; 0 steps by the frame delta.
	FixedStep float64 `toml:"fixed_step"`
}

type Debug struct {
	ShowColliders bool   `toml:"show_colliders"`
	LogLevel      string `toml:"log_level"`
}

type Editor struct {
	CameraZoom float32 `toml:"camera_zoom"`
	PanSpeed   float32 `toml:"pan_speed"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	p := physics.DefaultConfig()
	return Config{
		Window: Window{Title: "stage", Width: 1280, Height: 720},
		Physics: Physics{
			GravityX:           p.Gravity[0],
			GravityY:           p.Gravity[1],
			VelocityIterations: p.VelocityIterations,
			PositionIterations: p.PositionIterations,
		},
		Debug:  Debug{LogLevel: "info"},
		Editor: Editor{CameraZoom: 10, PanSpeed: 5},
	}
}

// Load reads and validates the file at path. Keys missing from the file
// keep their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML over Default and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks sizes, iteration counts and the log level.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height))
	}
	if c.Physics.VelocityIterations <= 0 {
		errs = append(errs, fmt.Errorf("%w: physics.velocity_iterations %d", ErrInvalid, c.Physics.VelocityIterations))
	}
	if c.Physics.PositionIterations <= 0 {
		errs = append(errs, fmt.Errorf("%w: physics.position_iterations %d", ErrInvalid, c.Physics.PositionIterations))
	}
	if c.Physics.FixedStep < 0 {
		errs = append(errs, fmt.Errorf("%w: physics.fixed_step %g", ErrInvalid, c.Physics.FixedStep))
	}
	if c.Editor.CameraZoom <= 0 {
		errs = append(errs, fmt.Errorf("%w: editor.camera_zoom %g", ErrInvalid, c.Editor.CameraZoom))
	}
	if _, err := c.Debug.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Level parses LogLevel. An empty level means info.
func (d Debug) Level() (slog.Level, error) {
	if d.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(d.LogLevel)); err != nil {
		return 0, fmt.Errorf("%w: debug.log_level %q", ErrInvalid, d.LogLevel)
	}
	return level, nil
}

// World converts the physics section for physics.NewWorld.
func (p Physics) World() physics.Config {
	return physics.Config{
		Gravity:            mgl32.Vec2{p.GravityX, p.GravityY},
		VelocityIterations: p.VelocityIterations,
		PositionIterations: p.PositionIterations,
		FixedStep:          p.FixedStep,
	}
}
