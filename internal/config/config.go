// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrInvalidConfig is wrapped by every Validate error.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window   WindowConfig  `yaml:"window"`
	Map      MapConfig     `yaml:"map"`
	Textures TextureConfig `yaml:"textures"`
	Camera   CameraConfig  `yaml:"camera"`
	Logging  LoggingConfig `yaml:"logging"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Fullscreen bool   `yaml:"fullscreen"`
	VSync      bool   `yaml:"vsync"`
	FPSLimit   int    `yaml:"fps_limit"` // 0 = unlimited
}

// MapConfig holds the level to load.
type MapConfig struct {
	Path          string  `yaml:"path"`
	WallThickness float32 `yaml:"wall_thickness"`
	TextureScale  float32 `yaml:"texture_scale"` // world units per texture repeat
}

// TextureConfig holds texture lookup settings.
type TextureConfig struct {
	Dirs       []string `yaml:"dirs"`       // Searched in order
	Extensions []string `yaml:"extensions"` // Tried when a reference has none
}

// CameraConfig holds first-person camera settings.
type CameraConfig struct {
	FOV              float32 `yaml:"fov"` // Degrees
	Near             float32 `yaml:"near"`
	Far              float32 `yaml:"far"`
	EyeHeight        float32 `yaml:"eye_height"` // Above the sector floor
	MoveSpeed        float32 `yaml:"move_speed"` // Units per second
	MouseSensitivity float32 `yaml:"mouse_sensitivity"`
	StartX           float32 `yaml:"start_x"`
	StartZ           float32 `yaml:"start_z"`
	StartYaw         float32 `yaml:"start_yaw"` // Degrees
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "Sector View",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   60,
		},
		Map: MapConfig{
			Path:          "maps/demo.map",
			WallThickness: 0.1,
			TextureScale:  2,
		},
		Textures: TextureConfig{
			Dirs:       []string{"textures"},
			Extensions: []string{".png", ".bmp", ".jpg", ".tga"},
		},
		Camera: CameraConfig{
			FOV:              60,
			Near:             0.05,
			Far:              500,
			EyeHeight:        1.6,
			MoveSpeed:        4,
			MouseSensitivity: 0.15,
			StartX:           2,
			StartZ:           2,
			StartYaw:         0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate reports every setting that cannot be used.
func (c *Config) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d", c.Window.Width, c.Window.Height)
	check(c.Window.FPSLimit >= 0, "fps_limit %d", c.Window.FPSLimit)
	check(c.Map.Path != "", "map path is empty")
	check(c.Map.WallThickness >= 0, "wall_thickness %g", c.Map.WallThickness)
	check(c.Map.TextureScale >= 0, "texture_scale %g", c.Map.TextureScale)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera fov %g", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera clip planes %g..%g", c.Camera.Near, c.Camera.Far)
	check(c.Camera.MoveSpeed >= 0, "camera move_speed %g", c.Camera.MoveSpeed)
	return errs
}
