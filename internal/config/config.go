// Package config handles viewer configuration loading and management.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/taigrr/ip2k/pkg/math3d"
)

// Config holds all viewer settings.
type Config struct {
	Display DisplayConfig       `yaml:"display"`
	Render  RenderConfig        `yaml:"render"`
	Camera  CameraConfig        `yaml:"camera"`
	Models  []ModelConfig       `yaml:"models"`
	Keys    map[string][]string `yaml:"keys"`
	Logging LoggingConfig       `yaml:"logging"`
}

// DisplayConfig holds output surface settings.
type DisplayConfig struct {
	Backend    string `yaml:"backend"` // terminal or window
	Width      int    `yaml:"width"`   // window and snapshot width in pixels
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	FPS        int    `yaml:"fps"`
	Background string `yaml:"background"` // #rrggbb
	Status     bool   `yaml:"status"`
}

// RenderConfig holds rasterizer settings.
type RenderConfig struct {
	Strategy  string `yaml:"strategy"` // perspective or affine
	Lighting  bool   `yaml:"lighting"`
	Wireframe bool   `yaml:"wireframe"`
	WireColor string `yaml:"wire_color"`
	Cull      bool   `yaml:"cull"`
}

// CameraConfig places the camera and sets its view plane.
type CameraConfig struct {
	Distance   float64    `yaml:"distance"`
	PlaneWidth float64    `yaml:"plane_width"`
	Position   [3]float64 `yaml:"position"`
	Rotation   [3]float64 `yaml:"rotation"`
	MoveSpeed  float64    `yaml:"move_speed"` // units per second
	TurnSpeed  float64    `yaml:"turn_speed"` // radians per second
}

// ModelConfig describes one model added to the scene.
type ModelConfig struct {
	Path        string     `yaml:"path"`
	Position    [3]float64 `yaml:"position"`
	Rotation    [3]float64 `yaml:"rotation"`
	Scale       [3]float64 `yaml:"scale"`
	Fit         float64    `yaml:"fit"`  // cube edge to fit into, 0 keeps the source size
	YUp         bool       `yaml:"y_up"` // source uses +Y as up
	Triangulate bool       `yaml:"triangulate"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			Backend:    "terminal",
			Width:      640,
			Height:     480,
			Title:      "ip2k",
			FPS:        60,
			Background: "#1e1e28",
			Status:     true,
		},
		Render: RenderConfig{
			Strategy:  "perspective",
			Lighting:  true,
			WireColor: "#ffffff",
			Cull:      true,
		},
		Camera: CameraConfig{
			Distance:   1,
			PlaneWidth: 1,
			Position:   [3]float64{-5, 0, 0},
			MoveSpeed:  2,
			TurnSpeed:  1.5,
		},
		Logging: LoggingConfig{
			Level:      "info",
			MaxSizeMB:  20,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// NewModel returns a model entry with the default placement for path.
func NewModel(path string) ModelConfig {
	return ModelConfig{
		Path:  path,
		Scale: [3]float64{1, 1, 1},
		Fit:   2,
		YUp:   true,
	}
}

// Vec converts a YAML triple to a vector.
func Vec(v [3]float64) math3d.Vec3 {
	return math3d.V3(v[0], v[1], v[2])
}

// ParseColor parses #rrggbb or r,g,b into 0x00RRGGBB.
func ParseColor(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if hex, ok := strings.CutPrefix(s, "#"); ok {
		if len(hex) != 6 {
			return 0, fmt.Errorf("color %q: want 6 hex digits", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("color %q: %w", s, err)
		}
		return uint32(v), nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, fmt.Errorf("color %q: want #rrggbb or r,g,b", s)
	}
	var c uint32
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return 0, fmt.Errorf("color %q: %w", s, err)
		}
		c = c<<8 | uint32(v)
	}
	return c, nil
}
