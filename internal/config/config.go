// Package config loads viewer settings: built-in defaults, then a YAML
// file, then command-line flags.
package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/Faultbox/partview/internal/camera"
	m "github.com/Faultbox/partview/pkg/math"
)

// Config holds every setting the viewer hosts read.
type Config struct {
	Viewer  ViewerConfig  `yaml:"viewer"`
	Camera  CameraConfig  `yaml:"camera"`
	Model   ModelConfig   `yaml:"model"`
	Server  ServerConfig  `yaml:"server"`
	Window  WindowConfig  `yaml:"window"`
	Logging LoggingConfig `yaml:"logging"`
}

// ViewerConfig tunes explode, labels and focus.
type ViewerConfig struct {
	ExplodeDuration float64 `yaml:"explode_duration"` // seconds for a full explode or implode
	LabelPadding    float32 `yaml:"label_padding"`    // pixels around each label when testing overlap
	LabelMinSize    float32 `yaml:"label_min_size"`   // parts smaller than this get no label
	LabelWidth      float32 `yaml:"label_width"`      // fallback size for unmeasured labels
	LabelHeight     float32 `yaml:"label_height"`
	FocusMargin     float32 `yaml:"focus_margin"`
	TweenSeconds    float64 `yaml:"tween_seconds"` // focus camera flight

	Highlight   time.Duration     `yaml:"highlight"` // how long a clicked part glows
	Zoom        camera.ZoomLimits `yaml:"zoom"`
	ZoomSeconds float64           `yaml:"zoom_seconds"`
}

// CameraConfig is the initial camera and its orbit controls.
type CameraConfig struct {
	FOV      float32 `yaml:"fov"`
	Near     float32 `yaml:"near"`
	Far      float32 `yaml:"far"`
	Position m.Vec3  `yaml:"position"`
	Target   m.Vec3  `yaml:"target"`
	Damping  float32 `yaml:"damping"`
}

// ModelConfig selects what to show.
type ModelConfig struct {
	Path     string        `yaml:"path"`
	Name     string        `yaml:"name"`
	Catalog  string        `yaml:"catalog"` // TOML part catalog; empty uses the built-in engine catalog
	Watch    bool          `yaml:"watch"`
	Geometry bool          `yaml:"geometry"` // keep triangles for rendering and precise picking
	Preset   camera.Preset `yaml:"preset"`
}

// ServerConfig is the WebSocket host.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	FPS  int    `yaml:"fps"`
}

// WindowConfig is the desktop host window.
type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	VSync  bool   `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			ExplodeDuration: 2.2,
			LabelPadding:    4,
			LabelMinSize:    0.10,
			LabelWidth:      80,
			LabelHeight:     24,
			FocusMargin:     camera.FocusMargin,
			TweenSeconds:    0.8,
			Highlight:       800 * time.Millisecond,
			Zoom:            camera.DefaultZoomLimits(),
			ZoomSeconds:     camera.ZoomSeconds,
		},
		Camera: CameraConfig{
			FOV:      55,
			Near:     0.01,
			Far:      1e9,
			Position: m.V3(2.8, 2.2, 3.8),
			Target:   m.V3(0, 1, 0),
			Damping:  0.08,
		},
		Model: ModelConfig{
			Name:     "Engine",
			Geometry: true,
			Preset:   camera.EnginePreset(),
		},
		Server: ServerConfig{
			Addr: ":8080",
			FPS:  30,
		},
		Window: WindowConfig{
			Title:  "partview",
			Width:  1280,
			Height: 720,
			VSync:  true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every setting that cannot work, combined into one error.
func (c *Config) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	check(c.Viewer.ExplodeDuration > 0, "viewer.explode_duration must be positive, got %v", c.Viewer.ExplodeDuration)
	check(c.Viewer.LabelPadding >= 0, "viewer.label_padding must not be negative, got %v", c.Viewer.LabelPadding)
	check(c.Viewer.Highlight >= 0, "viewer.highlight must not be negative, got %v", c.Viewer.Highlight)
	check(c.Viewer.Zoom.Step > 0, "viewer.zoom.step must be positive, got %v", c.Viewer.Zoom.Step)
	check(c.Viewer.Zoom.Min < c.Viewer.Zoom.Max, "viewer.zoom.min %v must be below max %v", c.Viewer.Zoom.Min, c.Viewer.Zoom.Max)
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera.fov must be in (0, 180), got %v", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Near < c.Camera.Far, "camera.near %v must be positive and below far %v", c.Camera.Near, c.Camera.Far)
	check(c.Camera.Damping >= 0 && c.Camera.Damping <= 1, "camera.damping must be in [0, 1], got %v", c.Camera.Damping)
	check(c.Server.FPS > 0, "server.fps must be positive, got %d", c.Server.FPS)
	check(c.Window.Width > 0 && c.Window.Height > 0, "window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	return err
}

// ErrInvalid wraps validation failures returned by Load.
var ErrInvalid = errors.New("invalid config")
