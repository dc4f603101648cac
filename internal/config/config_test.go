package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Faultbox/partview/internal/camera"
	m "github.com/Faultbox/partview/pkg/math"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Viewer.ExplodeDuration != 2.2 {
		t.Errorf("expected explode duration 2.2, got %v", cfg.Viewer.ExplodeDuration)
	}
	if cfg.Viewer.LabelPadding != 4 {
		t.Errorf("expected label padding 4, got %v", cfg.Viewer.LabelPadding)
	}
	if cfg.Viewer.LabelMinSize != 0.10 {
		t.Errorf("expected label min size 0.10, got %v", cfg.Viewer.LabelMinSize)
	}
	if cfg.Viewer.Highlight != 800*time.Millisecond {
		t.Errorf("expected highlight 800ms, got %v", cfg.Viewer.Highlight)
	}
	if cfg.Viewer.Zoom != camera.DefaultZoomLimits() {
		t.Errorf("unexpected zoom limits %+v", cfg.Viewer.Zoom)
	}

	if cfg.Camera.FOV != 55 {
		t.Errorf("expected fov 55, got %v", cfg.Camera.FOV)
	}
	if cfg.Camera.Position != m.V3(2.8, 2.2, 3.8) {
		t.Errorf("unexpected camera position %v", cfg.Camera.Position)
	}
	if cfg.Camera.Target != m.V3(0, 1, 0) {
		t.Errorf("unexpected camera target %v", cfg.Camera.Target)
	}

	if cfg.Model.Name != "Engine" {
		t.Errorf("expected model name Engine, got %s", cfg.Model.Name)
	}
	if cfg.Model.Preset != camera.EnginePreset() {
		t.Errorf("expected engine preset, got %+v", cfg.Model.Preset)
	}
	if cfg.Server.FPS != 30 {
		t.Errorf("expected 30 fps, got %d", cfg.Server.FPS)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	yamlContent := `
viewer:
  explode_duration: 1.5
  highlight: 500ms
  zoom:
    step: 0.5
    min: 1
    max: 20

camera:
  fov: 45
  position: {x: 1, y: 2, z: 3}

model:
  path: models/engine.glb
  watch: true
  preset:
    distance_mul: 2

server:
  addr: "127.0.0.1:9000"
  fps: 60

logging:
  level: "debug"
  log_file: "viewer.log"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Viewer.ExplodeDuration != 1.5 {
		t.Errorf("expected explode duration 1.5, got %v", cfg.Viewer.ExplodeDuration)
	}
	if cfg.Viewer.Highlight != 500*time.Millisecond {
		t.Errorf("expected highlight 500ms, got %v", cfg.Viewer.Highlight)
	}
	if cfg.Viewer.Zoom.Max != 20 {
		t.Errorf("expected zoom max 20, got %v", cfg.Viewer.Zoom.Max)
	}
	if cfg.Camera.FOV != 45 {
		t.Errorf("expected fov 45, got %v", cfg.Camera.FOV)
	}
	if cfg.Camera.Position != m.V3(1, 2, 3) {
		t.Errorf("expected position (1,2,3), got %v", cfg.Camera.Position)
	}
	// untouched keys keep their defaults
	if cfg.Camera.Near != 0.01 {
		t.Errorf("expected near 0.01, got %v", cfg.Camera.Near)
	}
	if cfg.Model.Path != "models/engine.glb" || !cfg.Model.Watch {
		t.Errorf("unexpected model section %+v", cfg.Model)
	}
	if cfg.Model.Preset.DistanceMul != 2 {
		t.Errorf("expected distance mul 2, got %v", cfg.Model.Preset.DistanceMul)
	}
	if cfg.Model.Preset.Dir != camera.EnginePreset().Dir {
		t.Errorf("preset dir should keep its default, got %v", cfg.Model.Preset.Dir)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.FPS != 60 {
		t.Errorf("unexpected server section %+v", cfg.Server)
	}
	if cfg.Logging.LogFile != "viewer.log" {
		t.Errorf("expected log file 'viewer.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "viewer:\n  explode_duration: [1\n"},
		{"type", "server:\n  fps: fast\n"},
		{"unknown key", "viewer:\n  explode_speed: 3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if err := loadFromFile(Default(), path); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoadFromFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Errorf("empty file should load, got %v", err)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if err := loadFromFile(Default(), "/nonexistent/path/config.yaml"); err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Server.FPS = 0
	cfg.Camera.Near = 10
	cfg.Camera.Far = 1
	cfg.Viewer.ExplodeDuration = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"server.fps", "camera.near", "viewer.explode_duration"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadFileRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("camera:\n  fov: 200\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := LoadFile(path)
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte("server:\n  fps: 10\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}
	if path := findConfigFile(); path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name:  "debug flag",
			setup: func() { *flagDebug = true },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() { *flagDebug = false },
		},
		{
			name: "model flags",
			setup: func() {
				*flagModel = "engine.glb"
				*flagCatalog = "parts.toml"
				*flagWatch = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Model.Path != "engine.glb" || cfg.Model.Catalog != "parts.toml" || !cfg.Model.Watch {
					t.Errorf("unexpected model section %+v", cfg.Model)
				}
			},
			teardown: func() {
				*flagModel = ""
				*flagCatalog = ""
				*flagWatch = false
			},
		},
		{
			name:  "addr flag",
			setup: func() { *flagAddr = ":9999" },
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Server.Addr != ":9999" {
					t.Errorf("expected addr :9999, got %s", cfg.Server.Addr)
				}
			},
			teardown: func() { *flagAddr = "" },
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Window.Width != 2560 || cfg.Window.Height != 1440 {
					t.Errorf("expected 2560x1440, got %dx%d", cfg.Window.Width, cfg.Window.Height)
				}
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	yamlContent := `
window:
  width: 1600
  height: 900
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Window.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Window.Height)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Model.Path = "engine.glb"
	cfg.Viewer.Highlight = 1200 * time.Millisecond
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Model.Path != "engine.glb" {
		t.Errorf("model path = %s", loaded.Model.Path)
	}
	if loaded.Viewer.Highlight != 1200*time.Millisecond {
		t.Errorf("highlight = %v", loaded.Viewer.Highlight)
	}
}

func TestSaveToUserConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)
	t.Setenv("APPDATA", home)

	cfg := Default()
	cfg.Server.Addr = ":9090"
	if err := cfg.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	path := DefaultPath()
	if !strings.HasPrefix(path, home) {
		t.Errorf("expected %s under %s", path, home)
	}
	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Server.Addr != ":9090" {
		t.Errorf("expected addr :9090, got %s", loaded.Server.Addr)
	}
}

func TestFlagsRegistered(t *testing.T) {
	for _, name := range []string{"config", "debug", "model", "catalog", "watch", "addr", "width", "height"} {
		if flag.Lookup(name) == nil {
			t.Errorf("flag -%s not registered", name)
		}
	}
}
