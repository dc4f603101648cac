package logger

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var entries []map[string]any
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e map[string]any
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("line is not JSON: %q: %v", sc.Text(), err)
		}
		entries = append(entries, e)
	}
	return entries
}

func TestFileRotation(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "viewer.log")

	cfg := FileConfig{Path: logFile, MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 1}
	if err := InitWithFileConfig("debug", cfg, false); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer Sync()

	payload := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("frame %d: %s", i, payload)
	}
	Sync()

	files, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	rotated := 0
	for _, f := range files {
		if f.Name() != "viewer.log" && strings.HasPrefix(f.Name(), "viewer-") {
			rotated++
		}
	}
	if rotated == 0 {
		t.Errorf("expected a rotated file, got %d files", len(files))
	}
}

func TestLevels(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		level string
		want  []string
	}{
		{"error", []string{"error"}},
		{"warn", []string{"warn", "error"}},
		{"info", []string{"info", "warn", "error"}},
		{"debug", []string{"debug", "info", "warn", "error"}},
		{"", []string{"info", "warn", "error"}},
	}

	for _, tt := range tests {
		name := tt.level
		if name == "" {
			name = "default"
		}
		t.Run(name, func(t *testing.T) {
			logFile := filepath.Join(dir, name+".log")
			if err := InitWithFileConfig(tt.level, FileConfig{Path: logFile, MaxSizeMB: 10}, false); err != nil {
				t.Fatalf("init: %v", err)
			}

			Debug("d")
			Info("i")
			Warn("w")
			Error("e")
			Sync()

			var got []string
			for _, e := range readEntries(t, logFile) {
				got = append(got, e["level"].(string))
			}
			if len(got) != len(tt.want) {
				t.Fatalf("levels = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d level = %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestUnknownLevel(t *testing.T) {
	if err := InitWithFileConfig("chatty", FileConfig{}, false); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNamedCarriesComponent(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "named.log")
	if err := InitWithFileConfig("info", FileConfig{Path: logFile, MaxSizeMB: 10}, false); err != nil {
		t.Fatalf("init: %v", err)
	}

	Named("viewer").Info("loaded", zap.String("session", "abc"))
	Sync()

	entries := readEntries(t, logFile)
	if len(entries) != 1 {
		t.Fatalf("got %d entries", len(entries))
	}
	e := entries[0]
	if e["logger"] != "viewer" {
		t.Errorf("logger = %v, want viewer", e["logger"])
	}
	if e["session"] != "abc" {
		t.Errorf("session = %v, want abc", e["session"])
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("/tmp/partview.log")

	if cfg.Path != "/tmp/partview.log" {
		t.Errorf("Path = %s", cfg.Path)
	}
	if cfg.MaxSizeMB != 20 || cfg.MaxBackups != 5 || cfg.MaxAgeDays != 14 {
		t.Errorf("rotation = %+v", cfg)
	}
	if !cfg.Compress {
		t.Error("expected Compress")
	}
}
