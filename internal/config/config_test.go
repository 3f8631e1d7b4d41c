package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Browser.WindowWidth != 1920 || cfg.Browser.WindowHeight != 1080 {
		t.Errorf("default window size = %dx%d", cfg.Browser.WindowWidth, cfg.Browser.WindowHeight)
	}
	if cfg.HTTPAddr != "" {
		t.Errorf("default HTTPAddr = %q, want empty", cfg.HTTPAddr)
	}
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagehand.yaml")
	data := `browser:
  headless: true
  windowWidth: 1366
  windowHeight: 768
  userAgent: test-agent
httpAddr: ":9000"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Browser.Headless {
		t.Error("headless not parsed")
	}
	if cfg.Browser.WindowWidth != 1366 || cfg.Browser.WindowHeight != 768 {
		t.Errorf("window size = %dx%d", cfg.Browser.WindowWidth, cfg.Browser.WindowHeight)
	}
	if cfg.Browser.UserAgent != "test-agent" {
		t.Errorf("userAgent = %q", cfg.Browser.UserAgent)
	}
	if cfg.HTTPAddr != ":9000" {
		t.Errorf("httpAddr = %q", cfg.HTTPAddr)
	}
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagehand.yaml")
	if err := os.WriteFile(path, []byte("browser: ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed yaml must error")
	}
}

func TestLoadZeroWindowSizeCorrected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pagehand.yaml")
	if err := os.WriteFile(path, []byte("browser:\n  windowWidth: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Browser.WindowWidth != 1920 {
		t.Errorf("zero width must fall back to 1920, got %d", cfg.Browser.WindowWidth)
	}
}
