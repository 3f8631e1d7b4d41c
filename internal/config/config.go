// Package config loads the optional pagehand.yaml configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level pagehand configuration.
type Config struct {
	// Browser holds defaults applied when init_browser is called without
	// explicit options (and by the lazy ensure path).
	Browser BrowserConfig `yaml:"browser"`

	// HTTPAddr enables the HTTP transport when non-empty (e.g. ":8321").
	// Empty means stdio only.
	HTTPAddr string `yaml:"httpAddr,omitempty"`
}

// BrowserConfig configures how the managed Chromium is launched.
type BrowserConfig struct {
	// Headless runs the browser without UI.
	Headless bool `yaml:"headless,omitempty"`

	// WindowWidth and WindowHeight set the initial window size.
	WindowWidth  int `yaml:"windowWidth,omitempty"`
	WindowHeight int `yaml:"windowHeight,omitempty"`

	// UserAgent overrides the browser user agent.
	UserAgent string `yaml:"userAgent,omitempty"`

	// Proxy is a proxy server address passed to Chromium.
	Proxy string `yaml:"proxy,omitempty"`

	// ExecutablePath overrides auto-detection of Chrome.
	ExecutablePath string `yaml:"executablePath,omitempty"`

	// NoSandbox disables the Chrome sandbox (needed in some containers).
	NoSandbox bool `yaml:"noSandbox,omitempty"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Browser: BrowserConfig{
			WindowWidth:  1920,
			WindowHeight: 1080,
		},
	}
}

// Load reads the config file at path, or the default locations when path is
// empty: ./pagehand.yaml, then $PAGEHAND_CONFIG. A missing file is not an
// error; defaults apply.
func Load(path string) (Config, error) {
	// .env values feed environment lookups below; absence is fine.
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("PAGEHAND_CONFIG")
	}
	if path == "" {
		path = "pagehand.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", filepath.Base(path), err)
	}

	if cfg.Browser.WindowWidth <= 0 {
		cfg.Browser.WindowWidth = 1920
	}
	if cfg.Browser.WindowHeight <= 0 {
		cfg.Browser.WindowHeight = 1080
	}

	return cfg, nil
}
