// Package config provides configuration management for verify_ui.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ajsharma/verify_ui/internal/browser"
)

// Version is the current version of verify_ui.
// This is set at build time via ldflags.
var Version = "dev"

// Config holds all configuration options for verify_ui.
type Config struct {
	// Input
	FixturePath string `yaml:"fixture"`

	// Output
	OutputDir      string `yaml:"output_dir"`
	ConfigShotName string `yaml:"config_shot"`
	ReviewShotName string `yaml:"review_shot"`
	FullPage       bool   `yaml:"full_page"`
	RunLogPath     string `yaml:"run_log"`

	// Timing
	Settle  time.Duration `yaml:"settle"`
	Timeout time.Duration `yaml:"timeout"`

	// Mock content
	ReviewItems int `yaml:"review_items"`

	// Browser
	Engine     string `yaml:"engine"`
	ChromePort string `yaml:"chrome_port"`
	AutoLaunch bool   `yaml:"auto_launch"`
	Headless   bool   `yaml:"headless"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		// Input
		FixturePath: filepath.Join("test", "mock_ui.html"),

		// Output
		OutputDir:      "/home/jules/verification",
		ConfigShotName: "config_view.png",
		ReviewShotName: "review_view.png",
		FullPage:       false,
		RunLogPath:     "",

		// Timing
		Settle:  500 * time.Millisecond,
		Timeout: 30 * time.Second,

		// Mock content
		ReviewItems: 3,

		// Browser
		Engine:     browser.EngineChromedp,
		ChromePort: "",
		AutoLaunch: false,
		Headless:   true,
		Width:      1280,
		Height:     720,
	}
}

// LoadFromFile reads a YAML config file on top of the defaults.
// Keys missing from the file keep their default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for values the run cannot work with.
func (c *Config) Validate() error {
	if c.FixturePath == "" {
		return errors.New("fixture path must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New("output directory must not be empty")
	}
	if c.ConfigShotName == "" || c.ReviewShotName == "" {
		return errors.New("screenshot file names must not be empty")
	}
	if c.Settle <= 0 {
		return fmt.Errorf("settle must be positive, got %v", c.Settle)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	if c.ReviewItems < 0 {
		return fmt.Errorf("review items must not be negative, got %d", c.ReviewItems)
	}
	if !slices.Contains(browser.Engines, c.Engine) {
		return fmt.Errorf("unknown engine %q (want %s)", c.Engine, strings.Join(browser.Engines, " or "))
	}
	if c.AutoLaunch && c.ChromePort == "" {
		return errors.New("auto launch requires a chrome port")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("viewport must be positive, got %dx%d", c.Width, c.Height)
	}
	return nil
}

// ConfigShotPath returns the full path of the configuration-view screenshot.
func (c *Config) ConfigShotPath() string {
	return filepath.Join(c.OutputDir, c.ConfigShotName)
}

// ReviewShotPath returns the full path of the review-view screenshot.
func (c *Config) ReviewShotPath() string {
	return filepath.Join(c.OutputDir, c.ReviewShotName)
}
