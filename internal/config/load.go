package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "MidgardSculpt")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "MidgardSculpt")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "midgard-sculpt")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "midgard-sculpt")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate rejects settings the editor cannot run with.
func (c *Config) Validate() error {
	if c.Brush.Size <= 0 {
		return fmt.Errorf("brush size must be positive, got %v", c.Brush.Size)
	}
	if c.Brush.Power < 0 {
		return fmt.Errorf("brush power must not be negative, got %v", c.Brush.Power)
	}
	switch c.Brush.Shape {
	case "disc", "square":
	default:
		return fmt.Errorf("unknown brush shape %q", c.Brush.Shape)
	}
	switch c.Sculpt.Tool {
	case "raise_lower", "level", "smooth", "slope", "paint":
	default:
		return fmt.Errorf("unknown tool %q", c.Sculpt.Tool)
	}
	if c.Paint.Layer < 0 {
		return fmt.Errorf("paint layer must not be negative, got %d", c.Paint.Layer)
	}
	if c.Input.PrimaryButton == c.Input.SecondaryButton {
		return fmt.Errorf("primary and secondary buttons must differ, both are %d", c.Input.PrimaryButton)
	}
	switch c.Input.Modifier {
	case "", "shift", "ctrl", "alt":
	default:
		return fmt.Errorf("unknown modifier %q", c.Input.Modifier)
	}
	if c.History.MaxDepth <= 0 {
		return fmt.Errorf("history depth must be positive, got %d", c.History.MaxDepth)
	}
	if c.Terrain.HeightScale == 0 {
		return fmt.Errorf("terrain height scale must not be zero")
	}
	return nil
}
