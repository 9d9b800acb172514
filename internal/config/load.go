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
	return load(cli)
}

func load(f *flagValues) (*Config, error) {
	cfg := Default()

	configPath := f.configPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	if err := f.apply(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./ip2k.yaml",
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
		return filepath.Join(home, "Library", "Application Support", "ip2k")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "ip2k")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "ip2k")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "ip2k")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	for i := range cfg.Models {
		fillModel(&cfg.Models[i])
	}
	return nil
}

// fillModel gives a model entry read from YAML the scale it omitted.
func fillModel(m *ModelConfig) {
	if m.Scale == ([3]float64{}) {
		m.Scale = [3]float64{1, 1, 1}
	}
}
