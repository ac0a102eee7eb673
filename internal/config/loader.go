package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Load loads the frogger configuration.
// Search order: customPath -> ~/.frogger/configs/frogger.yaml -> ./configs/frogger.yaml -> embedded default
// Files are decoded over Default, so they only need the keys they change.
func Load(customPath string) (Config, error) {
	cfg := Default()

	// Try custom path first
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, cfg.Validate()
	}

	// Try user config directory
	if userCfgPath := userConfigPath("frogger.yaml"); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if loaded, ok := parse(data); ok {
				return loaded, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", "frogger.yaml")); err == nil {
		if loaded, ok := parse(data); ok {
			return loaded, nil
		}
	}

	// Use embedded default YAML
	if loaded, ok := parse(defaultFroggerYAML); ok {
		return loaded, nil
	}
	return Default(), nil // Fallback to hardcoded if embed fails
}

// parse decodes data over the defaults and reports whether the result is usable.
func parse(data []byte) (Config, bool) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, false
	}
	return cfg, cfg.Validate() == nil
}

// Dir returns ~/.frogger, or empty if home is unavailable.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".frogger")
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "configs", filename)
}

// StoragePath returns the configured database path or the default under Dir.
func (c Config) StoragePath() string {
	if c.Storage.Path != "" {
		return c.Storage.Path
	}
	if dir := Dir(); dir != "" {
		return filepath.Join(dir, "frogger.db")
	}
	return "frogger.db"
}

// LogPath returns the configured log file or the default under Dir.
func (c Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	if dir := Dir(); dir != "" {
		return filepath.Join(dir, "frogger.log")
	}
	return "frogger.log"
}
