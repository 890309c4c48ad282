package internal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/tuxx/goxkb/xkb"
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() Configuration {
	return Configuration{
		LogLevel:        "info",
		XkbLogLevel:     "error",
		XkbLogVerbosity: 0,
		ConsumedMode:    "xkb",
		UseLocaled:      false,
	}
}

// DefaultConfigPath returns ~/.config/goxkb/config.json
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "goxkb", "config.json"), nil
}

// LoadConfig loads configuration from the specified file path. The format
// follows the extension: .toml, .yaml/.yml, anything else is JSON.
func LoadConfig(path string, config *Configuration) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), config); err != nil {
			return fmt.Errorf("failed to parse TOML config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// SaveConfig saves the configuration, picking the format like LoadConfig
func SaveConfig(path string, config Configuration) error {
	if err := validateConfig(&config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(config)
		data = buf.Bytes()
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// validateConfig checks if the configuration is valid
func validateConfig(config *Configuration) error {
	var errs []error

	if config.LogLevel != "" {
		if _, err := ParseLogLevel(config.LogLevel); err != nil {
			errs = append(errs, err)
		}
	}
	if config.XkbLogLevel != "" {
		if _, ok := xkb.ParseLogLevel(config.XkbLogLevel); !ok {
			errs = append(errs, fmt.Errorf("unknown xkb log level %q", config.XkbLogLevel))
		}
	}
	if config.XkbLogVerbosity < 0 || config.XkbLogVerbosity > 10 {
		errs = append(errs, fmt.Errorf("xkb log verbosity must be between 0 and 10, got %d", config.XkbLogVerbosity))
	}
	if _, err := ParseConsumedMode(config.ConsumedMode); err != nil {
		errs = append(errs, err)
	}
	for _, p := range config.IncludePaths {
		if strings.IndexByte(p, 0) >= 0 {
			errs = append(errs, fmt.Errorf("include path %q contains a NUL byte", p))
		}
	}
	if config.ComposeFile != "" {
		if _, err := os.Stat(config.ComposeFile); err != nil {
			errs = append(errs, fmt.Errorf("compose file: %w", err))
		}
	}

	return errors.Join(errs...)
}

// ParseConsumedMode maps "xkb" (or "") and "gtk" to a consumed mode
func ParseConsumedMode(name string) (xkb.ConsumedMode, error) {
	switch strings.ToLower(name) {
	case "", "xkb":
		return xkb.ConsumedModeXKB, nil
	case "gtk":
		return xkb.ConsumedModeGTK, nil
	}
	return 0, fmt.Errorf("unknown consumed mode %q (want xkb or gtk)", name)
}

// GenerateDefaultConfigFile creates a default configuration file if it doesn't exist
func GenerateDefaultConfigFile() (string, error) {
	configPath, err := DefaultConfigPath()
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(configPath); err == nil {
		return configPath, nil
	}

	if err := SaveConfig(configPath, DefaultConfig()); err != nil {
		return "", fmt.Errorf("failed to save default config: %w", err)
	}
	return configPath, nil
}
