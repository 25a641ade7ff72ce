// Package config provides configuration loading and parsing functionality
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConfigFormat represents the configuration file format
type ConfigFormat string

const (
	FormatYAML ConfigFormat = "yaml"
	FormatJSON ConfigFormat = "json"
)

// Loader handles configuration loading from various sources
type Loader struct {
	// Configuration search paths
	searchPaths []string

	// Environment variable prefix
	envPrefix string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		searchPaths: []string{
			".",
			"./config",
			"/etc/weftrt",
			os.Getenv("HOME") + "/.weftrt",
		},
		envPrefix: "WEFT",
	}
}

// SetSearchPaths sets the configuration file search paths
func (l *Loader) SetSearchPaths(paths []string) *Loader {
	l.searchPaths = paths
	return l
}

// SetEnvPrefix sets the environment variable prefix
func (l *Loader) SetEnvPrefix(prefix string) *Loader {
	l.envPrefix = prefix
	return l
}

// Load loads configuration from the specified file, applying environment
// overrides and validating the result. An empty filename loads defaults
// plus environment overrides only.
func (l *Loader) Load(filename string) (*Config, error) {
	config := DefaultConfig()

	if filename != "" {
		loaded, err := l.loadFromFile(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file %s: %w", filename, err)
		}
		config = loaded
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadFromFile loads configuration from a specific file
func (l *Loader) LoadFromFile(filename string) (*Config, error) {
	return l.loadFromFile(filename)
}

// LoadFromReader loads configuration from an io.Reader
func (l *Loader) LoadFromReader(reader io.Reader, format ConfigFormat) (*Config, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration data: %w", err)
	}
	return l.parseConfig(data, format)
}

// AutoLoad discovers a configuration file in the search paths, falling
// back to defaults when none exists.
func (l *Loader) AutoLoad() (*Config, error) {
	configFile, err := l.findConfigFile()
	if err != nil {
		if err == ErrConfigFileNotFound {
			return l.Load("")
		}
		return nil, err
	}
	return l.Load(configFile)
}

// findConfigFile searches for configuration files in search paths
func (l *Loader) findConfigFile() (string, error) {
	filenames := []string{
		"weftrt.yaml", "weftrt.yml",
		"config.yaml", "config.yml",
		"weftrt.json", "config.json",
	}

	for _, searchPath := range l.searchPaths {
		for _, filename := range filenames {
			fullPath := filepath.Join(searchPath, filename)
			if _, err := os.Stat(fullPath); err == nil {
				return fullPath, nil
			}
		}
	}
	return "", ErrConfigFileNotFound
}

// loadFromFile reads and parses one file, inferring the format from the
// extension.
func (l *Loader) loadFromFile(filename string) (*Config, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	var format ConfigFormat
	switch ext {
	case ".yaml", ".yml":
		format = FormatYAML
	case ".json":
		format = FormatJSON
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigFileNotFound
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return l.parseConfig(data, format)
}

// parseConfig unmarshals data over the default configuration, so fields
// absent from the file keep their defaults.
func (l *Loader) parseConfig(data []byte, format ConfigFormat) (*Config, error) {
	config := DefaultConfig()

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	return config, nil
}

// applyEnvOverrides overrides configuration fields from prefixed
// environment variables.
func (l *Loader) applyEnvOverrides(config *Config) error {
	if v := l.env("APP_NAME"); v != "" {
		config.App.Name = v
	}
	if v := l.env("ENVIRONMENT"); v != "" {
		config.App.Environment = Environment(v)
	}
	if v := l.env("LOG_LEVEL"); v != "" {
		config.Log.Level = LogLevel(v)
	}
	if v := l.env("LOG_FORMAT"); v != "" {
		config.Log.Format = v
	}

	intFields := []struct {
		key    string
		target *int
	}{
		{"ACTOR_MAILBOX_SIZE", &config.Actor.MailboxSize},
		{"SUPERVISION_MAX_RESTARTS", &config.Supervision.MaxRestarts},
		{"SUPERVISION_WINDOW_MS", &config.Supervision.WindowMS},
		{"SUPERVISION_BACKOFF_MS", &config.Supervision.BackoffMS},
		{"NETWORK_TIMEOUT_MS", &config.Effects.Network.TimeoutMS},
		{"SERIAL_BAUD_RATE", &config.Effects.Serial.BaudRate},
	}
	for _, field := range intFields {
		v := l.env(field.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s_%s=%q is not an integer", ErrEnvironmentVar, l.envPrefix, field.key, v)
		}
		*field.target = parsed
	}

	if v := l.env("DATABASE_DRIVER"); v != "" {
		config.Effects.Database.Driver = v
	}
	if v := l.env("DATABASE_DSN"); v != "" {
		config.Effects.Database.DSN = v
	}
	if v := l.env("NETWORK_ALLOWLIST"); v != "" {
		config.Effects.Network.Allowlist = strings.Split(v, ",")
	}
	if v := l.env("SERIAL_PORT"); v != "" {
		config.Effects.Serial.Port = v
	}
	return nil
}

func (l *Loader) env(key string) string {
	return os.Getenv(l.envPrefix + "_" + key)
}
