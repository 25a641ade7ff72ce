// Package config provides configuration management for the weft runtime
package config

import (
	"fmt"
	"time"
)

// Environment represents the deployment environment
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvStaging     Environment = "staging"
	EnvProduction  Environment = "production"
)

// String returns the string representation of Environment
func (e Environment) String() string {
	return string(e)
}

// IsValid checks if the environment is valid
func (e Environment) IsValid() bool {
	switch e {
	case EnvDevelopment, EnvStaging, EnvProduction:
		return true
	default:
		return false
	}
}

// LogLevel represents the logging level
type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// String returns the string representation of LogLevel
func (l LogLevel) String() string {
	return string(l)
}

// IsValid checks if the log level is valid
func (l LogLevel) IsValid() bool {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return true
	default:
		return false
	}
}

// Config represents the complete weft runtime configuration
type Config struct {
	// Application configuration
	App AppConfig `yaml:"app" json:"app"`

	// Logging configuration
	Log LogConfig `yaml:"log" json:"log"`

	// Actor kernel configuration
	Actor ActorConfig `yaml:"actor" json:"actor"`

	// Supervision (restart policy) configuration
	Supervision SupervisionConfig `yaml:"supervision" json:"supervision"`

	// Stock effect implementation wiring
	Effects EffectsConfig `yaml:"effects" json:"effects"`
}

// AppConfig contains application-level configuration
type AppConfig struct {
	// Application name
	Name string `yaml:"name" json:"name"`

	// Deployment environment
	Environment Environment `yaml:"environment" json:"environment"`
}

// LogConfig contains logging configuration
type LogConfig struct {
	// Minimum level emitted
	Level LogLevel `yaml:"level" json:"level"`

	// Output format, "text" or "json"
	Format string `yaml:"format" json:"format"`
}

// ActorConfig contains actor kernel configuration
type ActorConfig struct {
	// MailboxSize is the default mailbox capacity for spawned actors
	MailboxSize int `yaml:"mailbox_size" json:"mailbox_size"`
}

// SupervisionConfig contains the restart policy applied by the kernel
type SupervisionConfig struct {
	// MaxRestarts is the restart budget within the window
	MaxRestarts int `yaml:"max_restarts" json:"max_restarts"`

	// WindowMS is the sliding crash window in milliseconds
	WindowMS int `yaml:"window_ms" json:"window_ms"`

	// BackoffMS is the pre-restart delay in milliseconds
	BackoffMS int `yaml:"backoff_ms" json:"backoff_ms"`
}

// Window returns the crash window as a duration.
func (s SupervisionConfig) Window() time.Duration {
	return time.Duration(s.WindowMS) * time.Millisecond
}

// Backoff returns the restart backoff as a duration.
func (s SupervisionConfig) Backoff() time.Duration {
	return time.Duration(s.BackoffMS) * time.Millisecond
}

// EffectsConfig wires the stock effect implementations
type EffectsConfig struct {
	Database DatabaseConfig `yaml:"database" json:"database"`
	Network  NetworkConfig  `yaml:"network" json:"network"`
	Serial   SerialConfig   `yaml:"serial" json:"serial"`
	Keys     KeysConfig     `yaml:"keys" json:"keys"`
}

// DatabaseConfig configures the stock Database effect implementation
type DatabaseConfig struct {
	// Driver is the database/sql driver name (sqlite3, mysql, postgres)
	Driver string `yaml:"driver" json:"driver"`

	// DSN is the driver connection string
	DSN string `yaml:"dsn" json:"dsn"`
}

// NetworkConfig configures the stock Network effect implementation
type NetworkConfig struct {
	// TimeoutMS bounds each outbound request in milliseconds
	TimeoutMS int `yaml:"timeout_ms" json:"timeout_ms"`

	// Allowlist holds glob patterns outbound URLs must match; empty
	// allows everything
	Allowlist []string `yaml:"allowlist" json:"allowlist"`
}

// Timeout returns the request timeout as a duration.
func (n NetworkConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutMS) * time.Millisecond
}

// SerialConfig configures the stock SerialIO effect implementation
type SerialConfig struct {
	// Port is the device path; empty selects the in-memory loopback
	Port string `yaml:"port" json:"port"`

	// BaudRate is the line speed for physical ports
	BaudRate int `yaml:"baud_rate" json:"baud_rate"`
}

// KeysConfig configures the development key manager
type KeysConfig struct {
	// Dev maps key identifiers to base64 key material loaded into the
	// local key manager at startup
	Dev map[string]string `yaml:"dev,omitempty" json:"dev,omitempty"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "weftrt",
			Environment: EnvDevelopment,
		},
		Log: LogConfig{
			Level:  LogLevelInfo,
			Format: "text",
		},
		Actor: ActorConfig{
			MailboxSize: 1024,
		},
		Supervision: SupervisionConfig{
			MaxRestarts: 3,
			WindowMS:    60000,
			BackoffMS:   250,
		},
		Effects: EffectsConfig{
			Database: DatabaseConfig{
				Driver: "sqlite3",
				DSN:    ":memory:",
			},
			Network: NetworkConfig{
				TimeoutMS: 10000,
			},
			Serial: SerialConfig{
				BaudRate: 9600,
			},
		},
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	if !c.App.Environment.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEnvironment, c.App.Environment)
	}
	if !c.Log.Level.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Log.Level)
	}
	if c.Actor.MailboxSize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMailboxSize, c.Actor.MailboxSize)
	}
	if c.Supervision.MaxRestarts < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxRestarts, c.Supervision.MaxRestarts)
	}
	if c.Supervision.WindowMS <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWindow, c.Supervision.WindowMS)
	}
	if c.Supervision.BackoffMS < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBackoff, c.Supervision.BackoffMS)
	}
	if c.Effects.Serial.Port != "" && c.Effects.Serial.BaudRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidBaudRate, c.Effects.Serial.BaudRate)
	}
	return nil
}
