// Package config provides error definitions for configuration management
package config

import "errors"

// Configuration validation errors
var (
	ErrInvalidEnvironment = errors.New("invalid environment")
	ErrInvalidLogLevel    = errors.New("invalid log level")
	ErrInvalidMailboxSize = errors.New("invalid mailbox size")
	ErrInvalidMaxRestarts = errors.New("invalid max restarts")
	ErrInvalidWindow      = errors.New("invalid restart window")
	ErrInvalidBackoff     = errors.New("invalid restart backoff")
	ErrInvalidBaudRate    = errors.New("invalid baud rate")
	ErrInvalidKeyMaterial = errors.New("invalid key material")
)

// Configuration loading errors
var (
	ErrConfigFileNotFound = errors.New("configuration file not found")
	ErrUnsupportedFormat  = errors.New("unsupported configuration format")
	ErrEnvironmentVar     = errors.New("environment variable error")
)
