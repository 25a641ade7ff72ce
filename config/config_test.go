package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1024, cfg.Actor.MailboxSize)
	assert.Equal(t, 3, cfg.Supervision.MaxRestarts)
	assert.Equal(t, time.Minute, cfg.Supervision.Window())
	assert.Equal(t, 250*time.Millisecond, cfg.Supervision.Backoff())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"environment", func(c *Config) { c.App.Environment = "qa" }, ErrInvalidEnvironment},
		{"log level", func(c *Config) { c.Log.Level = "verbose" }, ErrInvalidLogLevel},
		{"mailbox size", func(c *Config) { c.Actor.MailboxSize = 0 }, ErrInvalidMailboxSize},
		{"max restarts", func(c *Config) { c.Supervision.MaxRestarts = -1 }, ErrInvalidMaxRestarts},
		{"window", func(c *Config) { c.Supervision.WindowMS = 0 }, ErrInvalidWindow},
		{"backoff", func(c *Config) { c.Supervision.BackoffMS = -5 }, ErrInvalidBackoff},
		{"baud rate", func(c *Config) { c.Effects.Serial.Port = "/dev/ttyUSB0"; c.Effects.Serial.BaudRate = 0 }, ErrInvalidBaudRate},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), tc.want)
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	input := `
app:
  name: rfid-ingest
  environment: production
log:
  level: warn
actor:
  mailbox_size: 64
supervision:
  max_restarts: 5
  window_ms: 30000
  backoff_ms: 100
effects:
  network:
    allowlist:
      - "https://api.example.com/*"
`
	loader := NewLoader()
	cfg, err := loader.LoadFromReader(strings.NewReader(input), FormatYAML)
	require.NoError(t, err)

	assert.Equal(t, "rfid-ingest", cfg.App.Name)
	assert.Equal(t, EnvProduction, cfg.App.Environment)
	assert.Equal(t, LogLevelWarn, cfg.Log.Level)
	assert.Equal(t, 64, cfg.Actor.MailboxSize)
	assert.Equal(t, 5, cfg.Supervision.MaxRestarts)
	assert.Equal(t, []string{"https://api.example.com/*"}, cfg.Effects.Network.Allowlist)

	// Fields absent from the file keep their defaults.
	assert.Equal(t, "sqlite3", cfg.Effects.Database.Driver)
	assert.Equal(t, 10*time.Second, cfg.Effects.Network.Timeout())
}

func TestLoadFromJSON(t *testing.T) {
	input := `{"actor": {"mailbox_size": 16}, "supervision": {"max_restarts": 1, "window_ms": 1000, "backoff_ms": 10}}`

	loader := NewLoader()
	cfg, err := loader.LoadFromReader(strings.NewReader(input), FormatJSON)
	require.NoError(t, err)

	assert.Equal(t, 16, cfg.Actor.MailboxSize)
	assert.Equal(t, 1, cfg.Supervision.MaxRestarts)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "weftrt.yaml")
	require.NoError(t, os.WriteFile(file, []byte("actor:\n  mailbox_size: 8\n"), 0o644))

	loader := NewLoader()
	cfg, err := loader.Load(file)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Actor.MailboxSize)

	_, err = loader.Load(filepath.Join(dir, "absent.yaml"))
	assert.ErrorIs(t, err, ErrConfigFileNotFound)

	_, err = loader.Load(filepath.Join(dir, "weftrt.toml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WEFT_LOG_LEVEL", "error")
	t.Setenv("WEFT_ACTOR_MAILBOX_SIZE", "32")
	t.Setenv("WEFT_SUPERVISION_MAX_RESTARTS", "7")
	t.Setenv("WEFT_DATABASE_DRIVER", "mysql")
	t.Setenv("WEFT_NETWORK_ALLOWLIST", "https://a/*,https://b/*")

	loader := NewLoader()
	cfg, err := loader.Load("")
	require.NoError(t, err)

	assert.Equal(t, LogLevelError, cfg.Log.Level)
	assert.Equal(t, 32, cfg.Actor.MailboxSize)
	assert.Equal(t, 7, cfg.Supervision.MaxRestarts)
	assert.Equal(t, "mysql", cfg.Effects.Database.Driver)
	assert.Equal(t, []string{"https://a/*", "https://b/*"}, cfg.Effects.Network.Allowlist)
}

func TestEnvOverrideRejectsBadInteger(t *testing.T) {
	t.Setenv("WEFT_ACTOR_MAILBOX_SIZE", "many")

	_, err := NewLoader().Load("")
	assert.ErrorIs(t, err, ErrEnvironmentVar)
}

func TestAutoLoadFallsBackToDefaults(t *testing.T) {
	loader := NewLoader().SetSearchPaths([]string{t.TempDir()})

	cfg, err := loader.AutoLoad()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Actor.MailboxSize)
}

func TestAutoLoadFindsFileInSearchPath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "weftrt.yaml"), []byte("app:\n  name: discovered\n"), 0o644))

	loader := NewLoader().SetSearchPaths([]string{dir})
	cfg, err := loader.AutoLoad()
	require.NoError(t, err)
	assert.Equal(t, "discovered", cfg.App.Name)
}

func TestWatcherReload(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "weftrt.yaml")
	require.NoError(t, os.WriteFile(file, []byte("supervision:\n  max_restarts: 3\n  window_ms: 60000\n  backoff_ms: 250\n"), 0o644))

	watcher, err := NewWatcher(file, NewLoader(), nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.Equal(t, 3, watcher.GetConfig().Supervision.MaxRestarts)

	changed := make(chan *Config, 1)
	watcher.OnConfigChange(func(oldConfig, newConfig *Config) {
		changed <- newConfig
	})

	require.NoError(t, os.WriteFile(file, []byte("supervision:\n  max_restarts: 9\n  window_ms: 60000\n  backoff_ms: 250\n"), 0o644))
	require.NoError(t, watcher.Reload())

	select {
	case cfg := <-changed:
		assert.Equal(t, 9, cfg.Supervision.MaxRestarts)
	case <-time.After(time.Second):
		t.Fatal("config change callback not invoked")
	}
	assert.Equal(t, 9, watcher.GetConfig().Supervision.MaxRestarts)
}
