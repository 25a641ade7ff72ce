package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-lang/weftrt/caps"
	"github.com/weft-lang/weftrt/config"
	"github.com/weft-lang/weftrt/core"
	"github.com/weft-lang/weftrt/crypt"
	"github.com/weft-lang/weftrt/effects"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig avoids external resources: no database, loopback serial.
func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Effects.Database.Driver = ""
	return cfg
}

// clockActor reads the wall clock through its facade on every message.
type clockActor struct {
	name string

	mu    sync.Mutex
	reads []time.Time
	errs  []error
}

func (a *clockActor) Name() string { return a.name }

func (a *clockActor) OnMessage(ctx *core.ActorContext, msg *core.Message) error {
	now, err := ctx.Caps().Now(context.Background())
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reads = append(a.reads, now)
	a.errs = append(a.errs, err)
	return nil
}

func TestNewApplicationWiresEffects(t *testing.T) {
	app, err := NewApplication(AppOptions{
		Config: testConfig(),
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	system := app.System()
	require.NotNil(t, system)

	token, err := system.IssueToken("ticker", []caps.Effect{caps.EffectClock})
	require.NoError(t, err)

	actor := &clockActor{name: "ticker"}
	handle, err := system.Spawn(actor, token)
	require.NoError(t, err)

	require.NoError(t, handle.Send(core.NewMessage("tick", nil)))

	require.Eventually(t, func() bool {
		actor.mu.Lock()
		defer actor.mu.Unlock()
		return len(actor.reads) == 1
	}, time.Second, 5*time.Millisecond)

	actor.mu.Lock()
	defer actor.mu.Unlock()
	assert.NoError(t, actor.errs[0])
	assert.WithinDuration(t, time.Now(), actor.reads[0], time.Minute)
}

func TestNewApplicationLoadsDevKeys(t *testing.T) {
	key, err := crypt.RandomKey()
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Effects.Keys.Dev = map[string]string{"readers": crypt.EncodeKey(key)}

	app, err := NewApplication(AppOptions{Config: cfg, Logger: quietLogger()})
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	token, err := app.System().IssueToken("sealer", []caps.Effect{caps.EffectKeyManagement})
	require.NoError(t, err)

	sealed := make(chan []byte, 1)
	actor := &sealingActor{name: "sealer", out: sealed}
	handle, err := app.System().Spawn(actor, token)
	require.NoError(t, err)
	require.NoError(t, handle.Send(core.NewMessage("seal", []byte("payload"))))

	select {
	case ct := <-sealed:
		opened, err := crypt.Decrypt(key, ct)
		require.NoError(t, err)
		assert.Equal(t, []byte("payload"), opened)
	case <-time.After(time.Second):
		t.Fatal("sealing actor did not produce ciphertext")
	}
}

type sealingActor struct {
	name string
	out  chan []byte
}

func (a *sealingActor) Name() string { return a.name }

func (a *sealingActor) OnMessage(ctx *core.ActorContext, msg *core.Message) error {
	sealed, err := ctx.Caps().Encrypt(context.Background(), "readers", msg.Payload.([]byte))
	if err != nil {
		return err
	}
	a.out <- sealed
	return nil
}

func TestNewApplicationImplementationsOverride(t *testing.T) {
	at := time.Unix(1700000000, 0)
	app, err := NewApplication(AppOptions{
		Config: testConfig(),
		Logger: quietLogger(),
		Implementations: &caps.Implementations{
			Clock: &effects.FixedClock{At: at},
		},
	})
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	token, err := app.System().IssueToken("ticker", []caps.Effect{caps.EffectClock})
	require.NoError(t, err)

	actor := &clockActor{name: "ticker"}
	handle, err := app.System().Spawn(actor, token)
	require.NoError(t, err)
	require.NoError(t, handle.Send(core.NewMessage("tick", nil)))

	require.Eventually(t, func() bool {
		actor.mu.Lock()
		defer actor.mu.Unlock()
		return len(actor.reads) == 1
	}, time.Second, 5*time.Millisecond)

	actor.mu.Lock()
	defer actor.mu.Unlock()
	assert.NoError(t, actor.errs[0])
	assert.True(t, actor.reads[0].Equal(at))
}

func TestNewApplicationRejectsBadDevKey(t *testing.T) {
	cfg := testConfig()
	cfg.Effects.Keys.Dev = map[string]string{"readers": "not base64!"}

	_, err := NewApplication(AppOptions{Config: cfg, Logger: quietLogger()})
	assert.ErrorIs(t, err, config.ErrInvalidKeyMaterial)
}

func TestNewApplicationRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Actor.MailboxSize = -1

	_, err := NewApplication(AppOptions{Config: cfg, Logger: quietLogger()})
	assert.ErrorIs(t, err, config.ErrInvalidMailboxSize)
}

func TestConfigReloadUpdatesPolicy(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "weftrt.yaml")
	base := "effects:\n  database:\n    driver: \"\"\nsupervision:\n  max_restarts: %d\n  window_ms: 60000\n  backoff_ms: 250\n"

	require.NoError(t, os.WriteFile(file, []byte(renderConfig(base, 3)), 0o644))

	app, err := NewApplication(AppOptions{ConfigFile: file, Logger: quietLogger()})
	require.NoError(t, err)
	defer app.Shutdown(context.Background())

	assert.Equal(t, 3, app.System().Policy().MaxRestarts)

	require.NoError(t, os.WriteFile(file, []byte(renderConfig(base, 8)), 0o644))
	require.NoError(t, app.ReloadConfig())

	assert.Equal(t, 8, app.System().Policy().MaxRestarts)
	assert.Equal(t, 8, app.Config().Supervision.MaxRestarts)
}

func renderConfig(format string, maxRestarts int) string {
	return fmt.Sprintf(format, maxRestarts)
}
