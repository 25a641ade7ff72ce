package caps

import (
	"context"
	"fmt"
	"time"
)

// DatabaseImpl is the low-level implementation behind the Database effect.
type DatabaseImpl interface {
	// Query runs a read query and returns one map per result row.
	Query(ctx context.Context, query string, args ...any) ([]map[string]any, error)

	// Exec runs a statement and returns the number of affected rows.
	Exec(ctx context.Context, stmt string, args ...any) (int64, error)
}

// NetworkImpl is the low-level implementation behind the Network effect.
type NetworkImpl interface {
	// Get performs an HTTP GET and returns the response body.
	Get(ctx context.Context, url string) ([]byte, error)
}

// ClockImpl is the low-level implementation behind the Clock effect.
type ClockImpl interface {
	// Now returns the current wall-clock time.
	Now(ctx context.Context) time.Time
}

// KeyManagementImpl is the low-level implementation behind the
// KeyManagement effect.
type KeyManagementImpl interface {
	// Encrypt seals plaintext under the named key.
	Encrypt(ctx context.Context, keyID string, plaintext []byte) ([]byte, error)

	// Decrypt opens ciphertext sealed under the named key.
	Decrypt(ctx context.Context, keyID string, ciphertext []byte) ([]byte, error)
}

// SerialImpl is the low-level implementation behind the SerialIO effect.
type SerialImpl interface {
	// Read reads up to n bytes from the port.
	Read(ctx context.Context, n int) ([]byte, error)

	// Write writes data to the port and returns the number of bytes written.
	Write(ctx context.Context, data []byte) (int, error)
}

// Implementations bundles the low-level implementations a Facade delegates
// to. Implementations are injected explicitly so tests can substitute
// deterministic fakes; there is no package-level default.
type Implementations struct {
	Database      DatabaseImpl
	Network       NetworkImpl
	Clock         ClockImpl
	KeyManagement KeyManagementImpl
	Serial        SerialImpl
}

// Facade is the single point where effectful calls cross from actor code
// into the outside world. Every method checks the bound token before
// delegating, so no actor code path can reach a live resource without an
// authorization check, regardless of how buggy or hostile the actor
// logic is.
type Facade struct {
	token *Token
	impls Implementations
}

// Bind creates a Facade enforcing the given token over the given
// implementations.
func Bind(token *Token, impls Implementations) *Facade {
	return &Facade{
		token: token,
		impls: impls,
	}
}

// Token returns the token the facade enforces.
func (f *Facade) Token() *Token {
	return f.token
}

// authorize returns a ViolationError unless the bound token grants the
// effect. The check is synchronous and unconditional.
func (f *Facade) authorize(effect Effect) error {
	if !f.token.Allows(effect) {
		return &ViolationError{
			Module: f.token.module,
			Effect: effect,
		}
	}
	return nil
}

// Query runs a read query through the Database effect.
func (f *Facade) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	if err := f.authorize(EffectDatabase); err != nil {
		return nil, err
	}
	if f.impls.Database == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoImplementation, EffectDatabase)
	}
	return f.impls.Database.Query(ctx, query, args...)
}

// Exec runs a statement through the Database effect.
func (f *Facade) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	if err := f.authorize(EffectDatabase); err != nil {
		return 0, err
	}
	if f.impls.Database == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoImplementation, EffectDatabase)
	}
	return f.impls.Database.Exec(ctx, stmt, args...)
}

// Get performs an HTTP GET through the Network effect.
func (f *Facade) Get(ctx context.Context, url string) ([]byte, error) {
	if err := f.authorize(EffectNetwork); err != nil {
		return nil, err
	}
	if f.impls.Network == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoImplementation, EffectNetwork)
	}
	return f.impls.Network.Get(ctx, url)
}

// Now reads the wall clock through the Clock effect.
func (f *Facade) Now(ctx context.Context) (time.Time, error) {
	if err := f.authorize(EffectClock); err != nil {
		return time.Time{}, err
	}
	if f.impls.Clock == nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrNoImplementation, EffectClock)
	}
	return f.impls.Clock.Now(ctx), nil
}

// Encrypt seals plaintext through the KeyManagement effect.
func (f *Facade) Encrypt(ctx context.Context, keyID string, plaintext []byte) ([]byte, error) {
	if err := f.authorize(EffectKeyManagement); err != nil {
		return nil, err
	}
	if f.impls.KeyManagement == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoImplementation, EffectKeyManagement)
	}
	return f.impls.KeyManagement.Encrypt(ctx, keyID, plaintext)
}

// Decrypt opens ciphertext through the KeyManagement effect.
func (f *Facade) Decrypt(ctx context.Context, keyID string, ciphertext []byte) ([]byte, error) {
	if err := f.authorize(EffectKeyManagement); err != nil {
		return nil, err
	}
	if f.impls.KeyManagement == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoImplementation, EffectKeyManagement)
	}
	return f.impls.KeyManagement.Decrypt(ctx, keyID, ciphertext)
}

// Read reads from the port through the SerialIO effect.
func (f *Facade) Read(ctx context.Context, n int) ([]byte, error) {
	if err := f.authorize(EffectSerialIO); err != nil {
		return nil, err
	}
	if f.impls.Serial == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoImplementation, EffectSerialIO)
	}
	return f.impls.Serial.Read(ctx, n)
}

// Write writes to the port through the SerialIO effect.
func (f *Facade) Write(ctx context.Context, data []byte) (int, error) {
	if err := f.authorize(EffectSerialIO); err != nil {
		return 0, err
	}
	if f.impls.Serial == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoImplementation, EffectSerialIO)
	}
	return f.impls.Serial.Write(ctx, data)
}
