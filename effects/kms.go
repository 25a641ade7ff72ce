package effects

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/weft-lang/weftrt/crypt"
)

// Key management errors
var (
	ErrUnknownKey      = errors.New("unknown key")
	ErrKeyAlreadyAdded = errors.New("key already added")
)

// LocalKMS implements the KeyManagement effect with in-memory keys and
// DES envelopes. It exists so development environments work without a
// real key service; like the weft dev packer, it announces loudly that
// it must not protect production data.
type LocalKMS struct {
	mu     sync.RWMutex
	keys   map[string][]byte
	logger *slog.Logger
}

// NewLocalKMS creates a development key manager. Logger falls back to
// slog.Default() when nil.
func NewLocalKMS(logger *slog.Logger) *LocalKMS {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("local key manager uses in-memory DES keys, DO NOT USE IN PRODUCTION")
	return &LocalKMS{
		keys:   make(map[string][]byte),
		logger: logger,
	}
}

// AddKey registers existing key material under an identifier.
func (k *LocalKMS) AddKey(keyID string, key []byte) error {
	if len(key) != crypt.KeySize {
		return crypt.ErrInvalidKeySize
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if _, exists := k.keys[keyID]; exists {
		return fmt.Errorf("%w: %q", ErrKeyAlreadyAdded, keyID)
	}
	k.keys[keyID] = append([]byte(nil), key...)
	return nil
}

// GenerateKey creates and registers a fresh key, returning a copy of the
// material so hosts can persist it.
func (k *LocalKMS) GenerateKey(keyID string) ([]byte, error) {
	key, err := crypt.RandomKey()
	if err != nil {
		return nil, err
	}
	if err := k.AddKey(keyID, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt seals plaintext under the named key.
func (k *LocalKMS) Encrypt(ctx context.Context, keyID string, plaintext []byte) ([]byte, error) {
	key, err := k.lookup(keyID)
	if err != nil {
		return nil, err
	}
	return crypt.Encrypt(key, plaintext)
}

// Decrypt opens ciphertext sealed under the named key.
func (k *LocalKMS) Decrypt(ctx context.Context, keyID string, ciphertext []byte) ([]byte, error) {
	key, err := k.lookup(keyID)
	if err != nil {
		return nil, err
	}
	return crypt.Decrypt(key, ciphertext)
}

func (k *LocalKMS) lookup(keyID string) ([]byte, error) {
	k.mu.RLock()
	defer k.mu.RUnlock()

	key, ok := k.keys[keyID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKey, keyID)
	}
	return key, nil
}
