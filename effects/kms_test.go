package effects

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weft-lang/weftrt/crypt"
)

func newTestKMS() *LocalKMS {
	return NewLocalKMS(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLocalKMSRoundTrip(t *testing.T) {
	kms := newTestKMS()
	ctx := context.Background()

	_, err := kms.GenerateKey("readers")
	require.NoError(t, err)

	sealed, err := kms.Encrypt(ctx, "readers", []byte("tag payload"))
	require.NoError(t, err)
	assert.NotEqual(t, []byte("tag payload"), sealed)

	opened, err := kms.Decrypt(ctx, "readers", sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("tag payload"), opened)
}

func TestLocalKMSUnknownKey(t *testing.T) {
	kms := newTestKMS()
	ctx := context.Background()

	_, err := kms.Encrypt(ctx, "missing", []byte("x"))
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = kms.Decrypt(ctx, "missing", []byte("x"))
	assert.ErrorIs(t, err, ErrUnknownKey)
}

func TestLocalKMSAddKey(t *testing.T) {
	kms := newTestKMS()

	key, err := crypt.RandomKey()
	require.NoError(t, err)

	require.NoError(t, kms.AddKey("imported", key))
	assert.ErrorIs(t, kms.AddKey("imported", key), ErrKeyAlreadyAdded)
	assert.ErrorIs(t, kms.AddKey("short", []byte("abc")), crypt.ErrInvalidKeySize)

	sealed, err := kms.Encrypt(context.Background(), "imported", []byte("data"))
	require.NoError(t, err)

	// The registered key is a copy; mutating the caller's slice must not
	// affect decryption.
	key[0] ^= 0xff
	opened, err := kms.Decrypt(context.Background(), "imported", sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("data"), opened)
}

func TestLoopbackSerial(t *testing.T) {
	port := NewLoopbackSerial()
	ctx := context.Background()

	n, err := port.Write(ctx, []byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	data, err := port.Read(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []byte("hel"), data)

	data, err = port.Read(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []byte("lo"), data)

	// Empty buffer reads return no data rather than blocking.
	data, err = port.Read(ctx, 4)
	require.NoError(t, err)
	assert.Empty(t, data)
}
