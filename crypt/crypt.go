// Package crypt provides the envelope primitives behind the development
// key manager. DES keeps key material small and dependency-free; it is
// NOT suitable for protecting production data, which is why the key
// manager built on it announces itself as development-only.
package crypt

import (
	"crypto/cipher"
	"crypto/des"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
)

// KeySize is the DES key length in bytes.
const KeySize = 8

var (
	ErrInvalidKeySize    = errors.New("key must be 8 bytes")
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
	ErrInvalidPadding    = errors.New("invalid padding")
)

// RandomKey generates a random envelope key.
func RandomKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate key: %w", err)
	}
	return key, nil
}

// Encrypt seals plaintext under key using DES-CBC with a random IV
// prepended to the ciphertext and PKCS5 padding.
func Encrypt(key, plaintext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := des.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	padded := pad(plaintext, block.BlockSize())

	out := make([]byte, block.BlockSize()+len(padded))
	iv := out[:block.BlockSize()]
	if _, err := rand.Read(iv); err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out[block.BlockSize():], padded)
	return out, nil
}

// Decrypt opens ciphertext produced by Encrypt.
func Decrypt(key, ciphertext []byte) ([]byte, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}

	block, err := des.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}

	bs := block.BlockSize()
	if len(ciphertext) < 2*bs || len(ciphertext)%bs != 0 {
		return nil, ErrInvalidCiphertext
	}

	iv := ciphertext[:bs]
	body := ciphertext[bs:]

	plaintext := make([]byte, len(body))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, body)

	return unpad(plaintext, bs)
}

// Sign computes an HMAC-SHA256 tag over data.
func Sign(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// Verify checks an HMAC-SHA256 tag in constant time.
func Verify(key, data, tag []byte) bool {
	return hmac.Equal(Sign(key, data), tag)
}

// EncodeKey renders key material as base64 for storage in configuration.
func EncodeKey(key []byte) string {
	return base64.StdEncoding.EncodeToString(key)
}

// DecodeKey parses base64 key material.
func DecodeKey(s string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode key: %w", err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	return key, nil
}

// pad applies PKCS5 padding. A full block of padding is added when the
// input is already block-aligned, so unpad is unambiguous.
func pad(data []byte, bs int) []byte {
	padLen := bs - len(data)%bs
	padded := make([]byte, len(data)+padLen)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padLen)
	}
	return padded
}

// unpad removes PKCS5 padding.
func unpad(data []byte, bs int) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrInvalidPadding
	}
	padLen := int(data[len(data)-1])
	if padLen == 0 || padLen > bs || padLen > len(data) {
		return nil, ErrInvalidPadding
	}
	for _, b := range data[len(data)-padLen:] {
		if int(b) != padLen {
			return nil, ErrInvalidPadding
		}
	}
	return data[:len(data)-padLen], nil
}
