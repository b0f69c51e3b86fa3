package gateway

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// envelope is the document stored by an EncryptedSlot.
type envelope struct {
	Encrypted []byte `json:"encrypted"` // nonce followed by the AES-GCM ciphertext
}

// EncryptedSlot encrypts the value with AES-256-GCM before handing it to
// another slot.
//
// Values are sealed with the active key. Reading tries the active key, then
// every fallback key in order, so that keys can be rotated without losing
// the stored snapshot. A stored value that is not an envelope is returned as
// is: a plaintext ledger gets encrypted on its next save.
type EncryptedSlot struct {
	next      Slot
	active    []byte
	fallbacks [][]byte
}

// Encrypted wraps next. Every key must be 32 bytes long.
func Encrypted(next Slot, activeKey []byte, fallbackKeys ...[]byte) (*EncryptedSlot, error) {
	if len(activeKey) != 32 {
		return nil, fmt.Errorf("active key is %d bytes, want 32 (AES-256)", len(activeKey))
	}
	for i, k := range fallbackKeys {
		if len(k) != 32 {
			return nil, fmt.Errorf("fallback key #%d is %d bytes, want 32 (AES-256)", i, len(k))
		}
	}
	return &EncryptedSlot{next: next, active: activeKey, fallbacks: fallbackKeys}, nil
}

// Read loads and decrypts the value.
func (s *EncryptedSlot) Read(ctx context.Context) ([]byte, error) {
	data, err := s.next.Read(ctx)
	if err != nil {
		return nil, err
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil || env.Encrypted == nil {
		return data, nil
	}
	plain, err := decryptWithRotation(env.Encrypted, s.active, s.fallbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt snapshot: %w", err)
	}
	return plain, nil
}

// Write encrypts data with the active key and stores the envelope.
func (s *EncryptedSlot) Write(ctx context.Context, data []byte) error {
	sealed, err := encrypt(data, s.active)
	if err != nil {
		return fmt.Errorf("failed to encrypt snapshot: %w", err)
	}
	env, err := json.Marshal(envelope{Encrypted: sealed})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return s.next.Write(ctx, env)
}

// Close closes the wrapped slot if it can be closed.
func (s *EncryptedSlot) Close() error { return closeSlot(s.next) }

func encrypt(plaintext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func decryptWithRotation(ciphertext []byte, activeKey []byte, fallbackKeys [][]byte) ([]byte, error) {
	if plain, err := decrypt(ciphertext, activeKey); err == nil {
		return plain, nil
	}
	for _, key := range fallbackKeys {
		if plain, err := decrypt(ciphertext, key); err == nil {
			return plain, nil
		}
	}
	return nil, errors.New("decryption failed with all available keys")
}

func decrypt(ciphertext []byte, key []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	if len(ciphertext) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	nonce, sealed := ciphertext[:gcm.NonceSize()], ciphertext[gcm.NonceSize():]
	return gcm.Open(nil, nonce, sealed, nil)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
