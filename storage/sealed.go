package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealKeySize   = 32
	sealNonceSize = 24
)

var ErrUnsealable = errors.New("stored value could not be decrypted")

// SealedStore encrypts every value with NaCl secretbox before handing it to the
// wrapped Store. Stored values are nonce || box.
type SealedStore struct {
	inner Store
	key   [sealKeySize]byte
}

var _ Store = (*SealedStore)(nil)

// NewSealedStore wraps inner using a base64 encoded 32 byte key.
func NewSealedStore(inner Store, encodedKey string) (*SealedStore, error) {
	raw, err := base64.StdEncoding.DecodeString(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("decode storage encryption key: %w", err)
	}
	if len(raw) != sealKeySize {
		return nil, fmt.Errorf("storage encryption key must be %d bytes, got %d", sealKeySize, len(raw))
	}
	s := &SealedStore{inner: inner}
	copy(s.key[:], raw)
	return s, nil
}

func (s *SealedStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	var nonce [sealNonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], value, &nonce, &s.key)
	return s.inner.Put(ctx, key, sealed, ttl)
}

func (s *SealedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	sealed, found, err := s.inner.Get(ctx, key)
	if err != nil || !found {
		return nil, found, err
	}
	if len(sealed) < sealNonceSize+secretbox.Overhead {
		return nil, false, ErrUnsealable
	}
	var nonce [sealNonceSize]byte
	copy(nonce[:], sealed[:sealNonceSize])
	value, ok := secretbox.Open(nil, sealed[sealNonceSize:], &nonce, &s.key)
	if !ok {
		return nil, false, ErrUnsealable
	}
	return value, true, nil
}

func (s *SealedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}
