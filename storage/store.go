package storage

import (
	"context"
	"errors"
	"time"
)

var ErrEmptyKey = errors.New("key cannot be empty")

// Store is the key-value contract every backend implements. There are no
// transactions across keys. A missing key is reported with found == false and a
// nil error.
type Store interface {
	// Put stores value under key. A ttl of zero means the value never expires.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Delete(ctx context.Context, key string) error
}
