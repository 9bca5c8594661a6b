package memstore_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/fitbit-discord-bot/storage"
	"github.com/jrsteele09/fitbit-discord-bot/storage/memstore"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("put get delete", func(t *testing.T) {
		s := memstore.New()
		require.NoError(t, s.Put(ctx, "k", []byte("v"), 0))

		v, found, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, []byte("v"), v)

		require.NoError(t, s.Delete(ctx, "k"))
		_, found, err = s.Get(ctx, "k")
		require.NoError(t, err)
		require.False(t, found)
	})

	t.Run("returned values are copies", func(t *testing.T) {
		s := memstore.New()
		value := []byte("v")
		require.NoError(t, s.Put(ctx, "k", value, 0))
		value[0] = 'x'

		v, _, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, []byte("v"), v)
	})

	t.Run("ttl", func(t *testing.T) {
		now := time.Now()
		memstore.NowTimeFunc = func() time.Time { return now }
		defer func() { memstore.NowTimeFunc = time.Now }()

		s := memstore.New()
		require.NoError(t, s.Put(ctx, "k", []byte("v"), time.Minute))

		now = now.Add(59 * time.Second)
		_, found, err := s.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, found)

		now = now.Add(time.Second)
		_, found, err = s.Get(ctx, "k")
		require.NoError(t, err)
		require.False(t, found)
		require.Empty(t, s.Keys())
	})

	t.Run("expiry does not remove a newer put", func(t *testing.T) {
		// Every clock read moves one second forward, so a one second ttl has
		// always expired by the next read.
		base := time.Now()
		var ticks atomic.Int64
		memstore.NowTimeFunc = func() time.Time {
			return base.Add(time.Duration(ticks.Add(1)) * time.Second)
		}
		defer func() { memstore.NowTimeFunc = time.Now }()

		s := memstore.New()
		for range 500 {
			require.NoError(t, s.Put(ctx, "k", []byte("old"), time.Second))

			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, _, _ = s.Get(ctx, "k")
			}()
			go func() {
				defer wg.Done()
				_ = s.Put(ctx, "k", []byte("new"), 0)
			}()
			wg.Wait()

			v, found, err := s.Get(ctx, "k")
			require.NoError(t, err)
			require.True(t, found)
			require.Equal(t, []byte("new"), v)
		}
	})

	t.Run("empty key", func(t *testing.T) {
		s := memstore.New()
		require.ErrorIs(t, s.Put(ctx, "", nil, 0), storage.ErrEmptyKey)
		_, _, err := s.Get(ctx, "")
		require.ErrorIs(t, err, storage.ErrEmptyKey)
		require.ErrorIs(t, s.Delete(ctx, ""), storage.ErrEmptyKey)
	})
}
