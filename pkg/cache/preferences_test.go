package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oikion/mvp-sub017/pkg/models"
)

type memoryStore struct {
	values map[string]string
	ttls   map[string]time.Duration
	err    error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Get(_ context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	v, ok := m.values[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value any, expiration time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value.(string)
	m.ttls[key] = expiration
	return nil
}

func silentLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(ectologger.EctoLogMessage) {})
}

func TestKey(t *testing.T) {
	assert.Equal(t, Key("a1", "Θέλω ΜΠΑΛΚΟΝΙ"), Key("a1", "θελω μπαλκονι"))
	assert.NotEqual(t, Key("a1", "balcony"), Key("a1", "pool"))
	assert.NotEqual(t, Key("a1", "balcony"), Key("b2", "balcony"))
	assert.True(t, strings.HasPrefix(Key("a1", "balcony"), keyPrefix+"a1:"))
}

func TestPreferenceCache(t *testing.T) {
	ctx := context.Background()
	prefs := []models.ExtractedPreference{
		{Type: models.PreferenceBalcony, Value: true, Importance: models.ImportanceRequired},
	}

	t.Run("miss then hit", func(t *testing.T) {
		store := newMemoryStore()
		cache := NewPreferenceCache(store, time.Hour, "a1", silentLogger())

		_, ok, err := cache.Get(ctx, "We need a balcony")
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, cache.Set(ctx, "We need a balcony", prefs))
		assert.Equal(t, time.Hour, store.ttls[Key("a1", "We need a balcony")])

		got, ok, err := cache.Get(ctx, "we need a BALCONY")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, prefs, got)
	})

	t.Run("entries of another table version are not served", func(t *testing.T) {
		store := newMemoryStore()
		require.NoError(t, NewPreferenceCache(store, 0, "a1", silentLogger()).Set(ctx, "We need a balcony", prefs))

		_, ok, err := NewPreferenceCache(store, 0, "b2", silentLogger()).Get(ctx, "We need a balcony")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("empty result is cached as a hit", func(t *testing.T) {
		cache := NewPreferenceCache(newMemoryStore(), 0, "a1", silentLogger())
		require.NoError(t, cache.Set(ctx, "nothing useful", nil))

		got, ok, err := cache.Get(ctx, "nothing useful")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, got)
	})

	t.Run("store errors are returned", func(t *testing.T) {
		store := newMemoryStore()
		store.err = errors.New("connection refused")
		cache := NewPreferenceCache(store, 0, "a1", silentLogger())

		_, _, err := cache.Get(ctx, "text")
		assert.Error(t, err)
		assert.Error(t, cache.Set(ctx, "text", prefs))
	})

	t.Run("corrupt entries count as a miss", func(t *testing.T) {
		store := newMemoryStore()
		store.values[Key("a1", "text")] = "{not json"
		cache := NewPreferenceCache(store, 0, "a1", silentLogger())

		_, ok, err := cache.Get(ctx, "text")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
