package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/redis/go-redis/v9"

	"github.com/Oikion/mvp-sub017/pkg/models"
	"github.com/Oikion/mvp-sub017/pkg/normalizers"
	"github.com/Oikion/mvp-sub017/pkg/tracing"
)

const keyPrefix = "oikion:preferences:"

// Store is the subset of Client the preference cache needs
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// PreferenceCache memoises extraction results keyed by the folded note text
type PreferenceCache struct {
	store   Store
	ttl     time.Duration
	version string
	logger  ectologger.Logger
}

// NewPreferenceCache creates a cache for one extractor version. A zero ttl keeps entries until evicted.
func NewPreferenceCache(store Store, ttl time.Duration, version string, logger ectologger.Logger) *PreferenceCache {
	return &PreferenceCache{store: store, ttl: ttl, version: version, logger: logger}
}

// Key derives the cache key. Notes differing only in case or accents share a key; a new
// pattern table version starts a fresh key space.
func Key(version, text string) string {
	sum := sha256.Sum256([]byte(normalizers.Fold(text)))
	return keyPrefix + version + ":" + hex.EncodeToString(sum[:])
}

// Get returns the cached preferences for text. ok is false on a miss.
func (c *PreferenceCache) Get(ctx context.Context, text string) (prefs []models.ExtractedPreference, ok bool, err error) {
	ctx, span := tracing.StartSpan(ctx, "cache.PreferenceCache.Get")
	defer span.End()

	raw, err := c.store.Get(ctx, Key(c.version, text))
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
		c.logger.WithContext(ctx).WithError(err).Warn("Discarding unreadable cached preferences")
		return nil, false, nil
	}
	return prefs, true, nil
}

// Set stores the preferences extracted from text
func (c *PreferenceCache) Set(ctx context.Context, text string, prefs []models.ExtractedPreference) error {
	ctx, span := tracing.StartSpan(ctx, "cache.PreferenceCache.Set")
	defer span.End()

	if prefs == nil {
		prefs = []models.ExtractedPreference{}
	}
	b, err := json.Marshal(prefs)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, Key(c.version, text), string(b), c.ttl)
}
