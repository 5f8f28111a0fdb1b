package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/communitycore/membership-system/internal/core/domain"
)

const (
	settingsCacheKey = "settings:catalogue"
	settingsCacheTTL = 10 * time.Minute
)

// SettingsCache is a read-through cache for the merged settings catalogue.
// Invalidate must complete before an update returns so no reader observes
// the pre-update catalogue afterwards.
type SettingsCache struct {
	client *redis.Client
}

// NewSettingsCache creates a SettingsCache wrapping the given Redis client.
func NewSettingsCache(client *redis.Client) *SettingsCache {
	return &SettingsCache{client: client}
}

// Get returns the cached catalogue, or (nil, nil) on a miss.
func (c *SettingsCache) Get(ctx context.Context) (*domain.Settings, error) {
	raw, err := c.client.Get(ctx, settingsCacheKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("settings cache get: %w", err)
	}

	var s domain.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("settings cache decode: %w", err)
	}
	return &s, nil
}

// Set stores the catalogue with a bounded TTL.
func (c *SettingsCache) Set(ctx context.Context, s domain.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("settings cache encode: %w", err)
	}
	return c.client.Set(ctx, settingsCacheKey, raw, settingsCacheTTL).Err()
}

// Invalidate drops the cached catalogue.
func (c *SettingsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, settingsCacheKey).Err()
}
