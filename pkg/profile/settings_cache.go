package profile

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/wellnesshub/platform/pkg/common/logger"
	"github.com/wellnesshub/platform/pkg/common/models"
)

const settingsKeyPrefix = "privacy:settings:"

// SettingsCache keeps per-profile privacy settings in Redis so the hot path
// of every anonymization call avoids a database read. Cache failures are
// logged and treated as misses.
type SettingsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSettingsCache(client *redis.Client, ttl time.Duration) *SettingsCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &SettingsCache{client: client, ttl: ttl}
}

func (c *SettingsCache) Get(ctx context.Context, profileID uuid.UUID) (models.PrivacySettings, bool) {
	if c == nil || c.client == nil {
		return models.PrivacySettings{}, false
	}
	data, err := c.client.Get(ctx, settingsKeyPrefix+profileID.String()).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Log.WithError(err).Debug("settings cache read failed")
		}
		return models.PrivacySettings{}, false
	}

	var settings models.PrivacySettings
	if err := json.Unmarshal(data, &settings); err != nil {
		logger.Log.WithError(err).Warn("settings cache entry corrupt")
		return models.PrivacySettings{}, false
	}
	return settings, true
}

func (c *SettingsCache) Set(ctx context.Context, profileID uuid.UUID, settings models.PrivacySettings) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, settingsKeyPrefix+profileID.String(), data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).Debug("settings cache write failed")
	}
}

func (c *SettingsCache) Invalidate(ctx context.Context, profileID uuid.UUID) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, settingsKeyPrefix+profileID.String()).Err(); err != nil {
		logger.Log.WithError(err).Debug("settings cache invalidation failed")
	}
}
