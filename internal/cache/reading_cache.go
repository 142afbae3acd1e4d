package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Divyamsirswal/SoilSense-sub000/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const latestReadingTTL = 24 * time.Hour

// ReadingCache keeps the newest soil reading per farm in redis so the
// dashboard's recent view skips postgres on the hot path.
type ReadingCache struct {
	client *redis.Client
}

func NewReadingCache(client *redis.Client) *ReadingCache {
	return &ReadingCache{client: client}
}

func latestReadingKey(farmID uuid.UUID) string {
	return fmt.Sprintf("farm:%s:latest-reading", farmID)
}

func (c *ReadingCache) SetLatest(ctx context.Context, farmID uuid.UUID, reading *models.SoilData) error {
	payload, err := json.Marshal(reading)
	if err != nil {
		return fmt.Errorf("marshal latest reading: %w", err)
	}
	if err := c.client.Set(ctx, latestReadingKey(farmID), payload, latestReadingTTL).Err(); err != nil {
		return fmt.Errorf("cache latest reading: %w", err)
	}
	return nil
}

// GetLatest returns (nil, nil) on a cache miss.
func (c *ReadingCache) GetLatest(ctx context.Context, farmID uuid.UUID) (*models.SoilData, error) {
	payload, err := c.client.Get(ctx, latestReadingKey(farmID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch latest reading: %w", err)
	}

	var reading models.SoilData
	if err := json.Unmarshal(payload, &reading); err != nil {
		return nil, fmt.Errorf("unmarshal latest reading: %w", err)
	}
	return &reading, nil
}
