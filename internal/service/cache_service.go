package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campus-suite/timetable-api/internal/models"
)

const (
	configKeyPrefix = "timetable:config:"
	resultKeyPrefix = "timetable:result:"
)

// CacheService fronts Redis for schedule configs and solver results. Every
// method degrades to a miss on Redis errors; the cache is never
// authoritative.
type CacheService struct {
	client    *redis.Client
	logger    *zap.Logger
	configTTL time.Duration
	resultTTL time.Duration
}

// NewCacheService wires the Redis-backed cache. A nil client disables
// caching entirely.
func NewCacheService(client *redis.Client, logger *zap.Logger, configTTL, resultTTL time.Duration) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if configTTL <= 0 {
		configTTL = 10 * time.Minute
	}
	if resultTTL <= 0 {
		resultTTL = time.Hour
	}
	return &CacheService{client: client, logger: logger, configTTL: configTTL, resultTTL: resultTTL}
}

// SetConfig stores a schedule config.
func (c *CacheService) SetConfig(ctx context.Context, cfg *models.ScheduleConfig) {
	if c.client == nil || cfg == nil {
		return
	}
	encoded, err := json.Marshal(cfg)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, configKeyPrefix+cfg.ID, encoded, c.configTTL).Err(); err != nil {
		c.logger.Sugar().Warnw("config cache write failed", "config_id", cfg.ID, "error", err)
	}
}

// GetConfig loads a schedule config, reporting whether it was present.
func (c *CacheService) GetConfig(ctx context.Context, id string) (*models.ScheduleConfig, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, configKeyPrefix+id).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Sugar().Warnw("config cache read failed", "config_id", id, "error", err)
		}
		return nil, false
	}
	var cfg models.ScheduleConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, false
	}
	return &cfg, true
}

// InvalidateConfig drops a schedule config from the cache.
func (c *CacheService) InvalidateConfig(ctx context.Context, id string) {
	if c.client == nil {
		return
	}
	if err := c.client.Del(ctx, configKeyPrefix+id).Err(); err != nil {
		c.logger.Sugar().Warnw("config cache invalidation failed", "config_id", id, "error", err)
	}
}

// SetResult stores a resolved solver result by task id.
func (c *CacheService) SetResult(ctx context.Context, taskID string, result json.RawMessage) {
	if c.client == nil || len(result) == 0 {
		return
	}
	if err := c.client.Set(ctx, resultKeyPrefix+taskID, []byte(result), c.resultTTL).Err(); err != nil {
		c.logger.Sugar().Warnw("result cache write failed", "task_id", taskID, "error", err)
	}
}

// GetResult loads a solver result by task id.
func (c *CacheService) GetResult(ctx context.Context, taskID string) (json.RawMessage, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, resultKeyPrefix+taskID).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Sugar().Warnw("result cache read failed", "task_id", taskID, "error", err)
		}
		return nil, false
	}
	return json.RawMessage(raw), true
}
