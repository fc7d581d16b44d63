package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRuleCache caches the active trigger rules per report type in Redis so
// every teller keystroke does not round-trip to the rules table. Failures
// degrade to cache misses; the dispatcher always has the database to fall
// back on.
type RedisRuleCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisRuleCache creates a rule cache with its own Redis connection
func NewRedisRuleCache(cfg RedisConfig, ttl time.Duration, logger *zap.Logger) (*RedisRuleCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisRuleCacheWithClient(client, ttl, logger), nil
}

// NewRedisRuleCacheWithClient creates a rule cache over an existing client
func NewRedisRuleCacheWithClient(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisRuleCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RedisRuleCache{
		client:    client,
		keyPrefix: "regulatory:rules:",
		ttl:       ttl,
		logger:    logger,
	}
}

// GetActiveRules returns the cached rules of a report type, if present
func (c *RedisRuleCache) GetActiveRules(ctx context.Context, reportType regulatory.ReportType) ([]regulatory.TriggerRule, bool) {
	payload, err := c.client.Get(ctx, c.key(reportType)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("rule cache read failed",
				zap.String("report_type", string(reportType)), zap.Error(err))
		}
		return nil, false
	}

	var rules []regulatory.TriggerRule
	if err := json.Unmarshal(payload, &rules); err != nil {
		c.logger.Warn("rule cache payload corrupt, treating as miss",
			zap.String("report_type", string(reportType)), zap.Error(err))
		return nil, false
	}
	return rules, true
}

// SetActiveRules stores the rules of a report type with the configured TTL
func (c *RedisRuleCache) SetActiveRules(ctx context.Context, reportType regulatory.ReportType, rules []regulatory.TriggerRule) {
	payload, err := json.Marshal(rules)
	if err != nil {
		c.logger.Warn("rule cache marshal failed",
			zap.String("report_type", string(reportType)), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.key(reportType), payload, c.ttl).Err(); err != nil {
		c.logger.Warn("rule cache write failed",
			zap.String("report_type", string(reportType)), zap.Error(err))
	}
}

// Invalidate drops the cached rules of a report type. Called after every rule
// save so rule changes are visible within one request, not one TTL.
func (c *RedisRuleCache) Invalidate(ctx context.Context, reportType regulatory.ReportType) {
	if err := c.client.Del(ctx, c.key(reportType)).Err(); err != nil {
		c.logger.Warn("rule cache invalidation failed",
			zap.String("report_type", string(reportType)), zap.Error(err))
	}
}

// Close closes the Redis client
func (c *RedisRuleCache) Close() error {
	return c.client.Close()
}

func (c *RedisRuleCache) key(reportType regulatory.ReportType) string {
	return c.keyPrefix + string(reportType)
}
