package cache

import (
	"context"
	"sync"
	"time"

	appregulatory "github.com/panzhenhai520/exchangenew-sub005/internal/application/regulatory"
	"github.com/panzhenhai520/exchangenew-sub005/internal/domain/regulatory"
)

// InMemoryRuleCache is a process-local rule cache for single-instance
// deployments and tests. Entries expire after the TTL.
type InMemoryRuleCache struct {
	mu      sync.RWMutex
	entries map[regulatory.ReportType]ruleCacheEntry
	ttl     time.Duration
	now     func() time.Time
}

type ruleCacheEntry struct {
	rules     []regulatory.TriggerRule
	expiresAt time.Time
}

// NewInMemoryRuleCache creates an in-memory rule cache
func NewInMemoryRuleCache(ttl time.Duration) *InMemoryRuleCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &InMemoryRuleCache{
		entries: make(map[regulatory.ReportType]ruleCacheEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// GetActiveRules returns the cached rules of a report type, if fresh
func (c *InMemoryRuleCache) GetActiveRules(_ context.Context, reportType regulatory.ReportType) ([]regulatory.TriggerRule, bool) {
	c.mu.RLock()
	entry, ok := c.entries[reportType]
	c.mu.RUnlock()

	if !ok || c.now().After(entry.expiresAt) {
		return nil, false
	}
	return entry.rules, true
}

// SetActiveRules stores the rules of a report type
func (c *InMemoryRuleCache) SetActiveRules(_ context.Context, reportType regulatory.ReportType, rules []regulatory.TriggerRule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[reportType] = ruleCacheEntry{
		rules:     rules,
		expiresAt: c.now().Add(c.ttl),
	}
}

// Invalidate drops the cached rules of a report type
func (c *InMemoryRuleCache) Invalidate(_ context.Context, reportType regulatory.ReportType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, reportType)
}

// Ensure both caches implement the dispatcher's RuleCache
var (
	_ appregulatory.RuleCache = (*InMemoryRuleCache)(nil)
	_ appregulatory.RuleCache = (*RedisRuleCache)(nil)
)
