package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/domain"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/metrics"
	"github.com/njprem/Hanuram_Constructions_BackEnd/internal/repository/ports"
)

const (
	engineerCacheKeyPrefix = "engineer-detail-"
	engineerFetchTimeout   = 10 * time.Second
)

type cacheEntry struct {
	profile   *domain.EngineerProfile
	expiresAt time.Time
}

// EngineerProfileCache is a read-through cache in front of the engineer
// profile store. Entries live for ttl and stored snapshots are never handed
// out directly.
type EngineerProfileCache struct {
	repo    ports.EngineerRepository
	log     logrus.FieldLogger
	metrics *metrics.Metrics
	ttl     time.Duration
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]cacheEntry
	group   singleflight.Group
}

func NewEngineerProfileCache(repo ports.EngineerRepository, log logrus.FieldLogger, m *metrics.Metrics, ttl time.Duration) *EngineerProfileCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &EngineerProfileCache{
		repo:    repo,
		log:     log,
		metrics: m,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *EngineerProfileCache) SetClock(now func() time.Time) {
	if now != nil {
		c.now = now
	}
}

// GetDetail returns the profile for engineerID, loading it from the store on
// a miss or after the cached copy has expired.
func (c *EngineerProfileCache) GetDetail(ctx context.Context, engineerID string) (*domain.EngineerProfile, error) {
	engineerID = strings.TrimSpace(engineerID)
	if engineerID == "" {
		return nil, ErrEngineerNotFound
	}
	key := engineerCacheKeyPrefix + engineerID

	if profile, ok := c.lookup(key); ok {
		c.metrics.CacheLookup("hit")
		return profile, nil
	}

	// The shared fetch ignores the first caller's cancellation. Each caller
	// stops waiting when its own ctx ends.
	ch := c.group.DoChan(key, func() (any, error) {
		if profile, ok := c.lookup(key); ok {
			return profile, nil
		}
		c.metrics.CacheLookup("miss")
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), engineerFetchTimeout)
		defer cancel()
		profile, err := c.repo.FindByEngineerID(fetchCtx, engineerID)
		if err != nil {
			if isNotFound(err) {
				c.metrics.CacheLookup("not_found")
				return nil, ErrEngineerNotFound
			}
			c.metrics.CacheLookup("error")
			return nil, fmt.Errorf("load engineer %s: %w", engineerID, err)
		}
		if profile == nil {
			c.metrics.CacheLookup("not_found")
			return nil, ErrEngineerNotFound
		}
		c.store(key, profile)
		c.log.WithField("engineer_id", engineerID).Debug("engineer profile cached")
		return profile, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.EngineerProfile).Clone(), nil
	}
}

// Invalidate drops the cached copy for engineerID, if any.
func (c *EngineerProfileCache) Invalidate(engineerID string) {
	c.mu.Lock()
	delete(c.entries, engineerCacheKeyPrefix+strings.TrimSpace(engineerID))
	c.mu.Unlock()
}

func (c *EngineerProfileCache) lookup(key string) (*domain.EngineerProfile, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || !c.now().Before(entry.expiresAt) {
		return nil, false
	}
	return entry.profile.Clone(), true
}

func (c *EngineerProfileCache) store(key string, profile *domain.EngineerProfile) {
	c.mu.Lock()
	c.entries[key] = cacheEntry{profile: profile.Clone(), expiresAt: c.now().Add(c.ttl)}
	c.mu.Unlock()
}
