package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/talabahamkor/choyxona/internal/app/models"
)

// ProfileCache is a bounded, TTL'd cache of actor display profiles used when
// enriching feed pages. It is purely a latency optimization: entries may be
// evicted or stale at any time and correctness never depends on its
// contents, since the actors table remains authoritative.
type ProfileCache struct {
	lru *expirable.LRU[int64, *models.ActorProfile]
}

// NewProfileCache creates a profile cache holding up to size entries for ttl.
func NewProfileCache(size int, ttl time.Duration) *ProfileCache {
	if size <= 0 {
		size = 2048
	}
	return &ProfileCache{
		lru: expirable.NewLRU[int64, *models.ActorProfile](size, nil, ttl),
	}
}

// Get returns the cached profile for an actor, if present and fresh.
func (c *ProfileCache) Get(actorID int64) (*models.ActorProfile, bool) {
	return c.lru.Get(actorID)
}

// Put stores a profile.
func (c *ProfileCache) Put(profile *models.ActorProfile) {
	if profile == nil {
		return
	}
	c.lru.Add(profile.ID, profile)
}
