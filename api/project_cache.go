package api

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/mdmahamud/portfolio-backend/models"
)

// projectCache is a read-through cache for single project lookups on the
// detail page. Entries expire on time alone, never on write, so an admin edit
// can stay invisible for up to the TTL. Concurrent misses for the same id are
// collapsed into one store round-trip.
type projectCache struct {
	lookup func(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ttl    time.Duration

	mu      sync.Mutex
	entries map[uuid.UUID]cacheEntry
	group   singleflight.Group
}

type cacheEntry struct {
	project *models.Project
	expires time.Time
}

func newProjectCache(lookup func(ctx context.Context, id uuid.UUID) (*models.Project, error), ttl time.Duration) *projectCache {
	return &projectCache{
		lookup:  lookup,
		ttl:     ttl,
		entries: make(map[uuid.UUID]cacheEntry),
	}
}

// get returns the cached project, or loads and caches it. A nil project
// (unknown id) is cached too, so repeated lookups of a bad id stay cheap.
func (c *projectCache) get(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	c.mu.Lock()
	if entry, ok := c.entries[id]; ok && time.Now().Before(entry.expires) {
		c.mu.Unlock()
		return entry.project, nil
	}
	c.mu.Unlock()

	value, err, _ := c.group.Do(id.String(), func() (any, error) {
		project, err := c.lookup(ctx, id)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[id] = cacheEntry{project: project, expires: time.Now().Add(c.ttl)}
		c.mu.Unlock()
		return project, nil
	})
	if err != nil {
		return nil, err
	}
	return value.(*models.Project), nil
}
