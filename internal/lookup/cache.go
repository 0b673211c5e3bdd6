// internal/lookup/cache.go
//
// Maktab – Remote-lookup cache.
//
// Context
//   The username and group validators consult backend pools on every
//   keystroke-level validation pass, so hitting the service each time is out
//   of the question.  This cache memoizes the four pools (group names plus
//   the student, teacher, and admin username pools) for a bounded staleness
//   window.  Concurrent fills for the same key collapse through singleflight,
//   and a fill failure is never cached.
//
//   Staleness is a deliberate trade: within the TTL a just-created group or
//   username may not be visible to validation.  Explicit Invalidate calls
//   (after a successful sign-up, or on a groups change-feed event) shrink
//   that window where it matters.
//
//------------------------------------------------------------------------------

package lookup

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/maktab-dev/maktab/internal/backend"
	"github.com/maktab-dev/maktab/internal/metrics"
	"github.com/maktab-dev/maktab/internal/validate"
)

// The cache is the pool source behind the lookup-backed validators.
var _ validate.Lookups = (*Cache)(nil)

// DefaultTTL bounds how stale a pool may get before a refetch.
const DefaultTTL = 5 * time.Minute

// Cache keys, exported so wiring code can invalidate selectively.
const (
	KeyGroups           = "groups"
	KeyStudentUsernames = "usernames/student"
	KeyTeacherUsernames = "usernames/teacher"
	KeyAdminUsernames   = "usernames/admin"
)

// Cache memoizes backend pool queries for ttl.  Safe for concurrent use.
type Cache struct {
	data backend.DataAPI
	ttl  time.Duration

	sfg singleflight.Group

	mu      sync.Mutex
	entries map[string]entry
}

type entry struct {
	vals []string
	exp  time.Time
}

// New builds a cache over data.  ttl <= 0 falls back to DefaultTTL.
func New(data backend.DataAPI, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		data:    data,
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// GroupNames returns the cached group-name pool.
func (c *Cache) GroupNames(ctx context.Context) ([]string, error) {
	return c.get(ctx, KeyGroups, func(ctx context.Context) ([]string, error) {
		groups, err := c.data.Groups(ctx)
		if err != nil {
			return nil, err
		}
		names := make([]string, 0, len(groups))
		for _, g := range groups {
			if g.Name != "" {
				names = append(names, g.Name)
			}
		}
		return names, nil
	})
}

// StudentUsernames returns the cached student username pool.
func (c *Cache) StudentUsernames(ctx context.Context) ([]string, error) {
	return c.get(ctx, KeyStudentUsernames, func(ctx context.Context) ([]string, error) {
		return c.data.UsernamesByRole(ctx, "student")
	})
}

// TeacherUsernames returns the cached teacher username pool.
func (c *Cache) TeacherUsernames(ctx context.Context) ([]string, error) {
	return c.get(ctx, KeyTeacherUsernames, func(ctx context.Context) ([]string, error) {
		return c.data.UsernamesByRole(ctx, "teacher")
	})
}

// AdminUsernames returns the cached admin username pool.
func (c *Cache) AdminUsernames(ctx context.Context) ([]string, error) {
	return c.get(ctx, KeyAdminUsernames, func(ctx context.Context) ([]string, error) {
		return c.data.UsernamesByRole(ctx, "admin")
	})
}

// Invalidate drops the named keys; no keys drops everything.  The next read
// refetches.
func (c *Cache) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(keys) == 0 {
		c.entries = make(map[string]entry)
		return
	}
	for _, k := range keys {
		delete(c.entries, k)
	}
}

// get serves key from the cache or refetches through singleflight.
func (c *Cache) get(ctx context.Context, key string, fetch func(context.Context) ([]string, error)) ([]string, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok && time.Now().Before(e.exp) {
		c.mu.Unlock()
		metrics.LookupCacheHitsTotal.Inc()
		return e.vals, nil
	}
	c.mu.Unlock()

	metrics.LookupCacheMissesTotal.Inc()
	v, err, _ := c.sfg.Do(key, func() (any, error) {
		// Double-check after the singleflight barrier.
		c.mu.Lock()
		if e, ok := c.entries[key]; ok && time.Now().Before(e.exp) {
			c.mu.Unlock()
			return e.vals, nil
		}
		c.mu.Unlock()

		vals, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.entries[key] = entry{vals: vals, exp: time.Now().Add(c.ttl)}
		c.mu.Unlock()
		return vals, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}
