// internal/session/manager.go
//
// Maktab – Session subsystem: provider cache.
//
// Context
//   One Provider exists per live access token.  The Manager loads providers
//   lazily behind a singleflight barrier, stores them in a sync.Map, and
//   evicts them on idle TTL or LRU pressure so abandoned sessions do not
//   accumulate subscriptions.  Eviction closes the provider, which cancels
//   its auth-event subscription.
//
//   Failed resolves are not cached; the next request retries.
//
//------------------------------------------------------------------------------

package session

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/maktab-dev/maktab/internal/backend"
	"github.com/maktab-dev/maktab/internal/metrics"
)

// Static defaults.  Override through the Manager options if needed.
const (
	IdleTTL       = 30 * time.Minute
	MaxEntries    = 1000
	EvictInterval = 5 * time.Minute
)

type entry struct {
	prov     *Provider
	lastSeen int64 // unix nanos, atomic
}

// Manager caches one Provider per access token.
type Manager struct {
	auth        backend.AuthAPI
	sfg         singleflight.Group
	m           sync.Map
	evictTicker *time.Ticker
	idleTTL     time.Duration
	maxEntries  int
}

// NewManager constructs a Manager and starts the background evictor.
func NewManager(auth backend.AuthAPI, idleTTL time.Duration, maxEntries int) *Manager {
	mgr := &Manager{
		auth:       auth,
		idleTTL:    idleTTL,
		maxEntries: maxEntries,
	}
	mgr.evictTicker = time.NewTicker(EvictInterval)
	go mgr.evictLoop()
	return mgr
}

// Get returns the Provider for token, creating and resolving it on demand.
func (mgr *Manager) Get(ctx context.Context, token string) (*Provider, error) {
	if v, ok := mgr.m.Load(token); ok {
		ent := v.(*entry)
		atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
		return ent.prov, nil
	}

	v, err, _ := mgr.sfg.Do(token, func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if v, ok := mgr.m.Load(token); ok {
			ent := v.(*entry)
			atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
			return ent.prov, nil
		}
		prov := NewProvider(mgr.auth, token)
		if err := prov.Resolve(ctx); err != nil {
			prov.Close()
			return nil, err
		}
		mgr.m.Store(token, &entry{
			prov:     prov,
			lastSeen: time.Now().UnixNano(),
		})
		metrics.ActiveSessions.Inc()
		return prov, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Provider), nil
}

// Drop removes and closes the provider for token, if present.  Called after
// sign-out so the token's slot does not linger until the evictor runs.
func (mgr *Manager) Drop(token string) {
	if v, ok := mgr.m.LoadAndDelete(token); ok {
		v.(*entry).prov.Close()
		metrics.ActiveSessions.Dec()
	}
}

// Stop halts the background evictor.  Cached providers stay usable.
func (mgr *Manager) Stop() { mgr.evictTicker.Stop() }

// evictLoop scans the map every EvictInterval and removes providers idle
// longer than idleTTL, then trims least-recently-used providers while the
// map exceeds maxEntries.
func (mgr *Manager) evictLoop() {
	for range mgr.evictTicker.C {
		now := time.Now().UnixNano()
		var count int

		// Idle eviction pass.
		mgr.m.Range(func(key, value any) bool {
			count++
			ent := value.(*entry)
			idle := time.Duration(now - atomic.LoadInt64(&ent.lastSeen))
			if idle > mgr.idleTTL {
				ent.prov.Close()
				mgr.m.Delete(key)
				count--
				zap.S().Infow("session evicted", "reason", "idle", "idle", idle.Truncate(time.Second))
				metrics.SessionEvictTotal.Inc()
				metrics.ActiveSessions.Dec()
			}
			return true
		})

		// LRU eviction pass.
		if mgr.maxEntries > 0 && count > mgr.maxEntries {
			type kv struct {
				key string
				at  int64
			}
			var all []kv
			mgr.m.Range(func(key, value any) bool {
				ent := value.(*entry)
				all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&ent.lastSeen)})
				return true
			})
			sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
			for i := 0; i < count-mgr.maxEntries; i++ {
				if v, ok := mgr.m.LoadAndDelete(all[i].key); ok {
					v.(*entry).prov.Close()
					zap.S().Infow("session evicted", "reason", "lru")
					metrics.SessionEvictTotal.Inc()
					metrics.ActiveSessions.Dec()
				}
			}
		}
	}
}
