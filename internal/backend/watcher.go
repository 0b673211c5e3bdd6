// internal/backend/watcher.go
//
// Maktab – Backend collaborator: groups change feed.
//
// Context
//   The hosted service pushes row-level changes on its realtime channel; on
//   the server side we approximate that with a polling watcher.  Every
//   interval the watcher re-reads the groups table, diffs it against the last
//   snapshot, and emits insert, update, and delete events to subscribers.
//   The group list page and the lookup cache both ride this feed, so a group
//   created elsewhere shows up without a full reload.
//
//   Polling errors are logged and the previous snapshot is kept; a transient
//   backend failure must not spray spurious delete events.
//
//------------------------------------------------------------------------------

package backend

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ChangeType tags a GroupEvent.
type ChangeType int

const (
	ChangeInsert ChangeType = iota
	ChangeUpdate
	ChangeDelete
)

// GroupEvent describes one observed row change.
type GroupEvent struct {
	Type  ChangeType
	Group Group
}

// GroupWatcher polls DataAPI.Groups and publishes diffs.
type GroupWatcher struct {
	data     DataAPI
	interval time.Duration

	mu       sync.Mutex
	snapshot map[string]Group // keyed by group ID
	subs     map[int]func(GroupEvent)
	nextSub  int
}

// NewGroupWatcher builds a watcher; Start launches the poll loop.
func NewGroupWatcher(data DataAPI, interval time.Duration) *GroupWatcher {
	return &GroupWatcher{
		data:     data,
		interval: interval,
		subs:     make(map[int]func(GroupEvent)),
	}
}

// Subscribe registers fn for change events.  fn must not block.
func (w *GroupWatcher) Subscribe(fn func(GroupEvent)) (cancel func()) {
	w.mu.Lock()
	id := w.nextSub
	w.nextSub++
	w.subs[id] = fn
	w.mu.Unlock()

	return func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}
}

// Start seeds the snapshot without emitting events, then hands the poll loop
// to a goroutine that runs until ctx is cancelled.  Start itself returns
// immediately so callers can keep assembling the application.
func (w *GroupWatcher) Start(ctx context.Context) {
	w.poll(ctx, true)
	go w.run(ctx)
}

func (w *GroupWatcher) run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll(ctx, false)
		}
	}
}

// Poll runs one diff pass immediately.  Exposed for tests and for cache
// invalidation after a successful sign-up.
func (w *GroupWatcher) Poll(ctx context.Context) { w.poll(ctx, false) }

func (w *GroupWatcher) poll(ctx context.Context, seed bool) {
	groups, err := w.data.Groups(ctx)
	if err != nil {
		zap.S().Warnw("group watcher poll failed", "err", err)
		return
	}

	next := make(map[string]Group, len(groups))
	for _, g := range groups {
		next[g.ID] = g
	}

	w.mu.Lock()
	prev := w.snapshot
	w.snapshot = next
	fns := make([]func(GroupEvent), 0, len(w.subs))
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	if seed || prev == nil {
		return
	}

	var events []GroupEvent
	for id, g := range next {
		old, ok := prev[id]
		switch {
		case !ok:
			events = append(events, GroupEvent{Type: ChangeInsert, Group: g})
		case old.Name != g.Name || old.Closed != g.Closed:
			events = append(events, GroupEvent{Type: ChangeUpdate, Group: g})
		}
	}
	for id, g := range prev {
		if _, ok := next[id]; !ok {
			events = append(events, GroupEvent{Type: ChangeDelete, Group: g})
		}
	}

	for _, ev := range events {
		for _, fn := range fns {
			fn(ev)
		}
	}
}
