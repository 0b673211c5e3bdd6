// internal/backend/watcher_test.go
//
// Diff semantics of the groups change feed.

package backend

import (
	"context"
	"testing"
	"time"
)

func TestWatcherEmitsDiffs(t *testing.T) {
	data := NewFakeData()
	data.GroupRows = []Group{
		{ID: "g1", Name: "Alif"},
		{ID: "g2", Name: "Ba"},
	}

	w := NewGroupWatcher(data, time.Hour)

	var events []GroupEvent
	cancel := w.Subscribe(func(ev GroupEvent) { events = append(events, ev) })
	defer cancel()

	ctx := context.Background()

	// Seed pass: snapshot only, no events.
	w.poll(ctx, true)
	if len(events) != 0 {
		t.Fatalf("seed emitted events: %#v", events)
	}

	// Insert g3, close g2, drop g1.
	data.GroupRows = []Group{
		{ID: "g2", Name: "Ba", Closed: true},
		{ID: "g3", Name: "Ta"},
	}
	w.Poll(ctx)

	if len(events) != 3 {
		t.Fatalf("want 3 events, got %d: %#v", len(events), events)
	}
	byType := map[ChangeType]Group{}
	for _, ev := range events {
		byType[ev.Type] = ev.Group
	}
	if byType[ChangeInsert].ID != "g3" {
		t.Errorf("insert = %#v", byType[ChangeInsert])
	}
	if byType[ChangeUpdate].ID != "g2" || !byType[ChangeUpdate].Closed {
		t.Errorf("update = %#v", byType[ChangeUpdate])
	}
	if byType[ChangeDelete].ID != "g1" {
		t.Errorf("delete = %#v", byType[ChangeDelete])
	}
}

func TestWatcherStartReturnsAndPollsInBackground(t *testing.T) {
	data := NewFakeData()
	data.GroupRows = []Group{{ID: "g1", Name: "Alif"}}

	w := NewGroupWatcher(data, 5*time.Millisecond)

	events := make(chan GroupEvent, 8)
	cancel := w.Subscribe(func(ev GroupEvent) { events <- ev })
	defer cancel()

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	done := make(chan struct{})
	go func() {
		w.Start(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Start blocked instead of handing off to the poll loop")
	}

	data.mu.Lock()
	data.GroupRows = append(data.GroupRows, Group{ID: "g2", Name: "Ba"})
	data.mu.Unlock()

	select {
	case ev := <-events:
		if ev.Type != ChangeInsert || ev.Group.ID != "g2" {
			t.Fatalf("event = %#v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("background poll never observed the new group")
	}
}

func TestWatcherKeepsSnapshotOnError(t *testing.T) {
	data := NewFakeData()
	data.GroupRows = []Group{{ID: "g1", Name: "Alif"}}

	w := NewGroupWatcher(data, time.Hour)

	var events []GroupEvent
	cancel := w.Subscribe(func(ev GroupEvent) { events = append(events, ev) })
	defer cancel()

	ctx := context.Background()
	w.poll(ctx, true)

	// A failed poll must not look like a mass delete.
	data.Err = context.DeadlineExceeded
	w.Poll(ctx)
	if len(events) != 0 {
		t.Fatalf("error poll emitted events: %#v", events)
	}

	// Recovery sees the same rows: still quiet.
	data.Err = nil
	w.Poll(ctx)
	if len(events) != 0 {
		t.Fatalf("recovery poll emitted events: %#v", events)
	}
}

func TestImageObjectName(t *testing.T) {
	if got := ImageObjectName("user-1", "image/png"); got != "user-1.png" {
		t.Errorf("png: %q", got)
	}
	if got := ImageObjectName("user-1", "image/jpeg"); got != "user-1.jpg" {
		t.Errorf("jpeg: %q", got)
	}

	// Anonymous uploads get a random+timestamp base; two calls never collide.
	a := ImageObjectName("", "image/webp")
	b := ImageObjectName("", "image/webp")
	if a == b {
		t.Errorf("anonymous names collided: %q", a)
	}
}
