// internal/lookup/cache_test.go
//
// TTL, invalidation, and fetch-collapsing behaviour of the lookup cache.

package lookup

import (
	"context"
	"testing"
	"time"

	"github.com/maktab-dev/maktab/internal/backend"
)

func TestCacheMemoizesWithinTTL(t *testing.T) {
	data := backend.NewFakeData()
	data.GroupRows = []backend.Group{{ID: "g1", Name: "Alif"}}

	c := New(data, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		names, err := c.GroupNames(ctx)
		if err != nil {
			t.Fatalf("GroupNames: %v", err)
		}
		if len(names) != 1 || names[0] != "Alif" {
			t.Fatalf("names = %v", names)
		}
	}
	if got := data.Calls["Groups"]; got != 1 {
		t.Fatalf("backend hit %d times, want 1", got)
	}
}

func TestCacheExpires(t *testing.T) {
	data := backend.NewFakeData()
	data.Usernames["student"] = []string{"amina"}

	c := New(data, time.Millisecond)
	ctx := context.Background()

	if _, err := c.StudentUsernames(ctx); err != nil {
		t.Fatalf("first read: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := c.StudentUsernames(ctx); err != nil {
		t.Fatalf("second read: %v", err)
	}
	if got := data.Calls["UsernamesByRole/student"]; got != 2 {
		t.Fatalf("backend hit %d times, want 2", got)
	}
}

func TestCacheInvalidate(t *testing.T) {
	data := backend.NewFakeData()
	data.GroupRows = []backend.Group{{ID: "g1", Name: "Alif"}}
	data.Usernames["admin"] = []string{"head"}

	c := New(data, time.Hour)
	ctx := context.Background()

	_, _ = c.GroupNames(ctx)
	_, _ = c.AdminUsernames(ctx)

	// Selective invalidation refetches only the named key.
	c.Invalidate(KeyGroups)
	_, _ = c.GroupNames(ctx)
	_, _ = c.AdminUsernames(ctx)

	if got := data.Calls["Groups"]; got != 2 {
		t.Errorf("groups fetched %d times, want 2", got)
	}
	if got := data.Calls["UsernamesByRole/admin"]; got != 1 {
		t.Errorf("admin pool fetched %d times, want 1", got)
	}
}

func TestCacheFailureNotCached(t *testing.T) {
	data := backend.NewFakeData()
	data.Err = context.DeadlineExceeded

	c := New(data, time.Hour)
	ctx := context.Background()

	if _, err := c.TeacherUsernames(ctx); err == nil {
		t.Fatal("expected error")
	}

	// Backend recovers: the next read must go through, not serve the failure.
	data.Err = nil
	data.Usernames["teacher"] = []string{"ustadh"}
	names, err := c.TeacherUsernames(ctx)
	if err != nil {
		t.Fatalf("after recovery: %v", err)
	}
	if len(names) != 1 {
		t.Fatalf("names = %v", names)
	}
}
