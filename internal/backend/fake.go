// internal/backend/fake.go
//
// In-memory implementations of the backend contracts.  They back unit tests
// across the repo and the local development mode, where no hosted service is
// reachable.

package backend

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

//
// FakeAuth
//

// Compile-time assertion.
var _ AuthAPI = (*FakeAuth)(nil)

// FakeAuth records OTP requests and serves token lookups from a map.
type FakeAuth struct {
	mu       sync.Mutex
	Requests []OTPRequest
	Users    map[string]*AuthUser // token -> user
	Err      error                // returned by every call when set

	subs    map[int]func(AuthEvent)
	nextSub int
}

func NewFakeAuth() *FakeAuth {
	return &FakeAuth{
		Users: make(map[string]*AuthUser),
		subs:  make(map[int]func(AuthEvent)),
	}
}

func (f *FakeAuth) RequestOTP(_ context.Context, req OTPRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Requests = append(f.Requests, req)
	return nil
}

func (f *FakeAuth) UserForToken(_ context.Context, token string) (*AuthUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return nil, f.Err
	}
	u, ok := f.Users[token]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (f *FakeAuth) SignOut(_ context.Context, token string) error {
	f.mu.Lock()
	if f.Err != nil {
		f.mu.Unlock()
		return f.Err
	}
	delete(f.Users, token)
	f.mu.Unlock()

	f.Publish(AuthEvent{Type: EventSignedOut, Token: token})
	return nil
}

func (f *FakeAuth) Subscribe(fn func(AuthEvent)) (cancel func()) {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subs[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subs, id)
		f.mu.Unlock()
	}
}

func (f *FakeAuth) Publish(ev AuthEvent) {
	f.mu.Lock()
	fns := make([]func(AuthEvent), 0, len(f.subs))
	for _, fn := range f.subs {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

//
// FakeData
//

var _ DataAPI = (*FakeData)(nil)

// FakeData serves DataAPI from in-memory slices.
type FakeData struct {
	mu          sync.Mutex
	GroupRows   []Group
	StudentRows []StudentProfile
	Lessons     map[string][]Lesson // group ID -> lessons
	Members     map[string][]string // group name -> full names
	Usernames   map[string][]string // role -> pool
	Emails      []string
	Err         error

	Calls map[string]int // method name -> invocation count
}

func NewFakeData() *FakeData {
	return &FakeData{
		Lessons:   make(map[string][]Lesson),
		Members:   make(map[string][]string),
		Usernames: make(map[string][]string),
		Calls:     make(map[string]int),
	}
}

func (f *FakeData) count(method string) {
	f.Calls[method]++
}

func (f *FakeData) Groups(context.Context) ([]Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Groups")
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]Group, len(f.GroupRows))
	copy(out, f.GroupRows)
	return out, nil
}

func (f *FakeData) GroupByName(_ context.Context, name string) (*Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GroupByName")
	if f.Err != nil {
		return nil, f.Err
	}
	for _, g := range f.GroupRows {
		if strings.EqualFold(g.Name, name) {
			cp := g
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *FakeData) GroupMembers(_ context.Context, groupName string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GroupMembers")
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Members[groupName], nil
}

func (f *FakeData) GroupLessons(_ context.Context, groupID string) ([]Lesson, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("GroupLessons")
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Lessons[groupID], nil
}

func (f *FakeData) Students(context.Context) ([]StudentProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("Students")
	if f.Err != nil {
		return nil, f.Err
	}
	out := make([]StudentProfile, len(f.StudentRows))
	copy(out, f.StudentRows)
	return out, nil
}

func (f *FakeData) UsernamesByRole(_ context.Context, role string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("UsernamesByRole/" + role)
	if f.Err != nil {
		return nil, f.Err
	}
	return f.Usernames[role], nil
}

func (f *FakeData) EmailExists(_ context.Context, email string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count("EmailExists")
	if f.Err != nil {
		return false, f.Err
	}
	for _, e := range f.Emails {
		if strings.EqualFold(e, email) {
			return true, nil
		}
	}
	return false, nil
}

//
// FakeStorage
//

var _ StorageAPI = (*FakeStorage)(nil)

// FakeStorage keeps uploaded blobs in a map.
type FakeStorage struct {
	mu      sync.Mutex
	Objects map[string][]byte
	Err     error
}

func NewFakeStorage() *FakeStorage {
	return &FakeStorage{Objects: make(map[string][]byte)}
}

func (f *FakeStorage) Upload(_ context.Context, name, _ string, content io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	raw, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	f.Objects[name] = raw
	return fmt.Sprintf("https://storage.local/%s", name), nil
}
