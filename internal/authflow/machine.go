// internal/authflow/machine.go
//
// Maktab – Auth flows: submission state machine.
//
// Context
//   Each form instance owns one Machine.  A submission walks
//
//     idle → pending → success | failed → idle
//
//   and the machine rejects a second Begin while one is pending, so a
//   double-click or an impatient re-POST cannot fire two magic links.
//   Success and failure both return the machine to idle; the terminal state
//   is observable only through the Outcome the flow hands back.
//
//------------------------------------------------------------------------------

package authflow

import (
	"errors"
	"sync"
)

// ErrPending is returned by Begin while a submission is in flight.
var ErrPending = errors.New("authflow: submission already pending")

// Status is the machine's current position.
type Status int

const (
	StatusIdle Status = iota
	StatusPending
)

// Machine serializes submissions for one form instance.
type Machine struct {
	mu     sync.Mutex
	status Status
}

// Begin moves idle → pending.  ErrPending when already pending.
func (m *Machine) Begin() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.status == StatusPending {
		return ErrPending
	}
	m.status = StatusPending
	return nil
}

// Finish returns the machine to idle.  Call exactly once per Begin.
func (m *Machine) Finish() {
	m.mu.Lock()
	m.status = StatusIdle
	m.mu.Unlock()
}

// Status reports the current position.
func (m *Machine) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}
