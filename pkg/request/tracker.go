// Package request tracks the lifecycle of asynchronous generator calls so
// the UI can show a spinner per goal and refuse duplicate submissions.
package request

import "sync"

// State is where a request is in its lifecycle.
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "idle"
	}
}

// Op names the kind of generator call.
type Op string

const (
	OpPlan      Op = "plan"
	OpBreakdown Op = "breakdown"
	OpRefine    Op = "refine"
	OpAdvice    Op = "advice"
)

// Key identifies one request. GoalID is empty for calls not tied to a goal.
type Key struct {
	Op     Op
	GoalID string
}

type entry struct {
	state State
	err   error
}

// Tracker holds request states. The zero value is ready to use.
type Tracker struct {
	mu      sync.Mutex
	entries map[Key]entry
}

// Begin moves key to Pending. It returns false without changing anything
// when key is already pending.
func (t *Tracker) Begin(key Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entries == nil {
		t.entries = make(map[Key]entry)
	}
	if t.entries[key].state == Pending {
		return false
	}
	t.entries[key] = entry{state: Pending}
	return true
}

// Succeed marks key as finished without error.
func (t *Tracker) Succeed(key Key) {
	t.finish(key, entry{state: Succeeded})
}

// Fail marks key as finished with err.
func (t *Tracker) Fail(key Key, err error) {
	t.finish(key, entry{state: Failed, err: err})
}

func (t *Tracker) finish(key Key, e entry) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.entries == nil {
		t.entries = make(map[Key]entry)
	}
	t.entries[key] = e
}

// State returns the current state of key, Idle if never begun.
func (t *Tracker) State(key Key) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries[key].state
}

// Err returns the error of the last failed attempt for key.
func (t *Tracker) Err(key Key) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.entries[key].err
}

// Pending reports whether any request is in flight.
func (t *Tracker) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, e := range t.entries {
		if e.state == Pending {
			return true
		}
	}
	return false
}

// Reset returns key to Idle.
func (t *Tracker) Reset(key Key) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}
