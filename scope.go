package reactive

import (
	"slices"
	"sync"

	"github.com/petermattis/goid"
)

// observable is the scope-facing side of a [Cell].
type observable interface {
	attach(s *Scope)
	detach(s *Scope)
}

// A Scope is a read-tracking context with a wake stream.
//
// Entering a scope around a function records every tracked [Cell.Read]
// the function performs, directly or through nested synchronous calls, as
// a dependency of the scope. After any recorded cell is later written,
// the scope notifies: a [Task] watching the scope resumes at least once.
// Notifications coalesce; their count carries no meaning.
//
// Each entry rebuilds the recorded set from scratch. An asynchronous
// computation polled step by step may read different cells on different
// steps, and a watcher should wake for the cells the latest step actually
// read, not for every cell ever read.
//
// A Scope must not be shared by more than one [Executor].
type Scope struct {
	wake Signal
	deps []observable
}

var activeScopes sync.Map // goroutine id -> *Scope

func activeScope() *Scope {
	if v, ok := activeScopes.Load(goid.Get()); ok {
		return v.(*Scope)
	}
	return nil
}

// Enter runs f with s active on the calling goroutine.
//
// The dependency set of s is cleared first; a cell recorded by a previous
// entry and not read again by f no longer wakes s. Entries nest: when f
// returns, the previously active scope, if any, is active again.
func (s *Scope) Enter(f func()) {
	s.clear()

	gid := goid.Get()
	prev, _ := activeScopes.Load(gid)
	activeScopes.Store(gid, s)
	defer func() {
		if prev != nil {
			activeScopes.Store(gid, prev)
		} else {
			activeScopes.Delete(gid)
		}
	}()

	f()
}

// Untrack runs f with no scope active on the calling goroutine, so that
// tracked reads inside f record nothing.
func Untrack(f func()) {
	gid := goid.Get()
	prev, ok := activeScopes.Load(gid)
	if !ok {
		f()
		return
	}

	activeScopes.Delete(gid)
	defer activeScopes.Store(gid, prev)

	f()
}

func (s *Scope) observe(o observable) {
	if !slices.Contains(s.deps, o) {
		s.deps = append(s.deps, o)
		o.attach(s)
	}
}

func (s *Scope) clear() {
	deps := s.deps
	s.deps = nil

	for _, o := range deps {
		o.detach(s)
	}
}

// Scope implements [Event]: a watching [Task] resumes after any cell
// recorded by the latest entry is written.
func (s *Scope) addListener(t *Task)    { s.wake.addListener(t) }
func (s *Scope) removeListener(t *Task) { s.wake.removeListener(t) }
