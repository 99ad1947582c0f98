package reactive

import "path"

// A Memo is a Cell-like structure whose value is computed on demand by an
// internal [Task] and recomputed only when a dependency of the latest
// computation notifies.
//
// The computation function must watch, through the provided Task, every
// [Event] it computes from, and update the provided [Cell] when the
// result differs. What makes a Memo useful are that:
//   - a Memo avoids computing when nothing retrieves its value;
//   - a Memo avoids propagating when its value does not change.
//
// To create a Memo, use [NewMemo] or [NewStrictMemo].
//
// A Memo must not be shared by more than one [Executor].
type Memo[T any] struct {
	cell   Cell[T]
	task   Task
	stale  bool
	strict bool
}

// NewMemo returns a new non-strict [Memo].
//
// When the last watcher of a non-strict Memo unwatches it, the internal
// Task keeps watching the computation's dependencies. The Memo therefore
// still notices dependency changes and can skip a recomputation when a
// new watcher arrives with no changes in between.
func NewMemo[T any](e *Executor, p string, f func(t *Task, c *Cell[T])) *Memo[T] {
	return new(Memo[T]).init(e, p, f, false)
}

// NewStrictMemo returns a new strict [Memo]: whenever the last watcher
// unwatches it, the internal Task ends and the Memo goes stale. The next
// retrieval has to make a fresh computation.
func NewStrictMemo[T any](e *Executor, p string, f func(t *Task, c *Cell[T])) *Memo[T] {
	return new(Memo[T]).init(e, p, f, true)
}

func (m *Memo[T]) init(e *Executor, p string, f func(t *Task, c *Cell[T]), strict bool) *Memo[T] {
	m.task.init(e, path.Clean(p), func(t *Task) Result {
		if !m.stale && len(m.cell.listeners) == 0 {
			m.stale = true
			return t.End()
		}

		if m.stale {
			// Suppress notifications: this computation is on behalf of
			// a fresh retrieval, not a dependency change.
			listeners := m.cell.listeners
			defer func() { m.cell.listeners = listeners }()
			m.cell.listeners = nil
			m.stale = false
		}

		f(t, &m.cell)

		return t.Await()
	})

	m.stale = true
	m.strict = strict

	return m
}

func (m *Memo[T]) addListener(t *Task) {
	m.cell.addListener(t)

	if m.stale {
		m.task.run()
	}
}

func (m *Memo[T]) removeListener(t *Task) {
	m.cell.removeListener(t)

	if len(m.cell.listeners) == 0 && m.strict {
		m.stale = true
		m.task.end()
	}
}

// Get retrieves the value of m, computing it first if m is stale, and
// records the read in the [Scope] active on the calling goroutine, if
// any.
//
// One should only call this method in an [Operation] function.
func (m *Memo[T]) Get() T {
	if m.stale {
		m.task.run()
	}
	return m.cell.Read()
}
