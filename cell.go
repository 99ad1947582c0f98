package reactive

import "slices"

// A Cell is a reactive storage location: a [Signal] that carries a value.
//
// Read is a tracked read: when a [Scope] is entered on the calling
// goroutine, it records the cell as a dependency of that scope.
// Peek reads without recording anything. Write stores a new value and
// notifies: every [Task] watching the cell resumes, and every scope that
// read the cell since it last entered wakes.
//
// A Cell must not be shared by more than one [Executor].
type Cell[T any] struct {
	Signal
	value  T
	scopes []*Scope
}

// NewCell creates a new [Cell] with its initial value set to v.
func NewCell[T any](v T) *Cell[T] {
	return &Cell[T]{value: v}
}

// Read retrieves the value of c and records the read in the [Scope]
// active on the calling goroutine, if any.
//
// Without proper synchronization, one should only call this method in
// an [Operation] function.
func (c *Cell[T]) Read() T {
	if s := activeScope(); s != nil {
		s.observe(c)
	}
	return c.value
}

// Peek retrieves the value of c without recording anything.
func (c *Cell[T]) Peek() T {
	return c.value
}

// Write updates the value of c, resumes any [Task] that is watching c,
// and wakes any [Scope] that read c since it last entered.
//
// One should only call this method in an [Operation] function.
func (c *Cell[T]) Write(v T) {
	c.value = v
	c.Notify()

	// Cloning, because a woken scope may re-enter and detach inline
	// when the executor runs tasks from within Notify.
	for _, s := range slices.Clone(c.scopes) {
		s.wake.Notify()
	}
}

// Update sets the value of c to f(c.Peek()) and notifies like Write.
//
// One should only call this method in an [Operation] function.
func (c *Cell[T]) Update(f func(v T) T) {
	c.Write(f(c.value))
}

func (c *Cell[T]) attach(s *Scope) {
	if !slices.Contains(c.scopes, s) {
		c.scopes = append(c.scopes, s)
	}
}

func (c *Cell[T]) detach(s *Scope) {
	if i := slices.Index(c.scopes, s); i != -1 {
		c.scopes = slices.Delete(c.scopes, i, i+1)
	}
}
