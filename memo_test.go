package reactive_test

import (
	"testing"

	"github.com/b97tsk/reactive"
	"github.com/stretchr/testify/require"
)

func TestMemoUnwatched(t *testing.T) {
	var ex reactive.Executor

	s := reactive.NewCell(1)
	calls := 0

	m := reactive.NewMemo(&ex, "double", func(tk *reactive.Task, c *reactive.Cell[int]) {
		calls++
		tk.Watch(s)
		c.Write(s.Peek() * 2)
	})

	require.Equal(t, 2, m.Get())
	require.Equal(t, 2, m.Get())
	require.Equal(t, 1, calls)

	// With no watcher, a dependency change makes the memo go stale
	// instead of recomputing.
	ex.Spawn("mutate", reactive.Do(func() { s.Write(3) }))
	ex.Run()
	require.Equal(t, 1, calls)

	require.Equal(t, 6, m.Get())
	require.Equal(t, 2, calls)
}

func TestMemoWatched(t *testing.T) {
	var ex reactive.Executor

	s := reactive.NewCell(1)
	calls := 0

	m := reactive.NewMemo(&ex, "double", func(tk *reactive.Task, c *reactive.Cell[int]) {
		calls++
		tk.Watch(s)
		if v := s.Peek() * 2; v != c.Peek() {
			c.Write(v)
		}
	})

	var got []int
	ex.Spawn("w", func(tk *reactive.Task) reactive.Result {
		got = append(got, m.Get())
		return tk.Await(m)
	})

	ex.Run()
	require.Equal(t, []int{2}, got)
	require.Equal(t, 1, calls)

	ex.Spawn("mutate", reactive.Do(func() { s.Write(3) }))
	ex.Run()
	require.Equal(t, []int{2, 6}, got)
	require.Equal(t, 2, calls)

	// Recomputation that produces the same value does not propagate.
	ex.Spawn("mutate", reactive.Do(func() { s.Write(3) }))
	ex.Run()
	require.Equal(t, []int{2, 6}, got)
	require.Equal(t, 3, calls)
}

func TestStrictMemo(t *testing.T) {
	var ex reactive.Executor

	s := reactive.NewCell(1)
	calls := 0

	m := reactive.NewStrictMemo(&ex, "strict", func(tk *reactive.Task, c *reactive.Cell[int]) {
		calls++
		tk.Watch(s)
		c.Write(s.Peek() * 2)
	})

	var gate reactive.Signal
	armed := false
	ex.Spawn("w", func(tk *reactive.Task) reactive.Result {
		if armed {
			// Second run: stop watching the memo.
			return tk.Await(&gate)
		}
		armed = true
		_ = m.Get()
		return tk.Await(m, &gate)
	})

	ex.Run()
	require.Equal(t, 1, calls)

	// Unwatching a strict memo makes it stale immediately; the next Get
	// recomputes even though nothing changed.
	ex.Spawn("notify", reactive.Do(gate.Notify))
	ex.Run()

	require.Equal(t, 2, m.Get())
	require.Equal(t, 2, calls)
}
