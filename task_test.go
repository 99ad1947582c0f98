package reactive_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/b97tsk/reactive"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestTaskPauseResume(t *testing.T) {
	var ex reactive.Executor

	var sig reactive.Signal
	runs := 0

	tk := ex.Spawn("t", func(t *reactive.Task) reactive.Result {
		runs++
		return t.Await(&sig)
	})

	ex.Run()
	require.Equal(t, 1, runs)

	tk.Pause()

	ex.Spawn("notify", reactive.Do(sig.Notify))
	ex.Run()
	require.Equal(t, 1, runs) // absorbed while paused

	tk.Resume()
	ex.Run()
	require.Equal(t, 2, runs) // the absorbed notification is acted on

	tk.Resume() // not paused: no-op
	ex.Run()
	require.Equal(t, 2, runs)

	tk.Cancel()
	require.True(t, tk.Ended())

	ex.Spawn("notify", reactive.Do(sig.Notify))
	ex.Run()
	require.Equal(t, 2, runs)

	// All controls are safe on an ended task.
	tk.Cancel()
	tk.Pause()
	tk.Resume()
	require.True(t, tk.Ended())
}

func TestTaskPausedBeforeNotify(t *testing.T) {
	var ex reactive.Executor

	var sig reactive.Signal
	runs := 0

	tk := ex.Spawn("t", func(t *reactive.Task) reactive.Result {
		runs++
		return t.Await(&sig)
	})

	ex.Run()

	// Pause with no pending notification: resume alone must not run it.
	tk.Pause()
	tk.Resume()
	ex.Run()
	require.Equal(t, 1, runs)
}

func TestChain(t *testing.T) {
	var ex reactive.Executor

	var sig reactive.Signal
	var log []string

	tk := ex.Spawn("chain", reactive.Chain(
		reactive.Do(func() { log = append(log, "one") }),
		reactive.Await(&sig),
		reactive.Do(func() { log = append(log, "two") }),
	))

	ex.Run()
	assert.Equal(t, []string{"one"}, log)
	assert.False(t, tk.Ended())

	ex.Spawn("notify", reactive.Do(sig.Notify))
	ex.Run()
	assert.Equal(t, []string{"one", "two"}, log)
	assert.True(t, tk.Ended())
}

func TestTaskDeferAndSpawn(t *testing.T) {
	var ex reactive.Executor

	var outerSig, innerSig reactive.Signal
	innerRuns := 0
	cleanups := 0

	ex.Spawn("outer", func(t *reactive.Task) reactive.Result {
		t.Defer(func() { cleanups++ })
		t.Spawn("inner", func(t *reactive.Task) reactive.Result {
			innerRuns++
			return t.Await(&innerSig)
		})
		return t.Await(&outerSig)
	})

	ex.Run()
	require.Equal(t, 1, innerRuns)
	require.Equal(t, 0, cleanups)

	ex.Spawn("notify", reactive.Do(innerSig.Notify))
	ex.Run()
	require.Equal(t, 2, innerRuns)

	// Resuming the outer task runs its deferred function and ends the
	// inner task before the operation re-runs and spawns a fresh one.
	ex.Spawn("notify", reactive.Do(outerSig.Notify))
	ex.Run()
	require.Equal(t, 3, innerRuns)
	require.Equal(t, 1, cleanups)

	// Only the fresh inner task is still watching.
	ex.Spawn("notify", reactive.Do(innerSig.Notify))
	ex.Run()
	require.Equal(t, 4, innerRuns)
}

func TestWaitGroup(t *testing.T) {
	var ex reactive.Executor

	var wg reactive.WaitGroup
	wg.Add(2)

	done := false
	ex.Spawn("wait", reactive.Await(&wg).Then(reactive.Do(func() { done = true })))

	ex.Run()
	require.False(t, done)

	ex.Spawn("d", reactive.Do(wg.Done))
	ex.Run()
	require.False(t, done)

	ex.Spawn("d", reactive.Do(wg.Done))
	ex.Run()
	require.True(t, done)
}

func TestExecutorPanic(t *testing.T) {
	var ex reactive.Executor

	boom := errors.New("boom")
	ran := false

	ex.Spawn("a", reactive.Do(func() { panic(boom) }))
	ex.Spawn("b", reactive.Do(func() { ran = true }))

	err := func() (err error) {
		defer func() {
			e, ok := recover().(error)
			require.True(t, ok)
			err = e
		}()
		ex.Run()
		return nil
	}()

	// The panicking task ends; the rest of the queue still drains.
	require.True(t, ran)
	require.ErrorIs(t, err, boom)
	require.Contains(t, err.Error(), "boom")
}

func TestSpawnConcurrent(t *testing.T) {
	var wg sync.WaitGroup

	var ex reactive.Executor
	ex.Autorun(func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ex.Run()
		}()
	})

	n := reactive.NewCell(0)

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			ex.Spawn("inc", reactive.Do(func() {
				n.Update(func(v int) int { return v + 1 })
			}))
			return nil
		})
	}

	require.NoError(t, g.Wait())
	wg.Wait()

	require.Equal(t, 8, n.Peek())
}
