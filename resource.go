package reactive

import "path"

// ResourceState describes the lifecycle of the current run of a
// [Resource].
type ResourceState int

const (
	// Pending: a run is outstanding and has not produced a value yet.
	Pending ResourceState = iota
	// Paused: polling of the current run is suspended by request.
	Paused
	// Stopped: the current run has been forcefully cancelled.
	Stopped
	// Ready: a run completed and its value is available.
	Ready
)

func (s ResourceState) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Paused:
		return "Paused"
	case Stopped:
		return "Stopped"
	case Ready:
		return "Ready"
	default:
		return "Unknown"
	}
}

// A Future is one step of an asynchronous computation. A [Resource] calls
// it once per poll: returning (v, true) completes the computation with v;
// returning (_, false) means still pending, in which case the Future must
// have watched at least one [Event] through t in order to be polled
// again.
//
// Tracked reads a Future performs while being polled are recorded by the
// owning Resource and cause a full restart, with a fresh Future, when the
// cells change. Events watched through t, by contrast, only resume the
// same run for its next poll.
type Future[T any] func(t *Task) (T, bool)

type completion[T any] struct {
	value T
	ok    bool
}

// A Resource runs a [Future] obtained from a factory and re-runs it,
// from scratch, whenever a cell read during its latest poll changes.
// It publishes the latest completed value and a [ResourceState], and
// exposes the current run's [Task] together with restart/cancel/pause/
// resume controls.
//
// A Resource and everything it supervises belong to one [Executor].
type Resource[T any] struct {
	executor *Executor
	path     string
	factory  func() Future[T]
	scope    *Scope
	value    *Cell[completion[T]]
	state    *Cell[ResourceState]
	watch    Task
	task     *Task
}

// NewResource creates a [Resource] that supervises the computations
// produced by factory, arms the restart watcher, spawns the first run,
// and returns the handle. Everything is constructed exactly once here;
// the handle, the watcher and the slots share state and outlive
// individual runs.
//
// The watcher runs once, inline, before the first run is spawned: it
// must be listening to the scope by the time any run can track a cell,
// or a wake in between would go nowhere.
//
// The factory must produce a fresh, independent [Future] on every call;
// it is invoked once per run and never resumed from a previous run's
// point.
func NewResource[T any](e *Executor, p string, factory func() Future[T]) *Resource[T] {
	r := &Resource[T]{
		executor: e,
		path:     path.Clean(p),
		factory:  factory,
		scope:    new(Scope),
		value:    NewCell(completion[T]{}),
		state:    NewCell(Pending),
	}

	armed := false
	r.watch.init(e, path.Join(r.path, "watch"), func(t *Task) Result {
		if armed {
			r.task.Cancel()
			r.task = r.spawn()
		}
		armed = true
		return t.Await(r.scope)
	})
	r.watch.run()

	r.task = r.spawn()

	return r
}

// spawn starts one run: the factory is invoked inside the scope, and
// every poll of the resulting future re-enters the scope, so the recorded
// dependencies always reflect the latest poll's reads. Completion writes
// the value slot once and flips state to Ready; a run cancelled before
// completing writes neither.
func (r *Resource[T]) spawn() *Task {
	var fut Future[T]
	r.scope.Enter(func() { fut = r.factory() })

	return r.executor.Spawn(path.Join(r.path, "run"), func(t *Task) Result {
		var v T
		var done bool
		r.scope.Enter(func() { v, done = fut(t) })

		if !done {
			return t.Await()
		}

		r.state.Write(Ready)
		r.value.Write(completion[T]{v, true})
		return t.End()
	})
}

// Restart cancels the current run and spawns a new one with a fresh
// [Future] and fresh dependencies.
//
// Restart does not reset the state or the value: a resource that was
// Ready keeps reporting Ready with the previous value until the new run
// completes and overwrites both. Consumers rely on this to keep showing
// the old value during a reload instead of flickering through an empty
// one.
func (r *Resource[T]) Restart() {
	r.task.Cancel()
	r.task = r.spawn()
}

// Cancel forcefully stops the current run. The run never writes the
// value slot; the state becomes Stopped.
func (r *Resource[T]) Cancel() {
	r.state.Write(Stopped)
	r.task.Cancel()
}

// Pause suspends polling of the current run.
func (r *Resource[T]) Pause() {
	r.state.Write(Paused)
	r.task.Pause()
}

// Resume resumes a paused run. Resume is a no-op when r is finished.
func (r *Resource[T]) Resume() {
	if r.Finished() {
		return
	}

	r.state.Write(Pending)
	r.task.Resume()
}

// Task returns the handle of the current run.
//
// Controlling the run through this handle instead of the Resource's own
// methods may desynchronize the Resource's bookkeeping; it is exposed for
// inspection.
func (r *Resource[T]) Task() *Task {
	return r.task
}

// Finished reports whether the current run is Ready or Stopped.
//
// Reading this records nothing: checking for completion should not
// itself create a dependency.
func (r *Resource[T]) Finished() bool {
	s := r.state.Peek()
	return s == Ready || s == Stopped
}

// State retrieves the state of the current run as a tracked read.
func (r *Resource[T]) State() ResourceState {
	return r.state.Read()
}

// Value retrieves the value produced by the most recently completed run
// as a tracked read. The second return value reports whether any run has
// completed yet. The value is retained across restarts and cancellations
// until the next completion overwrites it.
func (r *Resource[T]) Value() (T, bool) {
	c := r.value.Read()
	return c.value, c.ok
}

// Resource implements [Event]: a watching [Task] resumes when the value
// slot changes.
func (r *Resource[T]) addListener(t *Task)    { r.value.addListener(t) }
func (r *Resource[T]) removeListener(t *Task) { r.value.removeListener(t) }
