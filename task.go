package reactive

import "path"

const (
	doEnd = iota
	doYield
	doSwitch
)

const (
	flagStale = 1 << iota
	flagWoken
	flagPaused
	flagEnded
	flagRecyclable
	flagRecycled
)

// A Task is an execution of code, similar to a goroutine but cooperative
// and stackless.
//
// A Task is created with a function called [Operation]. When an
// [Executor] spawns a Task, it runs the Task by calling the Operation
// function with the Task as the argument. The returned [Result]
// determines whether the Task ends or yields so that it can resume later.
//
// In order to resume, a Task must watch at least one [Event] when its
// Operation function is called. A notification of such an Event resumes
// the Task, and the Executor runs the Operation function again. Watches
// do not accumulate across runs: an Event that is not watched again on
// the latest run is dropped afterwards.
//
// A Task is also a handle. [Task.Cancel], [Task.Pause] and [Task.Resume]
// control it from outside its own Operation; all three are idempotent and
// safe to call on a Task that has already ended.
type Task struct {
	executor *Executor
	path     string
	op       Operation
	flag     uint8
	deps     map[Event]bool
	inners   []taskOrFunc
	outer    *Task
}

type taskOrFunc struct {
	t *Task
	f func()
}

func (e *Executor) newTask() *Task {
	if t := e.pool.Get(); t != nil {
		return t.(*Task)
	}
	return new(Task)
}

func (e *Executor) freeTask(t *Task) {
	if t.flag&(flagRecyclable|flagRecycled) == flagRecyclable {
		t.executor = nil
		t.op = nil
		t.flag |= flagRecycled
		t.outer = nil
		e.pool.Put(t)
	}
}

func (t *Task) init(e *Executor, p string, op Operation) *Task {
	t.executor = e
	t.path = p
	t.op = op
	t.flag = flagStale
	return t
}

func (t *Task) recyclable() *Task {
	t.flag |= flagRecyclable
	return t
}

func (t *Task) less(other *Task) bool {
	return t.path < other.path
}

func (t *Task) wake() {
	flag := t.flag
	if flag&flagEnded != 0 {
		return
	}

	if flag&(flagWoken|flagPaused) != 0 {
		t.flag = flag | flagStale
		return
	}

	t.flag = flag | flagStale | flagWoken
	t.executor.resumeTask(t)
}

func (e *Executor) runTask(t *Task) {
	flag := t.flag
	flag &^= flagWoken
	t.flag = flag

	if flag&flagEnded != 0 {
		e.freeTask(t)
		return
	}

	if flag&(flagStale|flagPaused) != flagStale {
		return
	}

	e.mu.Unlock()
	if !e.pc.TryCatch(t.run) {
		t.end()
	}
	e.mu.Lock()
}

func (t *Task) run() {
	{
		deps := t.deps
		for d := range deps {
			deps[d] = false
		}
	}

	var res Result

	for {
		t.clearInners()

		t.flag &^= flagStale | flagEnded // Clear flagEnded for Memo.

		res = t.op(t)

		if res.op != nil {
			t.op = res.op
		}

		if res.action != doSwitch {
			break
		}

		t.clearDeps()
	}

	if res.action != doEnd {
		deps := t.deps
		for d, inUse := range deps {
			if !inUse {
				delete(deps, d)
				d.removeListener(t)
			}
		}
	}

	if res.action == doEnd || len(t.deps) == 0 && len(t.inners) == 0 {
		t.end()
	}
}

func (t *Task) end() {
	if t.flag&flagEnded != 0 {
		return
	}

	t.flag |= flagEnded

	t.clearDeps()
	t.clearInners()

	if t.flag&flagWoken == 0 {
		t.executor.freeTask(t)
	}
}

func (t *Task) clearDeps() {
	deps := t.deps
	for d := range deps {
		delete(deps, d)
		d.removeListener(t)
	}
}

func (t *Task) clearInners() {
	inners := t.inners
	t.inners = inners[:0]

	for i := len(inners) - 1; i >= 0; i-- {
		switch v := inners[i]; {
		case v.t != nil:
			// v.t could have been ended and recycled.
			// The following check confirms that v.t is still an inner task of t.
			if v.t.outer == t {
				v.t.end()
			}
		case v.f != nil:
			v.f()
		}
	}

	clear(inners)
}

// Cancel ends t: t stops watching events, will not run again, and never
// produces further effects. Cancel is best-effort from the caller's point
// of view and a no-op on a Task that has already ended.
func (t *Task) Cancel() {
	t.end()
}

// Pause suspends t. Notifications received while paused only mark t as
// having work to do; t is not run until [Task.Resume] is called.
// Pause is a no-op on a Task that has already ended.
func (t *Task) Pause() {
	if t.flag&flagEnded == 0 {
		t.flag |= flagPaused
	}
}

// Resume undoes [Task.Pause]. If a notification arrived while t was
// paused, t runs again as soon as its executor gets to it. Resume is a
// no-op on a Task that is not paused or has already ended.
func (t *Task) Resume() {
	flag := t.flag
	if flag&(flagEnded|flagPaused) != flagPaused {
		return
	}

	flag &^= flagPaused

	if flag&flagStale != 0 && flag&flagWoken == 0 {
		t.flag = flag | flagWoken
		t.executor.resumeTask(t)
		return
	}

	t.flag = flag
}

// Ended reports whether t has ended.
func (t *Task) Ended() bool {
	return t.flag&flagEnded != 0
}

// Executor returns the [Executor] that spawned t.
func (t *Task) Executor() *Executor {
	return t.executor
}

// Path returns the path of t.
func (t *Task) Path() string {
	return t.path
}

// Watch watches some Events so that, when any of them notifies, t resumes.
func (t *Task) Watch(s ...Event) {
	deps := t.deps
	if deps == nil {
		deps = make(map[Event]bool)
		t.deps = deps
	}

	for _, d := range s {
		if _, ok := deps[d]; ok {
			deps[d] = true
			continue
		}

		deps[d] = true
		d.addListener(t)
	}
}

// Defer adds a function call when t resumes or ends, or when t is
// switching to work on another [Operation].
func (t *Task) Defer(f func()) {
	t.inners = append(t.inners, taskOrFunc{f: f})
}

// Spawn creates an inner [Task] to work on op, using the result of
// path.Join(t.Path(), p) as its path.
//
// Inner Tasks are ended automatically when the outer one resumes or ends,
// or when the outer one is switching to work on another Operation.
func (t *Task) Spawn(p string, op Operation) {
	inner := t.executor.newTask().init(t.executor, path.Join(t.path, p), op).recyclable()
	inner.run()

	if inner.flag&flagEnded == 0 {
		inner.outer = t
		t.inners = append(t.inners, taskOrFunc{t: inner})
	}
}

// Result is the type of the return value of an [Operation] function.
// A Result determines what next for a [Task] to do after calling an
// Operation function.
//
// A Result can be created by calling one of the following methods of Task:
//   - [Task.End]: for ending a Task;
//   - [Task.Await]: for yielding a Task with additional Events to watch;
//   - [Task.Yield]: for yielding a Task with another Operation to which
//     will be switched later when resuming;
//   - [Task.Switch]: for switching to another Operation immediately.
type Result struct {
	action int
	op     Operation
}

// End returns a [Result] that will cause t to end, or to switch to the
// next [Operation] in a [Chain].
func (t *Task) End() Result {
	return Result{action: doEnd}
}

// Await returns a [Result] that will cause t to yield.
// Await also accepts additional Events to be awaited for.
func (t *Task) Await(s ...Event) Result {
	if len(s) != 0 {
		t.Watch(s...)
	}
	return Result{action: doYield}
}

// Yield returns a [Result] that will cause t to yield.
// op becomes the current Operation of t so that, when t is resumed, op is
// called instead.
func (t *Task) Yield(op Operation) Result {
	if op == nil {
		panic("reactive: Yield(nil): undefined behavior")
	}
	return Result{action: doYield, op: op}
}

// Switch returns a [Result] that will cause t to switch to work on op.
// t is reset and op is called immediately as the current Operation of t.
func (t *Task) Switch(op Operation) Result {
	if op == nil {
		panic("reactive: Switch(nil): undefined behavior")
	}
	return Result{action: doSwitch, op: op}
}

// An Operation is a piece of work that a [Task] is given to do when it is
// spawned. The return value of an Operation, a [Result], determines what
// next for a Task to do.
type Operation func(t *Task) Result

// Then returns an [Operation] that first works on op, then switches to
// work on next after op completes.
//
// To chain more than two Operations, use the [Chain] function.
func (op Operation) Then(next Operation) Operation {
	if next == nil {
		panic("reactive: Then(nil): undefined behavior")
	}
	return func(t *Task) Result {
		switch res := op(t); res.action {
		case doEnd:
			return Result{action: doSwitch, op: next}
		case doYield, doSwitch:
			if res.op != nil {
				op = res.op
			}
			return Result{action: res.action}
		default:
			panic("reactive: internal error: unknown action")
		}
	}
}

// Chain returns an [Operation] that works on each of the provided
// Operations in sequence. When one Operation completes, Chain works on
// another.
func Chain(s ...Operation) Operation {
	var op Operation
	return func(t *Task) Result {
		if op == nil {
			if len(s) == 0 {
				return t.End()
			}
			op, s = s[0], s[1:]
		}
		switch res := op(t); res.action {
		case doEnd:
			op = nil
			return Result{action: doSwitch}
		case doYield, doSwitch:
			if res.op != nil {
				op = res.op
			}
			return Result{action: res.action}
		default:
			panic("reactive: internal error: unknown action")
		}
	}
}

// Do returns an [Operation] that calls f, and then completes.
func Do(f func()) Operation {
	return func(t *Task) Result {
		f()
		return t.End()
	}
}

// Await returns an [Operation] that completes after any of the given
// Events notifies. With no Events, Await never completes, since nothing
// can resume the Task.
func Await(s ...Event) Operation {
	return func(t *Task) Result {
		t.Watch(s...)
		return t.Yield(Nop())
	}
}

// Never returns an [Operation] that never completes.
// Operations in a [Chain] after Never are never getting worked on.
func Never() Operation {
	return func(t *Task) Result {
		return t.Await()
	}
}

// Nop returns an [Operation] that completes without doing anything.
func Nop() Operation {
	return (*Task).End
}
