// Package reactive runs asynchronous computations under reactive
// supervision: a computation is re-run automatically whenever the reactive
// cells it read during its latest run change.
//
// The package has three layers.
//
// # The Cooperative Layer
//
// An [Executor] is a single-threaded cooperative runner of [Task] values.
// A Task is created with an [Operation] function and re-runs the whole
// function whenever any [Event] it watches notifies. Dependencies are
// re-declared on every run; events not watched again are dropped.
// Tasks suspend only between runs, so everything an executor runs shares
// one logical thread of control and no locks are needed around the values
// tasks touch.
//
// A Task is also a handle: it can be cancelled, paused and resumed from
// outside. All three are best-effort and safe on a task that has already
// ended.
//
// # The Reactive Layer
//
// A [Cell] is a storage location whose reads can be tracked and whose
// writes notify. A [Scope], entered around a function, records every
// tracked read the function performs and notifies, as an [Event], after
// any recorded cell is later written. Each entry rebuilds the recorded
// set from scratch, so a watcher always wakes for what the latest entry
// actually read.
//
// # Resources
//
// A [Resource] ties the two layers together. It polls a user-supplied
// [Future] step by step inside a Scope, publishes the completed value and
// a [ResourceState], and keeps a watcher task that cancels the current
// run and starts a fresh one whenever a cell read by the latest poll
// changes. The Resource handle exposes the latest value, the state, the
// current task, and restart/cancel/pause/resume controls.
//
// # Single-Writer Discipline
//
// Cells, scopes, signals and resources must not be shared by more than
// one Executor. Reads and writes belong on that executor's logical
// stream; the usual way to mutate a cell from outside is to spawn a small
// task that does it. Spawning is the only operation that is safe for
// concurrent use.
//
// # Panics
//
// A panic in an Operation ends its task. The executor collects the panic
// value together with a stack trace and rethrows when [Executor.Run]
// returns, wrapped in an error value that unwraps to every error-typed
// panic collected during the drain.
package reactive
