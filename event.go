package reactive

// Event is the interface of any type that can be watched by a [Task].
//
// The following types implement Event: [Signal], [Cell], [Scope], [Memo],
// [WaitGroup] and [Resource]. Any type that embeds [Signal] also
// implements Event.
type Event interface {
	addListener(t *Task)
	removeListener(t *Task)
}

// Signal is the basic [Event]: calling its Notify method resumes every
// [Task] that is watching it.
//
// A Signal must not be shared by more than one [Executor].
type Signal struct {
	listeners map[*Task]struct{}
}

func (s *Signal) addListener(t *Task) {
	listeners := s.listeners
	if listeners == nil {
		listeners = make(map[*Task]struct{})
		s.listeners = listeners
	}
	listeners[t] = struct{}{}
}

func (s *Signal) removeListener(t *Task) {
	delete(s.listeners, t)
}

// Notify resumes any [Task] that is watching s.
//
// Notifications coalesce: a task that has been resumed but has not run
// yet absorbs further notifications. Watchers must not assume the number
// of times they run equals the number of notifications.
//
// One should only call this method in an [Operation] function.
func (s *Signal) Notify() {
	for t := range s.listeners {
		t.wake()
	}
}

// A WaitGroup is a [Signal] with a counter. When the counter becomes
// zero, every [Task] watching the WaitGroup resumes.
//
// A WaitGroup must not be shared by more than one [Executor].
type WaitGroup struct {
	Signal
	n int
}

// Add adds delta, which may be negative, to the counter. If the counter
// becomes zero, Add resumes any [Task] that is watching wg. If the
// counter goes negative, Add panics.
//
// One should only call this method in an [Operation] function.
func (wg *WaitGroup) Add(delta int) {
	wg.n += delta
	if wg.n < 0 {
		panic("reactive(WaitGroup): negative counter")
	}
	if wg.n == 0 && delta != 0 {
		wg.Notify()
	}
}

// Done decrements the counter by one.
func (wg *WaitGroup) Done() {
	wg.Add(-1)
}
