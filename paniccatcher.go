package reactive

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"sync/atomic"
)

type paniccatcher struct {
	items  []panicitem
	goexit bool
}

type panicitem struct {
	value any
	stack []byte
}

// TryCatch calls f and reports whether f returned normally.
// A panic raised by f is recorded along with a stack trace; a call of
// runtime.Goexit is recorded as such.
func (pc *paniccatcher) TryCatch(f func()) (ok bool) {
	defer func() {
		if !ok {
			if v := recover(); v != nil {
				pc.items = append(pc.items, panicitem{v, debug.Stack()})
			} else {
				pc.goexit = true
			}
		}
	}()
	f()
	return true
}

// Rethrow panics with everything recorded so far, if anything.
func (pc *paniccatcher) Rethrow() {
	if len(pc.items) != 0 {
		panic(&panicvalue{items: pc.items})
	}
	if pc.goexit {
		runtime.Goexit()
	}
}

type panicvalue struct {
	items []panicitem
	errs  atomic.Pointer[[]error]
}

func (pv *panicvalue) Error() string {
	var b strings.Builder
	b.WriteString("reactive: task panicked:")
	for i, p := range pv.items {
		fmt.Fprintf(&b, "\n(%d/%d) panic: %v\n\n", i+1, len(pv.items), p.value)
		b.Write(p.stack)
	}
	return b.String()
}

func (pv *panicvalue) Unwrap() []error {
	if p := pv.errs.Load(); p != nil {
		return *p
	}
	var errs []error
	for _, p := range pv.items {
		if err, ok := p.value.(error); ok {
			errs = append(errs, err)
		}
	}
	pv.errs.Store(&errs)
	return errs
}
