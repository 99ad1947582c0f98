package reactive

import (
	"slices"
	"sort"
)

// A taskqueue keeps runnable Tasks sorted by path, FIFO within a path.
type taskqueue struct {
	items []*Task
}

func (q *taskqueue) Empty() bool {
	return len(q.items) == 0
}

func (q *taskqueue) Push(t *Task) {
	i := sort.Search(len(q.items), func(i int) bool { return t.less(q.items[i]) })
	q.items = slices.Insert(q.items, i, t)
}

func (q *taskqueue) Pop() *Task {
	t := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return t
}
