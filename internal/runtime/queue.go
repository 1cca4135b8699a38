package runtime

import "github.com/aretw0/playgraph/pkg/domain"

// Notifier records who enqueued a notification: a walked task or a handler
// fired in an earlier window. The graph builder turns these into notify and
// chained-notify edges.
type Notifier struct {
	Name string
	Kind domain.NodeKind // NodeTask or NodeHandler
}

// Notification is one pending entry of the current unflushed window: the
// notified name plus everyone who notified it since the last flush.
type Notification struct {
	Name      string
	Notifiers []Notifier
}

// Queue is the per-play notification queue. Within one unflushed window a
// name is held at most once, at the position of its first enqueue; the set of
// handlers it resolves to is recomputed at flush time, never stored here.
type Queue struct {
	entries []Notification
	index   map[string]int
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{index: make(map[string]int)}
}

// Enqueue appends name to the current window. Re-enqueueing a pending name is
// positionally a no-op, but the notifier is still recorded so the graph can
// attribute the firing to every task that notified it.
func (q *Queue) Enqueue(name string, by Notifier) {
	if i, ok := q.index[name]; ok {
		for _, n := range q.entries[i].Notifiers {
			if n == by {
				return
			}
		}
		q.entries[i].Notifiers = append(q.entries[i].Notifiers, by)
		return
	}
	q.index[name] = len(q.entries)
	q.entries = append(q.entries, Notification{Name: name, Notifiers: []Notifier{by}})
}

// Drain returns the whole current window in insertion order and clears the
// queue. There is no partial drain: a flush always consumes everything, and
// enqueues made while the drained window is being processed land in the next
// window.
func (q *Queue) Drain() []Notification {
	window := q.entries
	q.entries = nil
	q.index = make(map[string]int)
	return window
}

// Len returns the number of pending notifications in the current window.
func (q *Queue) Len() int {
	return len(q.entries)
}
