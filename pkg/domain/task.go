package domain

// TaskKind separates real work from structural markers.
type TaskKind int

const (
	// TaskRegular is an ordinary task: it may notify handlers when changed.
	TaskRegular TaskKind = iota

	// TaskFlushHandlers is the `meta: flush_handlers` marker. It does no
	// work and gets no graph node; it only forces a flush where it stands.
	TaskFlushHandlers
)

// Task is one entry of a play block. Tasks are immutable once loaded; the
// runtime never writes to them.
type Task struct {
	Name string
	Kind TaskKind

	// Changed is the statically-known changed predicate: whether running
	// the task would report a change and therefore fire its notifications.
	Changed bool

	// Notify lists handler names or listen topics, in declaration order.
	Notify []string

	// When is a display-only condition annotation, e.g. "[when: x > 1]".
	When string

	// Role names the role the task was flattened out of, empty for tasks
	// declared directly in the play.
	Role string
}

// IsFlush reports whether the task is a flush_handlers marker.
func (t *Task) IsFlush() bool {
	return t.Kind == TaskFlushHandlers
}

// Handler is a task that only runs when notified. It is addressable by its
// name and by every topic it listens on.
type Handler struct {
	Task

	// Listen subscribes the handler to extra topics beyond its name.
	Listen []string
}

// ListensTo reports whether the handler subscribes to the topic.
func (h *Handler) ListensTo(topic string) bool {
	for _, t := range h.Listen {
		if t == topic {
			return true
		}
	}
	return false
}
