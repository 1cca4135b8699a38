package runtime

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/playgraph/internal/logging"
	"github.com/aretw0/playgraph/pkg/domain"
)

// FlushKind says what triggered a flush.
type FlushKind int

const (
	// FlushImplicit is the automatic flush at a block boundary (end of
	// pre_tasks, end of tasks incl. role tasks, end of post_tasks, end of
	// play).
	FlushImplicit FlushKind = iota

	// FlushExplicit is the flush forced by a `meta: flush_handlers` marker.
	FlushExplicit
)

// FlushPoint locates a flush in the walk. Block is the block being walked
// (explicit flush) or the block that just ended (implicit flush); it is empty
// for the final end-of-play flush.
type FlushPoint struct {
	Kind  FlushKind
	Block domain.BlockName
}

// Cause is one drained notification that resolved to a fired handler.
type Cause struct {
	Name      string
	Notifiers []Notifier
}

// Firing is the event emitted when a handler runs at a flush point. A handler
// fires at most once per flush window, even when several drained names
// resolve to it; every such name appears in Causes.
type Firing struct {
	Handler *domain.Handler
	Point   FlushPoint
	Causes  []Cause
}

// Visitor receives the ordered walk of a play: tasks in declaration order,
// flush points, and the handlers each flush fires. The graph builder is the
// main implementation; the recorder (tests, inspect report) is another.
type Visitor interface {
	// OnTask is called for every regular task walked. Flush markers are
	// structural and never reach the visitor.
	OnTask(block domain.BlockName, task *domain.Task)

	// OnFlush is called when a flush drains a non-empty window, before the
	// firings of that window are delivered.
	OnFlush(point FlushPoint)

	// OnHandlerFired is called for each handler fired by the current flush,
	// in registry declaration order.
	OnHandlerFired(firing Firing)
}

// Scheduler walks one play's blocks in declaration order, enqueueing
// notifications from changed tasks and draining them at flush points. It is a
// linear state machine: scanning until a boundary marker or explicit flush
// marker, then flushing, then scanning again with an empty window.
type Scheduler struct {
	play     *domain.Play
	registry *Registry
	logger   *slog.Logger
}

// SchedulerOption configures a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger sets a structured logger for the scheduler.
func WithLogger(logger *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		s.logger = logger
	}
}

// NewScheduler creates a scheduler over the play and its handler registry.
func NewScheduler(play *domain.Play, registry *Registry, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		play:     play,
		registry: registry,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run performs the full walk and delivers every event to v. The play is never
// mutated; running twice over the same play delivers an identical event
// stream. Returns an error only when the play fails its structural
// preconditions.
func (s *Scheduler) Run(v Visitor) error {
	if err := s.play.Validate(); err != nil {
		return fmt.Errorf("play %q: %w", s.play.Name, err)
	}

	queue := NewQueue()

	for _, block := range []domain.BlockName{domain.BlockPreTasks, domain.BlockTasks, domain.BlockPostTasks} {
		s.walkBlock(block, queue, v)
		s.flush(queue, FlushPoint{Kind: FlushImplicit, Block: block}, v)
	}

	// End of play: one last window for whatever the post_tasks flush chained.
	s.flush(queue, FlushPoint{Kind: FlushImplicit}, v)

	// A handler fired by the final flush may have notified again. There is no
	// boundary left to serve that window; the play is over.
	if queue.Len() > 0 {
		s.logger.Debug("notifications chained past the end of the play are dropped",
			"play", s.play.Name, "pending", queue.Len())
	}
	return nil
}

func (s *Scheduler) walkBlock(block domain.BlockName, queue *Queue, v Visitor) {
	tasks := s.play.Block(block)
	for i := range tasks {
		task := &tasks[i]

		switch task.Kind {
		case domain.TaskFlushHandlers:
			s.flush(queue, FlushPoint{Kind: FlushExplicit, Block: block}, v)

		case domain.TaskRegular:
			v.OnTask(block, task)
			if !task.Changed || len(task.Notify) == 0 {
				continue
			}
			for _, target := range task.Notify {
				s.logger.Debug("notification enqueued",
					"play", s.play.Name, "task", task.Name, "target", target)
				queue.Enqueue(target, Notifier{Name: task.Name, Kind: domain.NodeTask})
			}
		}
	}
}

// flush drains the whole current window and fires the resolved handlers in
// registry declaration order — the order handlers were declared in, not the
// order they were notified. Each handler fires at most once per window.
// Notifications made by fired handlers land in the (now empty) queue and wait
// for the next flush point, which bounds chained and even cyclic
// notifications to one firing per boundary.
func (s *Scheduler) flush(queue *Queue, point FlushPoint, v Visitor) {
	window := queue.Drain()
	if len(window) == 0 {
		return
	}
	v.OnFlush(point)

	for _, h := range s.registry.Handlers() {
		var causes []Cause
		for _, n := range window {
			if h.Name == n.Name || h.ListensTo(n.Name) {
				causes = append(causes, Cause{Name: n.Name, Notifiers: n.Notifiers})
			}
		}
		if len(causes) == 0 {
			continue
		}

		s.logger.Debug("handler fired",
			"play", s.play.Name, "handler", h.Name, "block", string(point.Block))
		v.OnHandlerFired(Firing{Handler: h, Point: point, Causes: causes})

		if h.Changed {
			for _, target := range h.Notify {
				queue.Enqueue(target, Notifier{Name: h.Name, Kind: domain.NodeHandler})
			}
		}
	}
}
