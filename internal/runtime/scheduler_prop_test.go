package runtime_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/aretw0/playgraph/internal/runtime"
	"github.com/aretw0/playgraph/pkg/domain"
)

// Queue property: draining returns every distinct name exactly once, at the
// position of its first enqueue.
func TestQueue_DrainOrderProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		names := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c", "d", "e"}), 0, 40).Draw(t, "names")

		q := runtime.NewQueue()
		var want []string
		seen := make(map[string]bool)
		for _, n := range names {
			q.Enqueue(n, runtime.Notifier{Name: "t", Kind: domain.NodeTask})
			if !seen[n] {
				seen[n] = true
				want = append(want, n)
			}
		}

		window := q.Drain()
		if len(window) != len(want) {
			t.Fatalf("drained %d entries, want %d", len(window), len(want))
		}
		for i, n := range window {
			if n.Name != want[i] {
				t.Fatalf("position %d: got %q, want %q", i, n.Name, want[i])
			}
		}
		if q.Len() != 0 {
			t.Fatalf("queue not cleared after drain")
		}
	})
}

// Scheduler property: within any flush window, firings follow registry
// declaration order, and no handler fires twice in one window.
func TestScheduler_FiringOrderProperty(t *testing.T) {
	handlerNames := []string{"h0", "h1", "h2", "h3"}
	topics := []string{"h0", "h1", "h2", "h3", "t0", "t1"}

	rapid.Check(t, func(t *rapid.T) {
		play := &domain.Play{ID: "play_prop", Name: "prop"}

		for i, name := range handlerNames {
			h := domain.Handler{Task: domain.Task{Name: name, Changed: true}}
			if rapid.Bool().Draw(t, "listens") {
				h.Listen = []string{topics[4+i%2]}
			}
			play.Handlers = append(play.Handlers, h)
		}

		taskCount := rapid.IntRange(0, 8).Draw(t, "tasks")
		for i := 0; i < taskCount; i++ {
			task := domain.Task{
				Name:    "task" + string(rune('a'+i)),
				Changed: rapid.Bool().Draw(t, "changed"),
				Notify:  rapid.SliceOfN(rapid.SampledFrom(topics), 0, 3).Draw(t, "notify"),
			}
			play.Tasks = append(play.Tasks, task)
		}

		position := make(map[string]int, len(handlerNames))
		for i, n := range handlerNames {
			position[n] = i
		}

		rec := &runtime.Recorder{}
		sched := runtime.NewScheduler(play, runtime.NewRegistry(play))
		if err := sched.Run(rec); err != nil {
			t.Fatalf("run failed: %v", err)
		}

		for _, window := range rec.FiredNames() {
			seen := make(map[string]bool)
			last := -1
			for _, name := range window {
				if seen[name] {
					t.Fatalf("handler %q fired twice in one window", name)
				}
				seen[name] = true
				if position[name] < last {
					t.Fatalf("window %v violates registry order", window)
				}
				last = position[name]
			}
		}

		// Tasks with a false changed-predicate never cause a firing.
		for _, flush := range rec.Flushes {
			for _, firing := range flush.Firings {
				for _, cause := range firing.Causes {
					for _, notifier := range cause.Notifiers {
						if notifier.Kind != domain.NodeTask {
							continue
						}
						for i := range play.Tasks {
							if play.Tasks[i].Name == notifier.Name && !play.Tasks[i].Changed {
								t.Fatalf("unchanged task %q produced a notification", notifier.Name)
							}
						}
					}
				}
			}
		}
	})
}
