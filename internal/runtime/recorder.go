package runtime

import "github.com/aretw0/playgraph/pkg/domain"

// WalkedTask is one task observed by the recorder.
type WalkedTask struct {
	Block domain.BlockName
	Task  *domain.Task
}

// Flush is one flush observed by the recorder, with the handlers it fired in
// firing order.
type Flush struct {
	Point   FlushPoint
	Firings []Firing
}

// Recorder is a Visitor that keeps the whole event stream. Tests assert on
// it, and the inspect report renders it.
type Recorder struct {
	Tasks   []WalkedTask
	Flushes []Flush
}

var _ Visitor = (*Recorder)(nil)

func (r *Recorder) OnTask(block domain.BlockName, task *domain.Task) {
	r.Tasks = append(r.Tasks, WalkedTask{Block: block, Task: task})
}

func (r *Recorder) OnFlush(point FlushPoint) {
	r.Flushes = append(r.Flushes, Flush{Point: point})
}

func (r *Recorder) OnHandlerFired(f Firing) {
	last := len(r.Flushes) - 1
	r.Flushes[last].Firings = append(r.Flushes[last].Firings, f)
}

// FiredNames flattens the recorded firings into handler names, flush by flush.
func (r *Recorder) FiredNames() [][]string {
	out := make([][]string, 0, len(r.Flushes))
	for _, f := range r.Flushes {
		names := make([]string, 0, len(f.Firings))
		for _, firing := range f.Firings {
			names = append(names, firing.Handler.Name)
		}
		out = append(out, names)
	}
	return out
}
