package domain

// BlockName identifies a task-bearing block of a play. Block boundaries are
// the implicit flush points of the scheduler, so they are explicit values
// rather than something inferred from control-flow position.
type BlockName string

const (
	BlockPreTasks  BlockName = "pre_tasks"
	BlockTasks     BlockName = "tasks"
	BlockPostTasks BlockName = "post_tasks"
)

// Play is one play of a playbook: three ordered task-bearing blocks plus the
// declaration-ordered handler list. Role tasks are already flattened into
// Tasks by the loader (tagged with their Role), and role handlers are already
// appended after the play's own handlers.
//
// The handler declaration order is load-bearing: it is the only thing that
// determines execution order when several handlers are triggered together.
type Play struct {
	// ID identifies the play. Assigned once at load/build time; the graph
	// builder keys nodes by it.
	ID string

	// Name is the display name of the play.
	Name string

	// Hosts is the host pattern of the play. Display only.
	Hosts string

	PreTasks  []Task
	Tasks     []Task
	PostTasks []Task

	// Handlers in declaration order: the play's own handlers first, then
	// handlers pulled in from roles in inclusion order.
	Handlers []Handler
}

// Block returns the tasks of the named block. Unknown names return nil.
func (p *Play) Block(name BlockName) []Task {
	switch name {
	case BlockPreTasks:
		return p.PreTasks
	case BlockTasks:
		return p.Tasks
	case BlockPostTasks:
		return p.PostTasks
	}
	return nil
}

// Playbook is an ordered collection of plays loaded from one playbook file.
type Playbook struct {
	// Name is the playbook display name, usually the file path unless the
	// caller overrides it.
	Name string

	Plays []*Play
}
