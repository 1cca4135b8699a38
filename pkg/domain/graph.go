package domain

// NodeKind tags a graph node with what it represents.
type NodeKind string

const (
	NodePlay    NodeKind = "play"
	NodeTask    NodeKind = "task"
	NodeHandler NodeKind = "handler"
)

// EdgeKind tags a graph edge with why it exists.
type EdgeKind string

const (
	// EdgeSequence links consecutive nodes executed in the same block
	// (declaration order), and the play to the first node of each block.
	EdgeSequence EdgeKind = "sequence"

	// EdgeNotify links a notifying task to a handler it caused to fire.
	EdgeNotify EdgeKind = "notify"

	// EdgeChainedNotify links a fired handler to another handler it
	// notified in turn.
	EdgeChainedNotify EdgeKind = "chained-notify"
)

// Node is one vertex of the rendered graph.
type Node struct {
	ID    string   `json:"id"`
	Kind  NodeKind `json:"kind"`
	Label string   `json:"label"`

	// Role names the role the node came from, when any. Renderers use it to
	// group or hide role internals.
	Role string `json:"role,omitempty"`
}

// Edge is one directed edge of the rendered graph. Label carries the
// notification name for notify and chained-notify edges, and the block name
// for play-to-block sequence edges.
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
	Label  string   `json:"label,omitempty"`
}

// Graph is the fragment built for one play: a set of nodes and directed
// edges, free of duplicates. It is created fresh per play and never shared.
type Graph struct {
	// PlayID is the ID of the play this fragment belongs to.
	PlayID string `json:"play_id"`

	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodesOfKind returns the nodes of the given kind, in insertion order.
func (g *Graph) NodesOfKind(kind NodeKind) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// EdgesOfKind returns the edges of the given kind, in insertion order.
func (g *Graph) EdgesOfKind(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}
