package runtime

import (
	"github.com/aretw0/playgraph/pkg/domain"
)

type nodeKey struct {
	kind domain.NodeKind
	name string
}

// GraphBuilder consumes the scheduler's walk and records it as a graph
// fragment: one node per (play, name, kind), sequence edges along each block,
// notify edges from tasks to the handlers they fired, and chained-notify
// edges between handlers. Nodes and edges are never duplicated.
type GraphBuilder struct {
	play  *domain.Play
	graph *domain.Graph

	nodeIDs     map[nodeKey]string
	edgeSeen    map[domain.Edge]struct{}
	lastInBlock map[domain.BlockName]string
	lastFired   string // previous handler node of the current flush batch
	playNodeID  string

	includeRoleTasks bool
	showHandlers     bool
}

// BuilderOption configures a GraphBuilder.
type BuilderOption func(*GraphBuilder)

// WithRoleTasks controls whether tasks flattened out of roles get their own
// nodes. Handlers notified by hidden role tasks still fire; only the node and
// its edges are omitted.
func WithRoleTasks(include bool) BuilderOption {
	return func(b *GraphBuilder) {
		b.includeRoleTasks = include
	}
}

// WithHandlers controls whether handler firings appear in the graph.
func WithHandlers(show bool) BuilderOption {
	return func(b *GraphBuilder) {
		b.showHandlers = show
	}
}

// NewGraphBuilder creates a builder for one play. The play node is created
// eagerly so an empty play still yields a one-node fragment.
func NewGraphBuilder(play *domain.Play, opts ...BuilderOption) *GraphBuilder {
	b := &GraphBuilder{
		play:             play,
		graph:            &domain.Graph{PlayID: play.ID},
		nodeIDs:          make(map[nodeKey]string),
		edgeSeen:         make(map[domain.Edge]struct{}),
		lastInBlock:      make(map[domain.BlockName]string),
		includeRoleTasks: true,
		showHandlers:     true,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.playNodeID = b.ensureNode(domain.NodePlay, play.Name, "")
	return b
}

var _ Visitor = (*GraphBuilder)(nil)

// OnTask adds the task node and chains it to its block: the first node of a
// block hangs off the play node, later ones off their predecessor.
func (b *GraphBuilder) OnTask(block domain.BlockName, task *domain.Task) {
	if task.Role != "" && !b.includeRoleTasks {
		return
	}
	id := b.ensureNode(domain.NodeTask, task.Name, task.Role)

	if prev, ok := b.lastInBlock[block]; ok {
		b.addEdge(prev, id, domain.EdgeSequence, "")
	} else {
		b.addEdge(b.playNodeID, id, domain.EdgeSequence, string(block))
	}
	b.lastInBlock[block] = id
}

// OnFlush starts a fresh handler chain: firings of one flush batch are
// sequenced among themselves, never across batches.
func (b *GraphBuilder) OnFlush(point FlushPoint) {
	b.lastFired = ""
}

// OnHandlerFired adds the handler node, sequences it after the previous
// firing of the same batch, and draws one labeled edge per notifier: notify
// for tasks, chained-notify for handlers.
func (b *GraphBuilder) OnHandlerFired(f Firing) {
	if !b.showHandlers {
		return
	}
	id := b.ensureNode(domain.NodeHandler, f.Handler.Name, f.Handler.Role)

	if b.lastFired != "" {
		b.addEdge(b.lastFired, id, domain.EdgeSequence, "")
	}
	b.lastFired = id

	for _, cause := range f.Causes {
		for _, notifier := range cause.Notifiers {
			switch notifier.Kind {
			case domain.NodeTask:
				// The notifying task may have been hidden with the role
				// tasks; then there is no source node to draw from.
				src, ok := b.nodeIDs[nodeKey{domain.NodeTask, notifier.Name}]
				if !ok {
					continue
				}
				b.addEdge(src, id, domain.EdgeNotify, cause.Name)

			case domain.NodeHandler:
				// A chained notifier fired in an earlier window, so its
				// node already exists.
				src, ok := b.nodeIDs[nodeKey{domain.NodeHandler, notifier.Name}]
				if !ok {
					continue
				}
				b.addEdge(src, id, domain.EdgeChainedNotify, cause.Name)
			}
		}
	}
}

// Graph returns the built fragment.
func (b *GraphBuilder) Graph() *domain.Graph {
	return b.graph
}

// ensureNode returns the node ID for (kind, name), creating the node on first
// sight. IDs are deterministic hashes of (play, kind, name) so building the
// same play twice yields byte-identical fragments.
func (b *GraphBuilder) ensureNode(kind domain.NodeKind, name, role string) string {
	key := nodeKey{kind, name}
	if id, ok := b.nodeIDs[key]; ok {
		return id
	}
	id := domain.HashID(string(kind)+"_", b.play.ID+"|"+string(kind)+"|"+name)
	b.nodeIDs[key] = id
	b.graph.Nodes = append(b.graph.Nodes, domain.Node{
		ID:    id,
		Kind:  kind,
		Label: domain.CleanName(name),
		Role:  role,
	})
	return id
}

func (b *GraphBuilder) addEdge(source, target string, kind domain.EdgeKind, label string) {
	edge := domain.Edge{Source: source, Target: target, Kind: kind, Label: label}
	if _, ok := b.edgeSeen[edge]; ok {
		return
	}
	b.edgeSeen[edge] = struct{}{}
	b.graph.Edges = append(b.graph.Edges, edge)
}
