// Package playgraph turns playbooks into graphs of their execution: plays,
// tasks in walk order, and the handlers each flush point fires, with notify
// and chained-notify edges showing who triggered what.
package playgraph

import (
	"fmt"
	"log/slog"

	"github.com/aretw0/playgraph/internal/compiler"
	"github.com/aretw0/playgraph/internal/logging"
	"github.com/aretw0/playgraph/internal/runtime"
	"github.com/aretw0/playgraph/pkg/domain"
)

// Version is the build version, overridden at link time.
var Version = "dev"

// Grapher loads playbooks and renders them into domain graphs. The zero
// configuration shows everything: role tasks and handlers included.
type Grapher struct {
	logger           *slog.Logger
	title            string
	includeRoleTasks bool
	showHandlers     bool
	excludeRoles     []string
}

// Option configures a Grapher.
type Option func(*Grapher)

// WithLogger sets the structured logger used across loading and graphing.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Grapher) {
		g.logger = logger
	}
}

// WithTitle sets the title carried into the rendered output.
func WithTitle(title string) Option {
	return func(g *Grapher) {
		g.title = title
	}
}

// WithRoleTasks controls whether tasks contributed by roles get nodes.
func WithRoleTasks(include bool) Option {
	return func(g *Grapher) {
		g.includeRoleTasks = include
	}
}

// WithHandlers controls whether handler firings get nodes and edges.
func WithHandlers(show bool) Option {
	return func(g *Grapher) {
		g.showHandlers = show
	}
}

// WithExcludeRoles drops the named roles at load time.
func WithExcludeRoles(names ...string) Option {
	return func(g *Grapher) {
		g.excludeRoles = append(g.excludeRoles, names...)
	}
}

// New creates a Grapher.
func New(opts ...Option) *Grapher {
	g := &Grapher{
		logger:           logging.NewNop(),
		title:            "playgraph",
		includeRoleTasks: true,
		showHandlers:     true,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Title returns the configured output title.
func (g *Grapher) Title() string {
	return g.title
}

// LoadPlaybook parses the playbook at path, resolving its roles relative to
// the playbook's directory.
func (g *Grapher) LoadPlaybook(path string) (*domain.Playbook, error) {
	loader := compiler.NewLoader(
		compiler.WithLogger(g.logger),
		compiler.WithExcludeRoles(g.excludeRoles...),
	)
	return loader.LoadPlaybook(path)
}

// Graph renders every play of the playbook, in declaration order.
func (g *Grapher) Graph(pb *domain.Playbook) ([]*domain.Graph, error) {
	graphs := make([]*domain.Graph, 0, len(pb.Plays))
	for _, play := range pb.Plays {
		graph, err := g.GraphPlay(play)
		if err != nil {
			return nil, fmt.Errorf("playbook %q: %w", pb.Name, err)
		}
		graphs = append(graphs, graph)
	}
	return graphs, nil
}

// GraphPlay walks one play and returns its graph. The play is not mutated;
// the same play always yields an identical graph.
func (g *Grapher) GraphPlay(play *domain.Play) (*domain.Graph, error) {
	builder := runtime.NewGraphBuilder(play,
		runtime.WithRoleTasks(g.includeRoleTasks),
		runtime.WithHandlers(g.showHandlers),
	)
	sched := runtime.NewScheduler(play, runtime.NewRegistry(play), runtime.WithLogger(g.logger))
	if err := sched.Run(builder); err != nil {
		return nil, err
	}
	return builder.Graph(), nil
}
