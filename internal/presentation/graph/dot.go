package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/playgraph/pkg/domain"
)

type dotConfig struct {
	groupRoles bool
}

// DOTOption configures the DOT renderer.
type DOTOption func(*dotConfig)

// WithRoleClusters groups nodes that came from the same role into a labeled
// cluster instead of prefixing their labels with the role name.
func WithRoleClusters(enabled bool) DOTOption {
	return func(c *dotConfig) {
		c.groupRoles = enabled
	}
}

// GenerateDOT produces a Graphviz digraph from the rendered plays, laid out
// left to right. Plays are filled boxes, tasks plain rectangles, handlers
// hexagons; notification edges are dotted, chained ones dashed.
func GenerateDOT(title string, graphs []*domain.Graph, opts ...DOTOption) string {
	var cfg dotConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var sb strings.Builder
	sb.WriteString("digraph {\n")
	sb.WriteString("\trankdir=LR;\n")
	sb.WriteString("\tranksep=2;\n")
	if title != "" {
		sb.WriteString(fmt.Sprintf("\tlabel=%q;\n", title))
		sb.WriteString("\tlabelloc=t;\n")
	}

	for i, g := range graphs {
		fill := PlayColor(i, len(graphs))
		if cfg.groupRoles {
			writeDOTClusteredNodes(&sb, g, fill)
		} else {
			for _, node := range g.Nodes {
				writeDOTNode(&sb, "\t", node, dotPrefixedLabel(node), fill)
			}
		}
		for _, edge := range g.Edges {
			attrs := dotEdgeAttrs(edge.Kind)
			if edge.Label != "" {
				attrs += fmt.Sprintf(",label=%q", edge.Label)
			}
			sb.WriteString(fmt.Sprintf("\t%q -> %q [%s];\n", edge.Source, edge.Target, attrs))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// writeDOTClusteredNodes emits role-free nodes at the top level and one
// cluster subgraph per role, in first-appearance order. Edges stay at the
// top level; graphviz resolves them into and out of clusters by node ID.
func writeDOTClusteredNodes(sb *strings.Builder, g *domain.Graph, fill string) {
	byRole := make(map[string][]domain.Node)
	var roles []string

	for _, node := range g.Nodes {
		if node.Role == "" {
			writeDOTNode(sb, "\t", node, node.Label, fill)
			continue
		}
		if _, seen := byRole[node.Role]; !seen {
			roles = append(roles, node.Role)
		}
		byRole[node.Role] = append(byRole[node.Role], node)
	}

	for i, role := range roles {
		// Graphviz only draws a subgraph as a box when its name starts
		// with "cluster".
		sb.WriteString(fmt.Sprintf("\tsubgraph \"cluster_%d\" {\n", i))
		sb.WriteString(fmt.Sprintf("\t\tlabel=%q;\n", "[role] "+role))
		for _, node := range byRole[role] {
			writeDOTNode(sb, "\t\t", node, node.Label, fill)
		}
		sb.WriteString("\t}\n")
	}
}

func writeDOTNode(sb *strings.Builder, indent string, node domain.Node, label, fill string) {
	sb.WriteString(fmt.Sprintf("%s%q [label=%q%s];\n",
		indent, node.ID, label, dotNodeAttrs(node.Kind, fill)))
}

func dotPrefixedLabel(node domain.Node) string {
	if node.Role != "" {
		return fmt.Sprintf("[%s] %s", node.Role, node.Label)
	}
	return node.Label
}

func dotNodeAttrs(kind domain.NodeKind, fill string) string {
	switch kind {
	case domain.NodePlay:
		return fmt.Sprintf(",shape=box,style=filled,fillcolor=%q,fontcolor=%q", fill, playFontColor)
	case domain.NodeHandler:
		return ",shape=hexagon"
	default:
		return ",shape=rectangle"
	}
}

func dotEdgeAttrs(kind domain.EdgeKind) string {
	switch kind {
	case domain.EdgeNotify:
		return "style=dotted"
	case domain.EdgeChainedNotify:
		return "style=dashed"
	default:
		return "style=solid"
	}
}
