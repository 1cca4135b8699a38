package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/playgraph/pkg/domain"
)

// GenerateMermaid produces a Mermaid flowchart from the rendered plays.
// It applies semantic shapes:
// - Play: ((Circle))
// - Task: [Rectangle]
// - Handler: {{Hexagon}}
// Sequence edges are solid, notifications dotted, chained notifications thick.
func GenerateMermaid(title string, graphs []*domain.Graph) string {
	var sb strings.Builder
	if title != "" {
		sb.WriteString(fmt.Sprintf("---\ntitle: %s\n---\n", title))
	}
	sb.WriteString("graph LR\n")

	for i, g := range graphs {
		for _, node := range g.Nodes {
			safeID := sanitizeMermaidID(node.ID)
			opener, closer := "[", "]"
			switch node.Kind {
			case domain.NodePlay:
				opener, closer = "((", "))"
			case domain.NodeHandler:
				opener, closer = "{{", "}}"
			}
			sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(node.Label), closer))
		}

		for _, edge := range g.Edges {
			sb.WriteString(fmt.Sprintf("    %s %s %s\n",
				sanitizeMermaidID(edge.Source), mermaidArrow(edge), sanitizeMermaidID(edge.Target)))
		}

		// Tint each play circle so multi-play books stay readable.
		fill := PlayColor(i, len(graphs))
		for _, node := range g.NodesOfKind(domain.NodePlay) {
			sb.WriteString(fmt.Sprintf("    style %s fill:%s,color:%s\n",
				sanitizeMermaidID(node.ID), fill, playFontColor))
		}
	}

	return sb.String()
}

func mermaidArrow(edge domain.Edge) string {
	label := escapeMermaidLabel(edge.Label)
	switch edge.Kind {
	case domain.EdgeNotify:
		if label != "" {
			return fmt.Sprintf("-. \"%s\" .->", label)
		}
		return "-.->"
	case domain.EdgeChainedNotify:
		if label != "" {
			return fmt.Sprintf("== \"%s\" ==>", label)
		}
		return "==>"
	default:
		if label != "" {
			return fmt.Sprintf("-- \"%s\" -->", label)
		}
		return "-->"
	}
}

func escapeMermaidLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	return s
}
