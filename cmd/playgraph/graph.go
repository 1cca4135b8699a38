package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/playgraph/internal/presentation/graph"
	"github.com/aretw0/playgraph/pkg/domain"
)

var (
	renderer   string
	outputPath string
	groupRoles bool
)

// graphCmd renders one or more playbooks into a single document.
var graphCmd = &cobra.Command{
	Use:   "graph [playbook]...",
	Short: "Render playbooks as a graph",
	Long: `Parses the given playbooks and renders every play as a graph. The output
format is chosen with --renderer: a Mermaid flowchart (default), Graphviz
DOT, or a versioned JSON document.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		grapher := newGrapher(logger)

		var graphs []*domain.Graph
		for _, path := range args {
			pb, err := grapher.LoadPlaybook(path)
			if err != nil {
				return err
			}
			rendered, err := grapher.Graph(pb)
			if err != nil {
				return err
			}
			graphs = append(graphs, rendered...)
		}

		var out string
		var err error
		switch renderer {
		case "mermaid":
			out = graph.GenerateMermaid(grapher.Title(), graphs)
		case "dot":
			out = graph.GenerateDOT(grapher.Title(), graphs, graph.WithRoleClusters(groupRoles))
		case "json":
			out, err = graph.GenerateJSON(grapher.Title(), graphs)
		default:
			return fmt.Errorf("unknown renderer %q (want mermaid, dot or json)", renderer)
		}
		if err != nil {
			return err
		}

		if outputPath == "" || outputPath == "-" {
			fmt.Print(out)
			return nil
		}
		if err := os.WriteFile(outputPath, []byte(out), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info("graph written", "path", outputPath, "renderer", renderer, "plays", len(graphs))
		return nil
	},
}

func init() {
	addRenderFlags(graphCmd)
	graphCmd.Flags().StringVar(&renderer, "renderer", "mermaid", "Output format: mermaid, dot or json")
	graphCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write to a file instead of stdout")
	graphCmd.Flags().BoolVar(&groupRoles, "group-roles", false, "Group nodes from the same role into a cluster (dot renderer only)")
	rootCmd.AddCommand(graphCmd)
}
