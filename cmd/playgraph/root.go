package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/playgraph"
	"github.com/aretw0/playgraph/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "playgraph",
	Short: "Playgraph draws playbooks as graphs",
	Long: `Playgraph parses playbook files and renders each play as a graph:
tasks in execution order, the handlers they notify, and the flush points
where those handlers actually fire.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	verbosity        int
	title            string
	showHandlers     bool
	includeRoleTasks bool
	excludeRoles     []string
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity (-v info, -vv debug)")
}

// newLogger builds the process logger from the verbosity flags.
func newLogger() *slog.Logger {
	return logging.New(logging.LevelFromVerbosity(verbosity))
}

// addRenderFlags registers the flags shared by commands that render graphs.
func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&title, "title", "playgraph", "Title carried into the rendered output")
	cmd.Flags().BoolVar(&showHandlers, "show-handlers", true, "Draw handler nodes and notification edges")
	cmd.Flags().BoolVar(&includeRoleTasks, "include-role-tasks", true, "Draw tasks contributed by roles")
	cmd.Flags().StringSliceVar(&excludeRoles, "exclude-roles", nil, "Roles to skip entirely")
}

// newGrapher builds the library facade from the shared render flags.
func newGrapher(logger *slog.Logger) *playgraph.Grapher {
	return playgraph.New(
		playgraph.WithLogger(logger),
		playgraph.WithTitle(title),
		playgraph.WithHandlers(showHandlers),
		playgraph.WithRoleTasks(includeRoleTasks),
		playgraph.WithExcludeRoles(excludeRoles...),
	)
}
