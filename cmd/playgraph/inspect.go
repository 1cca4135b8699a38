package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/playgraph/internal/presentation/tui"
	"github.com/aretw0/playgraph/internal/runtime"
)

var plainInspect bool

// inspectCmd prints what would happen instead of drawing it: the walk order
// and the handlers each flush fires.
var inspectCmd = &cobra.Command{
	Use:   "inspect <playbook>",
	Short: "Explain a playbook's task walk and handler flushes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		grapher := newGrapher(logger)

		pb, err := grapher.LoadPlaybook(args[0])
		if err != nil {
			return err
		}

		if !plainInspect {
			tui.PrintBanner()
		}
		render := tui.NewRenderer()

		for _, play := range pb.Plays {
			rec := &runtime.Recorder{}
			sched := runtime.NewScheduler(play, runtime.NewRegistry(play), runtime.WithLogger(logger))
			if err := sched.Run(rec); err != nil {
				return err
			}

			report := tui.ExecutionReport(play.Name, rec)
			if plainInspect {
				fmt.Print(report)
				continue
			}
			pretty, err := render(report)
			if err != nil {
				// Glamour failures should not hide the report.
				fmt.Print(report)
				continue
			}
			fmt.Print(pretty)
		}
		return nil
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&plainInspect, "plain", false, "Print raw markdown without terminal styling")
	inspectCmd.Flags().StringSliceVar(&excludeRoles, "exclude-roles", nil, "Roles to skip entirely")
	rootCmd.AddCommand(inspectCmd)
}
