package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/playgraph/internal/runtime"
	"github.com/aretw0/playgraph/pkg/domain"
)

var strictValidate bool

// validateCmd checks playbooks without rendering anything.
var validateCmd = &cobra.Command{
	Use:   "validate [playbook]...",
	Short: "Check playbooks for structural problems",
	Long: `Parses the given playbooks and reports structural errors (unnamed tasks,
unnamed handlers, flush markers declared as handlers) and warnings for
notify targets that no handler name or listen topic resolves.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		grapher := newGrapher(logger)

		failed := false
		for _, path := range args {
			pb, err := grapher.LoadPlaybook(path)
			if err != nil {
				return err
			}

			for _, play := range pb.Plays {
				if err := play.Validate(); err != nil {
					failed = true
					if failures := domain.ValidationErrors(err); len(failures) > 0 {
						for _, v := range failures {
							fmt.Printf("%s: play %q: %v\n", path, play.Name, v)
						}
						continue
					}
					fmt.Printf("%s: play %q: %v\n", path, play.Name, err)
					continue
				}

				for _, target := range unresolvedNotifies(play) {
					fmt.Printf("%s: play %q: warning: nothing handles notify target %q\n",
						path, play.Name, target)
					if strictValidate {
						failed = true
					}
				}
			}
		}

		if failed {
			return fmt.Errorf("validation failed")
		}
		fmt.Println("ok")
		return nil
	},
}

// unresolvedNotifies lists notify targets, in first-use order, that resolve
// to no handler.
func unresolvedNotifies(play *domain.Play) []string {
	registry := runtime.NewRegistry(play)
	seen := make(map[string]struct{})
	var unresolved []string

	check := func(targets []string) {
		for _, target := range targets {
			if _, done := seen[target]; done {
				continue
			}
			seen[target] = struct{}{}
			if len(registry.Resolve(target)) == 0 {
				unresolved = append(unresolved, target)
			}
		}
	}

	for _, block := range []domain.BlockName{domain.BlockPreTasks, domain.BlockTasks, domain.BlockPostTasks} {
		for _, task := range play.Block(block) {
			check(task.Notify)
		}
	}
	for _, h := range play.Handlers {
		check(h.Notify)
	}
	return unresolved
}

func init() {
	validateCmd.Flags().BoolVar(&strictValidate, "strict", false, "Treat unresolved notify targets as errors")
	validateCmd.Flags().StringSliceVar(&excludeRoles, "exclude-roles", nil, "Roles to skip entirely")
	rootCmd.AddCommand(validateCmd)
}
