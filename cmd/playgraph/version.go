package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/playgraph"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of playgraph",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("playgraph version %s\n", strings.TrimSpace(playgraph.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
