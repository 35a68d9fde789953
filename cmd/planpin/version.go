package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/galhadida80/planpin"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of planpin",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("planpin version %s\n", strings.TrimSpace(planpin.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
