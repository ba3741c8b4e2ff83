package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docurgent/docurgent"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of docurgent",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "docurgent version %s\n", strings.TrimSpace(docurgent.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
