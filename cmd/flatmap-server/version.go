package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the release version reported by the version command.
const Version = "0.1.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flatmap-server v%s\n", Version)
	},
}
