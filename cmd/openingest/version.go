package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time via ldflags.
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the openingest version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("openingest", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
