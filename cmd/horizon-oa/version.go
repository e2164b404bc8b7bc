package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of horizon-oa",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("horizon-oa %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
