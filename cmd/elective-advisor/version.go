package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of elective-advisor",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("elective-advisor %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
