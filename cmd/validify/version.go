package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/validify-dev/validify/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of validify",
	Run: func(_ *cobra.Command, _ []string) {
		fmt.Println(version.Get().Full())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
