// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of leiden-epidoc",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "leiden-epidoc %s (default model %s)\n", version, types.DefaultModel)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
