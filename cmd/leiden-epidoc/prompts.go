// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/leiden-epidoc/internal/convert"
	"github.com/pdiddy/leiden-epidoc/internal/prompt"
)

const (
	instructionFile = "instruction.txt"
	examplesFile    = "examples.txt"
)

var promptsCmd = &cobra.Command{
	Use:   "prompts",
	Short: "Inspect or export the default prompt",
	Long: `Prompts prints or exports the default system instruction and few-shot
examples. Edit an exported copy and pass it back with --instruction-file or
--examples-file to customize a conversion.`,
}

var promptsShowCmd = &cobra.Command{
	Use:       "show [instruction|examples]",
	Short:     "Print the default instruction, examples, or both",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"instruction", "examples"},
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		which := ""
		if len(args) == 1 {
			which = args[0]
		}
		if which == "" || which == "instruction" {
			fmt.Fprintln(w, prompt.DefaultInstruction)
		}
		if which == "" || which == "examples" {
			fmt.Fprintln(w, prompt.DefaultExamples)
		}
		return nil
	},
}

var promptsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the default prompt files to a directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, _ := cmd.Flags().GetString("dir")
		overwrite, _ := cmd.Flags().GetBool("overwrite")

		files := []struct{ name, content string }{
			{instructionFile, prompt.DefaultInstruction},
			{examplesFile, prompt.DefaultExamples},
		}
		for _, f := range files {
			path := filepath.Join(dir, f.name)
			if err := convert.SaveText(path, f.content, overwrite); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
		}
		return nil
	},
}

func init() {
	promptsExportCmd.Flags().String("dir", "prompts", "directory to write instruction.txt and examples.txt")
	promptsExportCmd.Flags().Bool("overwrite", false, "replace existing files")

	promptsCmd.AddCommand(promptsShowCmd, promptsExportCmd)
	rootCmd.AddCommand(promptsCmd)
}
