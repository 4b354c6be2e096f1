// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pdiddy/leiden-epidoc/internal/convert"
	"github.com/pdiddy/leiden-epidoc/internal/logger"
	"github.com/pdiddy/leiden-epidoc/internal/response"
	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert Leiden Convention text to EpiDoc XML",
	Long: `Convert sends Leiden Convention text to the configured model and prints
the extracted EpiDoc XML.

The source is --text, a single file, or stdin. With several files (or with
--out-dir) each file is converted in turn and written to
<name>_epidoc.xml, plus <name>_notes.txt and <name>_analysis.txt when the
model returned those sections. Existing outputs are kept and new ones are
numbered (<name>_epidoc_1.xml) unless --overwrite is set.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	tmpl, err := requestTemplate(cmd)
	if err != nil {
		return err
	}

	show, _ := cmd.Flags().GetStringSlice("show")
	if err := validateShow(show); err != nil {
		return err
	}

	text, _ := cmd.Flags().GetString("text")
	outDir, _ := cmd.Flags().GetString("out-dir")
	if text != "" && len(args) > 0 {
		return errors.New("use either --text or file arguments, not both")
	}

	h := openHistory(cmd, s)
	defer h.Close()

	if len(args) > 1 || (len(args) == 1 && outDir != "") {
		return runBatch(cmd, s, tmpl, args, h)
	}

	source, sourcePath, err := readInput(cmd, text, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := newConverter(cmd).Convert(ctx, s, tmpl.WithSource(source))
	if err != nil {
		return err
	}
	h.record(ctx, sourcePath, res)
	return writeSingle(cmd, res)
}

// readInput returns the source text and its path, if it came from a file.
func readInput(cmd *cobra.Command, text string, args []string) (string, string, error) {
	switch {
	case text != "":
		return text, "", nil
	case len(args) == 1:
		source, err := convert.LoadSource(args[0])
		return source, args[0], err
	case !term.IsTerminal(int(os.Stdin.Fd())):
		source, err := convert.ReadSource(cmd.InOrStdin(), "stdin")
		return source, "", err
	default:
		return "", "", errors.New("no input: pass a file, use --text, or pipe text on stdin")
	}
}

func writeSingle(cmd *cobra.Command, res *convert.Result) error {
	out, _ := cmd.Flags().GetString("out")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	saveRaw, _ := cmd.Flags().GetBool("save-raw")
	show, _ := cmd.Flags().GetStringSlice("show")

	r := newRenderer(cmd.ErrOrStderr())
	r.status(res)
	warnIfMalformed(res)
	if res.RTL {
		logger.Info("source contains right-to-left text")
	}

	for _, name := range show {
		switch strings.ToLower(name) {
		case "analysis":
			r.section("analysis", res.Extracted.Analysis)
		case "notes":
			r.section("notes", res.Extracted.Notes)
		case "full":
			r.section("full response", res.Raw)
		}
	}

	if out == "" {
		fmt.Fprintln(cmd.OutOrStdout(), res.Extracted.EpiDocXML)
		return nil
	}

	names := convert.NewNamer(overwrite)
	path := names.Next(out)
	if err := convert.SaveText(path, res.Extracted.EpiDocXML, overwrite); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)

	if saveRaw {
		rawPath := names.Next(strings.TrimSuffix(path, filepath.Ext(path)) + "_full.txt")
		if err := convert.SaveText(rawPath, res.Raw, overwrite); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", rawPath)
	}
	return nil
}

func validateShow(show []string) error {
	for _, name := range show {
		switch strings.ToLower(name) {
		case "analysis", "notes", "full":
		default:
			return fmt.Errorf("unknown --show value %q: use analysis, notes, or full", name)
		}
	}
	return nil
}

// warnIfMalformed warns when the extracted markup does not parse as XML.
// Passthrough results are prose, so they are not checked.
func warnIfMalformed(res *convert.Result) {
	if res.Extracted.Strategy == types.StrategyRawPassthrough {
		logger.Warn("no EpiDoc markup found in the response; printing it unchanged")
		return
	}
	if err := response.WellFormed(res.Extracted.EpiDocXML); err != nil {
		logger.Warn("extracted markup is not well-formed XML: %v", err)
	}
}

func runBatch(cmd *cobra.Command, s types.Settings, tmpl types.ConversionRequest, paths []string, h *history) error {
	outDir, _ := cmd.Flags().GetString("out-dir")
	overwrite, _ := cmd.Flags().GetBool("overwrite")
	saveRaw, _ := cmd.Flags().GetBool("save-raw")
	interval, _ := cmd.Flags().GetDuration("interval")
	if outDir == "" {
		outDir = s.SaveLocation
	}

	ctx := cmd.Context()
	b := &convert.Batch{
		Converter: newConverter(cmd),
		Limiter:   convert.NewLimiter(interval),
		Overwrite: overwrite,
		SaveRaw:   saveRaw,
		OnResult: func(path string, res *convert.Result) {
			h.record(ctx, path, res)
			if res.Extracted.Strategy != types.StrategyTaggedBlock {
				logger.Warn("%s: extracted via %s", path, res.Extracted.Strategy)
			}
		},
	}

	sum := b.Run(ctx, s, tmpl, paths, outDir, cmd.OutOrStdout())
	if sum.HasFailures() {
		return fmt.Errorf("%d of %d file(s) failed", sum.Failed, sum.Total())
	}
	return nil
}

func init() {
	convertCmd.Flags().String("text", "", "Leiden text to convert instead of a file")
	convertCmd.Flags().StringP("out", "o", "", "write the EpiDoc XML to this file instead of stdout")
	convertCmd.Flags().String("out-dir", "", "output directory for batch conversion (default: save_location from config)")
	convertCmd.Flags().Bool("save-raw", false, "also save the full model response to <name>_full.txt (with --out or a batch)")
	convertCmd.Flags().Bool("overwrite", false, "replace existing output files instead of numbering new ones")
	convertCmd.Flags().Duration("interval", 0, "minimum time between model calls in a batch (0 = no pacing)")
	convertCmd.Flags().StringSlice("show", nil, "print response sections to stderr: analysis, notes, full")
	addConversionFlags(convertCmd)

	rootCmd.AddCommand(convertCmd)
}
