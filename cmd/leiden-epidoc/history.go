// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/pdiddy/leiden-epidoc/internal/archive"
	"github.com/pdiddy/leiden-epidoc/internal/convert"
)

// previewWidth is the number of source characters shown in listings.
const previewWidth = 48

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Browse past conversions (list, show, search, export)",
	Long: `History reads the local database of completed conversions. Every
successful conversion is recorded unless --no-history is given. The database
path is history_db in the config.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent conversions, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withArchive(cmd, func(st *archive.Store) error {
			records, err := st.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), records)
		})
	},
}

var historySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Find conversions whose source or EpiDoc contains the query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return withArchive(cmd, func(st *archive.Store) error {
			records, err := st.Search(cmd.Context(), args[0], limit)
			if err != nil {
				return err
			}
			return printRecords(cmd.OutOrStdout(), records)
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one conversion (an unambiguous ID prefix is enough)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetBool("raw")
		return withArchive(cmd, func(st *archive.Store) error {
			rec, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if raw {
				fmt.Fprintln(cmd.OutOrStdout(), rec.Raw)
				return nil
			}
			r := newRenderer(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s/%s  %s\n\n", rec.ID,
				rec.CreatedAt.Local().Format(time.DateTime), rec.Provider, rec.Model, rec.Strategy)
			r.section("source", rec.Source)
			r.section("analysis", rec.Analysis)
			r.section("notes", rec.Notes)
			r.section("epidoc", rec.EpiDoc)
			return nil
		})
	},
}

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all conversions as YAML or JSON",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		return withArchive(cmd, func(st *archive.Store) error {
			if out == "" {
				return st.Export(cmd.Context(), cmd.OutOrStdout(), format)
			}
			f, err := os.Create(out)
			if err != nil {
				return &convert.FileError{Op: "write", Path: out, Err: err}
			}
			if err := st.Export(cmd.Context(), f, format); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return &convert.FileError{Op: "write", Path: out, Err: err}
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", out)
			return nil
		})
	},
}

// withArchive opens the archive named in the settings for the duration of fn.
func withArchive(cmd *cobra.Command, fn func(*archive.Store) error) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	st, err := archive.Open(s.HistoryDB)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func printRecords(w io.Writer, records []archive.Record) error {
	if len(records) == 0 {
		fmt.Fprintln(w, "no conversions recorded")
		return nil
	}
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{shortID(r.ID),
			r.CreatedAt.Local().Format(time.DateTime), string(r.Strategy), preview(r.Source)})
	}

	styled := newRenderer(w).styled
	cell := lipgloss.NewStyle().PaddingRight(2)
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).BorderBottom(false).BorderLeft(false).BorderRight(false).
		BorderHeader(false).BorderColumn(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow && styled {
				return cell.Inherit(headerStyle)
			}
			return cell
		}).
		Headers("ID", "CREATED", "STRATEGY", "SOURCE").
		Rows(rows...)
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// preview returns the first line of s, cut to previewWidth runes.
func preview(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i] + " ..."
	}
	if runes := []rune(s); len(runes) > previewWidth {
		s = string(runes[:previewWidth]) + "..."
	}
	return s
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of conversions to list (0 = all)")
	historySearchCmd.Flags().Int("limit", 20, "maximum number of matches (0 = all)")
	historyShowCmd.Flags().Bool("raw", false, "print the full model response only")
	historyExportCmd.Flags().String("format", archive.FormatYAML, "export format: yaml or json")
	historyExportCmd.Flags().StringP("out", "o", "", "write to this file instead of stdout")

	historyCmd.AddCommand(historyListCmd, historySearchCmd, historyShowCmd, historyExportCmd)
	rootCmd.AddCommand(historyCmd)
}
