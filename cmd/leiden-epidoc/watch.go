// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/pdiddy/leiden-epidoc/internal/convert"
	"github.com/pdiddy/leiden-epidoc/internal/logger"
)

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Reconvert a file every time it changes",
	Long: `Watch converts a Leiden text file, then converts it again each time the
file is saved. A save that arrives while a conversion is running cancels that
conversion; only the newest result is written. Stop with Ctrl-C.

Results go to --out when given, otherwise to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	if !s.HasAPIKey() {
		return convert.ErrAPIKeyMissing
	}
	tmpl, err := requestTemplate(cmd)
	if err != nil {
		return err
	}
	out, _ := cmd.Flags().GetString("out")
	debounce, _ := cmd.Flags().GetDuration("debounce")

	path, err := filepath.Abs(args[0])
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()
	// Editors often replace the file on save, so watch its directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	h := openHistory(cmd, s)
	defer h.Close()

	ctx := cmd.Context()
	runner := convert.NewRunner(newConverter(cmd))
	defer runner.Stop()
	session := &watchSession{
		name:   args[0],
		out:    out,
		hist:   h,
		r:      newRenderer(cmd.ErrOrStderr()),
		stdout: cmd.OutOrStdout(),
		stderr: cmd.ErrOrStderr(),
	}

	var (
		job     *convert.Job
		jobDone <-chan struct{}
		timer   = time.NewTimer(0)
	)

	start := func() {
		text, err := convert.LoadSource(path)
		if err != nil {
			logger.Warn("%v", err)
			return
		}
		job = runner.Start(ctx, s, tmpl.WithSource(text))
		jobDone = job.Done()
		fmt.Fprintf(cmd.ErrOrStderr(), "converting %s (#%d)\n", args[0], job.Seq)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != path || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			logger.Debug("%s: %s", ev.Op, ev.Name)
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher: %v", err)

		case <-timer.C:
			start()

		case <-jobDone:
			jobDone = nil
			session.deliver(ctx, job)
		}
	}
}

// watchSession reports the outcome of each conversion of the watched file.
type watchSession struct {
	name   string
	out    string
	hist   *history
	r      renderer
	stdout io.Writer
	stderr io.Writer
}

// deliver waits for job and writes its result. Superseded and failed jobs
// write nothing. It reports whether a result was written.
func (w *watchSession) deliver(ctx context.Context, job *convert.Job) bool {
	res, err := job.Wait(ctx)
	switch {
	case errors.Is(err, convert.ErrSuperseded):
		logger.Debug("discarding superseded conversion #%d", job.Seq)
		return false
	case errors.Is(err, convert.ErrEmptySource):
		logger.Warn("%s is empty; waiting for changes", w.name)
		return false
	case err != nil:
		fmt.Fprintf(w.stderr, "conversion failed: %v\n", err)
		return false
	}

	w.hist.record(ctx, w.name, res)
	w.r.status(res)
	warnIfMalformed(res)
	if w.out == "" {
		fmt.Fprintln(w.stdout, res.Extracted.EpiDocXML)
		return true
	}
	if err := convert.SaveText(w.out, res.Extracted.EpiDocXML, true); err != nil {
		fmt.Fprintf(w.stderr, "%v\n", err)
		return false
	}
	fmt.Fprintf(w.stderr, "updated %s\n", w.out)
	return true
}

func init() {
	watchCmd.Flags().StringP("out", "o", "", "file rewritten with each new result (default: stdout)")
	watchCmd.Flags().Duration("debounce", 300*time.Millisecond, "wait this long after the last change before converting")
	addConversionFlags(watchCmd)

	rootCmd.AddCommand(watchCmd)
}
