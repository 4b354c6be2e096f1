// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

// Output file suffixes, appended to the source file's base name.
const (
	suffixEpiDoc   = "_epidoc.xml"
	suffixNotes    = "_notes.txt"
	suffixAnalysis = "_analysis.txt"
	suffixFull     = "_full.txt"
)

// Namer hands out output paths that do not collide with paths already
// handed out, nor (without overwrite) with files on disk.
type Namer struct {
	overwrite bool
	used      map[string]bool
}

// NewNamer returns an empty Namer.
func NewNamer(overwrite bool) *Namer {
	return &Namer{overwrite: overwrite, used: make(map[string]bool)}
}

// Next returns path, or path with _1, _2, ... inserted before the extension.
func (n *Namer) Next(path string) string {
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)
	candidate := path
	for i := 1; n.taken(candidate); i++ {
		candidate = fmt.Sprintf("%s_%d%s", stem, i, ext)
	}
	n.used[candidate] = true
	return candidate
}

func (n *Namer) taken(path string) bool {
	if n.used[path] {
		return true
	}
	if n.overwrite {
		return false
	}
	_, err := os.Lstat(path)
	return err == nil
}

// NewLimiter returns a limiter that allows one conversion per interval, or
// nil when interval is not positive.
func NewLimiter(interval time.Duration) *rate.Limiter {
	if interval <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(interval), 1)
}

// BatchSummary holds the outcome of a batch run.
type BatchSummary struct {
	Converted int
	Failed    int
	Outputs   []string
}

// Total returns the number of files processed.
func (s BatchSummary) Total() int {
	return s.Converted + s.Failed
}

// HasFailures reports whether any file failed.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// Batch converts several files one after another.
type Batch struct {
	Converter *Converter

	// Limiter paces model calls. Nil means unpaced.
	Limiter *rate.Limiter

	// Overwrite replaces existing output files instead of numbering new ones.
	Overwrite bool

	// SaveRaw also writes the full model response to <base>_full.txt.
	SaveRaw bool

	// OnResult, if set, is called after each successful conversion.
	OnResult func(sourcePath string, res *Result)
}

// Run converts each path with tmpl as the prompt template and writes the
// outputs into outDir. Progress lines go to w. A failed file is reported and
// the batch moves on; cancelling ctx counts the remaining files as failed.
func (b *Batch) Run(ctx context.Context, s types.Settings, tmpl types.ConversionRequest, paths []string, outDir string, w io.Writer) BatchSummary {
	var sum BatchSummary
	names := NewNamer(b.Overwrite)

	for i, p := range paths {
		if err := b.wait(ctx); err != nil {
			fmt.Fprintf(w, "stopped: %v\n", err)
			sum.Failed += len(paths) - i
			break
		}

		outputs, err := b.convertOne(ctx, s, tmpl, p, outDir, names)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", p, err)
			sum.Failed++
			continue
		}
		fmt.Fprintf(w, "converted: %s -> %s\n", p, outputs[0])
		sum.Converted++
		sum.Outputs = append(sum.Outputs, outputs...)
	}

	fmt.Fprintf(w, "\nBatch summary: %d converted, %d failed (total: %d)\n",
		sum.Converted, sum.Failed, sum.Total())
	return sum
}

func (b *Batch) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.Limiter == nil {
		return nil
	}
	return b.Limiter.Wait(ctx)
}

type outputFile struct {
	suffix  string
	content string
}

// convertOne converts one file and returns the written paths, EpiDoc first.
func (b *Batch) convertOne(ctx context.Context, s types.Settings, tmpl types.ConversionRequest, path, outDir string, names *Namer) ([]string, error) {
	text, err := LoadSource(path)
	if err != nil {
		return nil, err
	}

	res, err := b.Converter.Convert(ctx, s, tmpl.WithSource(text))
	if err != nil {
		return nil, err
	}
	if b.OnResult != nil {
		b.OnResult(path, res)
	}

	base := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	files := []outputFile{
		{suffixEpiDoc, res.Extracted.EpiDocXML},
		{suffixNotes, res.Extracted.Notes},
		{suffixAnalysis, res.Extracted.Analysis},
	}
	if b.SaveRaw {
		files = append(files, outputFile{suffixFull, res.Raw})
	}

	var written []string
	for i, f := range files {
		if i > 0 && f.content == "" {
			continue
		}
		out := names.Next(base + f.suffix)
		if err := SaveText(out, f.content, b.Overwrite); err != nil {
			return written, err
		}
		written = append(written, out)
	}
	return written, nil
}
