// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/leiden-epidoc/internal/convert"
	"github.com/pdiddy/leiden-epidoc/internal/model"
	"github.com/pdiddy/leiden-epidoc/internal/prompt"
	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

// stubBackend answers every prompt with respond.
type stubBackend struct {
	respond func(ctx context.Context, source string) (string, error)
}

func (b stubBackend) Complete(ctx context.Context, p model.Prompt) (string, error) {
	return b.respond(ctx, sourceOf(p))
}

func (stubBackend) Name() string  { return "stub/echo" }
func (stubBackend) Model() string { return "echo" }

// echoBackend wraps the source text in <ab> inside the answer markers.
func echoBackend() stubBackend {
	return stubBackend{respond: func(_ context.Context, source string) (string, error) {
		return "<final_translation>\n<ab>" + source + "</ab>\n</final_translation>", nil
	}}
}

// sourceOf returns the text of the last <Input> block, which holds the source.
func sourceOf(p model.Prompt) string {
	start := strings.LastIndex(p.User, "<Input>\n")
	if start < 0 {
		return ""
	}
	rest := p.User[start+len("<Input>\n"):]
	if end := strings.Index(rest, "\n</Input>"); end >= 0 {
		return rest[:end]
	}
	return rest
}

// useBackend makes every command convert with b.
func useBackend(t *testing.T, b model.Backend) {
	t.Helper()
	prev := newBackend
	newBackend = func(context.Context, types.Settings) (model.Backend, error) {
		return b, nil
	}
	t.Cleanup(func() { newBackend = prev })
}

// writeConfig writes a config file holding an API key and isolates HOME.
func writeConfig(t *testing.T) string {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEIDEN_EPIDOC_API_KEY", "")
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: sk-test\n"), 0o600))
	return path
}

// resetFlags restores every flag of cmd and its subcommands to its default,
// so rootCmd can be executed again by the next test.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// prepareRoot points rootCmd at args and fresh output buffers.
func prepareRoot(t *testing.T, args ...string) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = new(bytes.Buffer), new(bytes.Buffer)
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		resetFlags(rootCmd)
		loadedSecrets = nil
	})
	return stdout, stderr
}

func TestConvertCommandStdout(t *testing.T) {
	useBackend(t, echoBackend())
	cfg := writeConfig(t)

	stdout, stderr := prepareRoot(t, "convert", "--config", cfg, "--no-history", "--text", "ΘΕΟΙΣ")
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Equal(t, "<ab>ΘΕΟΙΣ</ab>\n", stdout.String())
	assert.Contains(t, stderr.String(), "tagged_block via stub/echo")
}

func TestConvertCommandMissingKey(t *testing.T) {
	useBackend(t, echoBackend())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LEIDEN_EPIDOC_API_KEY", "")
	cfg := filepath.Join(t.TempDir(), "config.yaml")

	stdout, _ := prepareRoot(t, "convert", "--config", cfg, "--no-history", "--text", "x")
	err := rootCmd.ExecuteContext(context.Background())
	assert.ErrorIs(t, err, convert.ErrAPIKeyMissing)
	assert.Empty(t, stdout.String())
}

func TestConvertCommandOutCollisions(t *testing.T) {
	tests := []struct {
		name      string
		existing  []string
		overwrite bool
		wantXML   string
		wantRaw   string
		untouched []string
	}{
		{
			name:    "free names",
			wantXML: "x.xml",
			wantRaw: "x_full.txt",
		},
		{
			name:      "numbered output numbers the raw file too",
			existing:  []string{"x.xml"},
			wantXML:   "x_1.xml",
			wantRaw:   "x_1_full.txt",
			untouched: []string{"x.xml"},
		},
		{
			name:      "raw name taken after numbering",
			existing:  []string{"x.xml", "x_1_full.txt"},
			wantXML:   "x_1.xml",
			wantRaw:   "x_1_full_1.txt",
			untouched: []string{"x.xml", "x_1_full.txt"},
		},
		{
			name:      "overwrite replaces in place",
			existing:  []string{"x.xml", "x_full.txt"},
			overwrite: true,
			wantXML:   "x.xml",
			wantRaw:   "x_full.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useBackend(t, echoBackend())
			cfg := writeConfig(t)
			dir := t.TempDir()
			for _, name := range tt.existing {
				require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("old"), 0o644))
			}

			args := []string{"convert", "--config", cfg, "--no-history", "--text", "[- - -]",
				"--out", filepath.Join(dir, "x.xml"), "--save-raw"}
			if tt.overwrite {
				args = append(args, "--overwrite")
			}
			stdout, stderr := prepareRoot(t, args...)
			require.NoError(t, rootCmd.ExecuteContext(context.Background()))
			assert.Empty(t, stdout.String())

			xml, err := os.ReadFile(filepath.Join(dir, tt.wantXML))
			require.NoError(t, err)
			assert.Equal(t, "<ab>[- - -]</ab>", string(xml))

			raw, err := os.ReadFile(filepath.Join(dir, tt.wantRaw))
			require.NoError(t, err)
			assert.Contains(t, string(raw), "<final_translation>")

			for _, name := range tt.untouched {
				data, err := os.ReadFile(filepath.Join(dir, name))
				require.NoError(t, err)
				assert.Equal(t, "old", string(data), name)
			}
			assert.Contains(t, stderr.String(), "wrote "+filepath.Join(dir, tt.wantXML))
			assert.Contains(t, stderr.String(), "wrote "+filepath.Join(dir, tt.wantRaw))
		})
	}
}

func TestPromptsExportOrder(t *testing.T) {
	dir := t.TempDir()
	_, stderr := prepareRoot(t, "prompts", "export", "--dir", dir)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	assert.Equal(t,
		"wrote "+filepath.Join(dir, instructionFile)+"\nwrote "+filepath.Join(dir, examplesFile)+"\n",
		stderr.String())
	data, err := os.ReadFile(filepath.Join(dir, examplesFile))
	require.NoError(t, err)
	assert.Equal(t, prompt.DefaultExamples, string(data))
}

func TestPromptsExportStopsAtFirstExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, instructionFile), []byte("mine"), 0o644))

	prepareRoot(t, "prompts", "export", "--dir", dir)
	require.Error(t, rootCmd.ExecuteContext(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, instructionFile))
	require.NoError(t, err)
	assert.Equal(t, "mine", string(data))
	assert.NoFileExists(t, filepath.Join(dir, examplesFile))
}

func TestWatchSessionDiscardsSupersededResult(t *testing.T) {
	started := make(chan struct{})
	b := stubBackend{respond: func(ctx context.Context, source string) (string, error) {
		if source == "first" {
			close(started)
			<-ctx.Done()
			return "<final_translation><ab>first</ab></final_translation>", nil
		}
		return "<final_translation><ab>" + source + "</ab></final_translation>", nil
	}}
	conv := convert.New(func(context.Context, types.Settings) (model.Backend, error) { return b, nil })
	runner := convert.NewRunner(conv)
	defer runner.Stop()

	var stdout, stderr bytes.Buffer
	w := &watchSession{name: "in.txt", r: newRenderer(&stderr), stdout: &stdout, stderr: &stderr}
	s := types.Settings{APIKey: "k", Model: "m", Provider: types.ProviderAnthropic, MaxTokens: 100}
	ctx := context.Background()

	first := runner.Start(ctx, s, prompt.NewRequest("first", "", ""))
	<-started
	second := runner.Start(ctx, s, prompt.NewRequest("second", "", ""))

	assert.False(t, w.deliver(ctx, first))
	assert.Empty(t, stdout.String())

	assert.True(t, w.deliver(ctx, second))
	assert.Equal(t, "<ab>second</ab>\n", stdout.String())
	assert.NotContains(t, stderr.String(), "conversion failed")
}

func TestWatchSessionDelivery(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		respond   func(ctx context.Context, source string) (string, error)
		wantOK    bool
		wantOut   string
		wantError string
	}{
		{
			name:    "result written",
			source:  "DIS MANIBVS",
			respond: echoBackend().respond,
			wantOK:  true,
			wantOut: "<ab>DIS MANIBVS</ab>",
		},
		{
			name:    "empty source skipped",
			source:  "  \n",
			respond: echoBackend().respond,
		},
		{
			name:   "model failure reported",
			source: "x",
			respond: func(context.Context, string) (string, error) {
				return "", assert.AnError
			},
			wantError: "conversion failed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := stubBackend{respond: tt.respond}
			runner := convert.NewRunner(convert.New(func(context.Context, types.Settings) (model.Backend, error) { return b, nil }))
			defer runner.Stop()

			out := filepath.Join(t.TempDir(), "out.xml")
			var stdout, stderr bytes.Buffer
			w := &watchSession{name: "in.txt", out: out, r: newRenderer(&stderr), stdout: &stdout, stderr: &stderr}
			s := types.Settings{APIKey: "k", Model: "m", Provider: types.ProviderAnthropic, MaxTokens: 100}

			job := runner.Start(context.Background(), s, prompt.NewRequest(tt.source, "", ""))
			assert.Equal(t, tt.wantOK, w.deliver(context.Background(), job))
			assert.Empty(t, stdout.String())

			if tt.wantOut == "" {
				assert.NoFileExists(t, out)
			} else {
				data, err := os.ReadFile(out)
				require.NoError(t, err)
				assert.Equal(t, tt.wantOut, string(data))
				assert.Contains(t, stderr.String(), "updated "+out)
			}
			if tt.wantError != "" {
				assert.Contains(t, stderr.String(), tt.wantError)
			}
		})
	}
}

func TestWatchCommandRewritesOutput(t *testing.T) {
	useBackend(t, echoBackend())
	cfg := writeConfig(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "in.txt")
	out := filepath.Join(dir, "out.xml")
	require.NoError(t, os.WriteFile(src, []byte("first"), 0o644))

	prepareRoot(t, "watch", src, "--config", cfg, "--no-history", "--out", out, "--debounce", "10ms")

	ctx, cancel := context.WithCancel(context.Background())
	watchCmd.SetContext(ctx)
	var runErr error
	stopped := make(chan struct{})
	go func() {
		runErr = rootCmd.ExecuteContext(ctx)
		close(stopped)
	}()
	defer func() {
		cancel()
		<-stopped
	}()

	contents := func(want string) func() bool {
		return func() bool {
			data, err := os.ReadFile(out)
			return err == nil && string(data) == want
		}
	}
	require.Eventually(t, contents("<ab>first</ab>"), 5*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(src, []byte("second"), 0o644))
	require.Eventually(t, contents("<ab>second</ab>"), 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-stopped:
		assert.NoError(t, runErr)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
