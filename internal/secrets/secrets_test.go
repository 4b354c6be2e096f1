// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T) string
		want  Secrets
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "  sk-ant-123  \n")
				writeFile(t, dir, "gemini-api-key", "AIza-456")
				return dir
			},
			want: Secrets{
				"anthropic-api-key": "sk-ant-123",
				"gemini-api-key":    "AIza-456",
			},
		},
		{
			name: "returns empty set for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: Secrets{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, "anthropic-api-key", "valid-key")
				writeFile(t, dir, "gemini-api-key", "   \n\t  ")
				return dir
			},
			want: Secrets{"anthropic-api-key": "valid-key"},
		},
		{
			name: "skips dotfiles and subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, "anthropic-api-key", "real")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: Secrets{"anthropic-api-key": "real"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(tt.setup(t))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read files without permission bits")
	}
	dir := t.TempDir()
	writeFile(t, dir, "anthropic-api-key", "value123")

	badPath := filepath.Join(dir, "gemini-api-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "value123", got["anthropic-api-key"])
	_, hasBad := got["gemini-api-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func TestAPIKeyFor(t *testing.T) {
	s := Secrets{"anthropic-api-key": "ak", "gemini-api-key": "gk"}
	assert.Equal(t, "ak", s.APIKeyFor(types.ProviderAnthropic))
	assert.Equal(t, "ak", s.APIKeyFor(""))
	assert.Equal(t, "gk", s.APIKeyFor(types.ProviderGemini))
	assert.Equal(t, "", s.APIKeyFor("openai"))
	assert.Equal(t, "", Secrets{}.APIKeyFor(types.ProviderAnthropic))
}

func TestNames(t *testing.T) {
	s := Secrets{"gemini-api-key": "g", "anthropic-api-key": "a"}
	assert.Equal(t, []string{"anthropic-api-key", "gemini-api-key"}, s.Names())
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
