// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the leiden-epidoc CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/leiden-epidoc/internal/logger"
	"github.com/pdiddy/leiden-epidoc/internal/secrets"
	"github.com/pdiddy/leiden-epidoc/internal/settings"
	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

// rootCmd is the base command for the leiden-epidoc CLI.
var rootCmd = &cobra.Command{
	Use:   "leiden-epidoc",
	Short: "Convert Leiden Convention transcriptions to EpiDoc XML",
	Long: `leiden-epidoc sends epigraphic transcriptions written in the Leiden
Conventions to a hosted language model together with a conversion guideline
and worked examples, and extracts the EpiDoc XML from the reply.

Configure an API key once with "leiden-epidoc config set api_key", then run
"leiden-epidoc convert inscription.txt".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		logger.SetVerbose(verbose)

		s, err := secrets.Load(secrets.DefaultDir)
		if err != nil {
			logger.Warn("%v", err)
		}
		loadedSecrets = s
		if names := s.Names(); len(names) > 0 {
			logger.Info("loaded secrets: %v", names)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/leiden-epidoc/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print progress and diagnostics to stderr")
}

// settingsStore returns the store selected by --config.
func settingsStore(cmd *cobra.Command) (*settings.Store, error) {
	path, _ := cmd.Flags().GetString("config")
	return settings.NewStore(path)
}

// loadSettings reads the config file, applies --model and --provider when
// the command has them, and falls back to .secrets/ for the API key. Config
// problems are reported as warnings and never stop the command.
func loadSettings(cmd *cobra.Command) (types.Settings, error) {
	store, err := settingsStore(cmd)
	if err != nil {
		return types.Settings{}, err
	}

	s, warnings := store.Load()
	for _, w := range warnings {
		logger.Warn("%s", w)
	}
	logger.Debug("using config %s", store.Path())

	if f := cmd.Flags().Lookup("model"); f != nil && f.Changed {
		s, err = settings.Set(s, "model", f.Value.String())
		if err != nil {
			return s, err
		}
	}
	if f := cmd.Flags().Lookup("provider"); f != nil && f.Changed {
		s, err = settings.Set(s, "provider", f.Value.String())
		if err != nil {
			return s, err
		}
	}

	if !s.HasAPIKey() {
		if key := loadedSecrets.APIKeyFor(s.Provider); key != "" {
			logger.Debug("using %s API key from %s", s.Provider, secrets.DefaultDir)
			s.APIKey = key
		}
	}
	return s, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
