// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
	"golang.org/x/term"

	"github.com/pdiddy/leiden-epidoc/internal/logger"
	"github.com/pdiddy/leiden-epidoc/internal/settings"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the persisted settings",
	Long: `Config manages the settings file (default
~/.config/leiden-epidoc/config.yaml). Settings can also be overridden with
environment variables named LEIDEN_EPIDOC_<KEY>, for example
LEIDEN_EPIDOC_API_KEY.

Keys: ` + strings.Join(settings.Keys(), ", "),
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings with the API key masked",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(s.Redacted())
		if err != nil {
			return fmt.Errorf("marshaling settings: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := settingsStore(cmd)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), store.Path())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Change one setting",
	Long: `Set stores one setting in the config file. When the key is api_key and no
value is given, the key is read from the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runConfigSet,
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	store, err := settingsStore(cmd)
	if err != nil {
		return err
	}

	key := strings.ToLower(args[0])
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == "api_key":
		value, err = readSecret(cmd, "API key: ")
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("missing value for %s", key)
	}

	// Start from the file alone so environment overrides are not persisted.
	s, warnings := store.LoadFile()
	for _, w := range warnings {
		logger.Warn("%s", w)
	}
	s, err = settings.Set(s, key, value)
	if err != nil {
		return err
	}
	if err := store.Save(s); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved %s to %s\n", key, store.Path())
	return nil
}

// readSecret reads one line without echo from a terminal, or plainly from a pipe.
func readSecret(cmd *cobra.Command, promptText string) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(cmd.ErrOrStderr(), promptText)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("reading API key: %w", err)
		}
		return strings.TrimSpace(string(b)), nil
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", errors.New("no API key given")
	}
	return line, nil
}

func init() {
	configCmd.AddCommand(configShowCmd, configPathCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
