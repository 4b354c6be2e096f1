// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package settings loads and saves the persisted configuration. The result is
// a plain types.Settings value that callers pass along explicitly.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/leiden-epidoc/pkg/types"
)

const (
	appName     = "leiden-epidoc"
	configName  = "config.yaml"
	historyName = "history.db"

	// EnvPrefix prefixes environment overrides, e.g. LEIDEN_EPIDOC_API_KEY.
	EnvPrefix = "LEIDEN_EPIDOC"
)

// Store owns the config file at one path.
type Store struct {
	path string
}

// DefaultPath returns ~/.config/leiden-epidoc/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locating home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName, configName), nil
}

// NewStore returns a store for path, or for DefaultPath when path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &Store{path: path}, nil
}

// Path returns the config file path.
func (s *Store) Path() string {
	return s.path
}

// Defaults returns the settings used when nothing is configured.
func (s *Store) Defaults() types.Settings {
	saveLocation, err := os.UserHomeDir()
	if err != nil {
		saveLocation = "."
	}
	return types.Settings{
		Model:        types.DefaultModel,
		SaveLocation: saveLocation,
		Provider:     types.DefaultProvider,
		MaxTokens:    types.DefaultMaxTokens,
		HistoryDB:    filepath.Join(filepath.Dir(s.path), historyName),
	}
}

// Load reads the config file and applies LEIDEN_EPIDOC_* environment
// overrides. An absent file yields the defaults. A malformed file is ignored
// and reported in the returned warnings; Load never fails.
func (s *Store) Load() (types.Settings, []string) {
	return s.load(true)
}

// LoadFile is Load without environment overrides. Use it before Save so
// values from the environment are not written to disk.
func (s *Store) LoadFile() (types.Settings, []string) {
	return s.load(false)
}

func (s *Store) load(withEnv bool) (types.Settings, []string) {
	defaults := s.Defaults()

	v := viper.New()
	v.SetConfigFile(s.path)
	if filepath.Ext(s.path) == "" {
		v.SetConfigType("yaml")
	}
	v.SetDefault("api_key", defaults.APIKey)
	v.SetDefault("model", defaults.Model)
	v.SetDefault("save_location", defaults.SaveLocation)
	v.SetDefault("provider", string(defaults.Provider))
	v.SetDefault("max_tokens", defaults.MaxTokens)
	v.SetDefault("history_db", defaults.HistoryDB)
	if withEnv {
		v.SetEnvPrefix(EnvPrefix)
		v.AutomaticEnv()
	}

	var warnings []string
	if err := v.ReadInConfig(); err != nil && !isNotFound(err) {
		warnings = append(warnings, fmt.Sprintf("ignoring config %s: %v", s.path, err))
	}

	var out types.Settings
	if err := v.Unmarshal(&out); err != nil {
		warnings = append(warnings, fmt.Sprintf("ignoring config %s: %v", s.path, err))
		return defaults, warnings
	}
	return normalize(out, defaults), warnings
}

func isNotFound(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.As(err, &nf) || errors.Is(err, fs.ErrNotExist)
}

// normalize fills empty or invalid fields from defaults and expands ~/.
func normalize(s, defaults types.Settings) types.Settings {
	if s.Model == "" {
		s.Model = defaults.Model
	}
	if s.Provider == "" {
		s.Provider = defaults.Provider
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = defaults.MaxTokens
	}
	if s.SaveLocation == "" {
		s.SaveLocation = defaults.SaveLocation
	}
	if s.HistoryDB == "" {
		s.HistoryDB = defaults.HistoryDB
	}
	s.SaveLocation = expandHome(s.SaveLocation)
	s.HistoryDB = expandHome(s.HistoryDB)
	return s
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Save writes settings to the config file as YAML, or as JSON or TOML when
// the path has that extension.
// The file holds the API key, so it is written with mode 0600.
func (s *Store) Save(cfg types.Settings) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	case ".toml":
		data, err = toml.Marshal(cfg)
	default:
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", s.path, err)
	}
	return nil
}

// setters maps each recognized key to a function that validates and applies it.
var setters = map[string]func(*types.Settings, string) error{
	"api_key": func(s *types.Settings, v string) error {
		s.APIKey = strings.TrimSpace(v)
		return nil
	},
	"model": func(s *types.Settings, v string) error {
		if v == "" {
			return errors.New("model must not be empty")
		}
		s.Model = v
		return nil
	},
	"save_location": func(s *types.Settings, v string) error {
		s.SaveLocation = v
		return nil
	},
	"provider": func(s *types.Settings, v string) error {
		p := types.Provider(strings.ToLower(v))
		if p != types.ProviderAnthropic && p != types.ProviderGemini {
			return fmt.Errorf("unknown provider %q: use %s or %s", v, types.ProviderAnthropic, types.ProviderGemini)
		}
		s.Provider = p
		return nil
	},
	"max_tokens": func(s *types.Settings, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("max_tokens must be a positive integer, got %q", v)
		}
		s.MaxTokens = n
		return nil
	},
	"history_db": func(s *types.Settings, v string) error {
		s.HistoryDB = v
		return nil
	},
}

// Keys returns the recognized setting names in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(setters))
	for k := range setters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Set returns cfg with key set to value.
func Set(cfg types.Settings, key, value string) (types.Settings, error) {
	set, ok := setters[strings.ToLower(key)]
	if !ok {
		return cfg, fmt.Errorf("unknown setting %q: valid keys are %s", key, strings.Join(Keys(), ", "))
	}
	if err := set(&cfg, value); err != nil {
		return cfg, err
	}
	return cfg, nil
}
