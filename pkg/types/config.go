// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Provider identifies the hosted model API a conversion is sent to.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// Default settings used when the config file is absent or malformed.
const (
	DefaultModel     = "claude-sonnet-4-20250514"
	DefaultProvider  = ProviderAnthropic
	DefaultMaxTokens = 8192
)

// Settings is the persisted key-value configuration. It is loaded once at
// startup and passed explicitly to every conversion.
type Settings struct {
	// APIKey is the authentication key for the model API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key" toml:"api_key,omitempty"`

	// Model is the model identifier (e.g. "claude-sonnet-4-20250514").
	Model string `json:"model" yaml:"model" mapstructure:"model" toml:"model"`

	// SaveLocation is the default directory for saved outputs.
	SaveLocation string `json:"save_location" yaml:"save_location" mapstructure:"save_location" toml:"save_location"`

	// Provider selects the model API: anthropic or gemini.
	Provider Provider `json:"provider" yaml:"provider" mapstructure:"provider" toml:"provider"`

	// MaxTokens caps the length of the model response.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens" toml:"max_tokens"`

	// HistoryDB is the path of the conversion archive database.
	HistoryDB string `json:"history_db" yaml:"history_db" mapstructure:"history_db" toml:"history_db"`
}

// HasAPIKey reports whether an API key is configured.
func (s Settings) HasAPIKey() bool {
	return s.APIKey != ""
}

// Redacted returns a copy with the API key masked, for display.
func (s Settings) Redacted() Settings {
	if len(s.APIKey) > 8 {
		s.APIKey = s.APIKey[:4] + "..." + s.APIKey[len(s.APIKey)-4:]
	} else if s.APIKey != "" {
		s.APIKey = "****"
	}
	return s
}
