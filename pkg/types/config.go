// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for outbound provider calls.
type HTTPConfig struct {
	// Timeout is the per-provider call deadline (default 8s). Exceeding it
	// is reported as a provider timeout, never as a request failure.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with outbound requests
	// (e.g. "metasearch/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FederationConfig holds settings for the federated search engine.
type FederationConfig struct {
	HTTPConfig `yaml:",inline"`

	// ContactEmail is sent to providers that run polite pools keyed on a
	// mailto parameter (OpenAlex, Crossref).
	ContactEmail string `json:"contact_email,omitempty" yaml:"contact_email,omitempty"`

	// SemanticScholarAPIKey authenticates Semantic Scholar calls. The
	// adapter reports a missing-key error without calling out when empty.
	SemanticScholarAPIKey string `json:"semantic_scholar_api_key,omitempty" yaml:"semantic_scholar_api_key,omitempty"`
}

// ServerConfig holds settings for the HTTP entry point.
type ServerConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr"`

	// Env selects the logger profile: "prod" for JSON logs, anything else
	// for console output.
	Env string `json:"env" yaml:"env"`

	// ShutdownTimeout bounds the graceful drain on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// HistoryConfig holds settings for the search history log.
type HistoryConfig struct {
	// Path is the SQLite database file (default "metasearch-history.db").
	// An empty path disables history recording.
	Path string `json:"path" yaml:"path"`
}

// EngineConfig groups all configuration for the engine.
type EngineConfig struct {
	Federation FederationConfig `json:"federation" yaml:"federation"`
	Server     ServerConfig     `json:"server" yaml:"server"`
	History    HistoryConfig    `json:"history" yaml:"history"`
}

// Defaults fills zero-valued fields with working defaults.
func (c *EngineConfig) Defaults() {
	if c.Federation.Timeout <= 0 {
		c.Federation.Timeout = 8 * time.Second
	}
	if c.Federation.UserAgent == "" {
		c.Federation.UserAgent = "metasearch/0.1"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Env == "" {
		c.Server.Env = "dev"
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
}
