// Package config loads tool configuration from DRY_AI_-prefixed
// environment variables and wires the zerolog global logger. The SDK reads
// a few of the same variables on its own; this package exists so the CLI
// and the MCP server resolve every knob in one place.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/drydotai/dry-go/client"
)

// Config holds tool configuration. Environment variables are parsed from
// the DRY_AI_ prefix, e.g. DRY_AI_SERVER, DRY_AI_TOKEN.
type Config struct {
	// ServerURL is the service endpoint.
	ServerURL string `envconfig:"SERVER" default:"https://dry.ai"`

	// Token short-circuits the login flow when set.
	Token string `envconfig:"TOKEN" default:""`

	// Verbose turns on per-call confirmation logging. Accepts true/1/yes.
	Verbose string `envconfig:"VERBOSE" default:""`

	// Timeout bounds each HTTP request.
	Timeout time.Duration `envconfig:"TIMEOUT" default:"30s"`

	// ReadRetries bounds automatic retries of timed-out read calls.
	ReadRetries int `envconfig:"READ_RETRIES" default:"0"`

	// CredentialFile overrides the cached credential location.
	CredentialFile string `envconfig:"CREDENTIAL_FILE" default:""`

	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// New creates a Config by parsing DRY_AI_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("DRY_AI", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	return &cfg, nil
}

// Init wires the global logger and emits the resolved configuration. The
// token itself is never logged.
func (c *Config) Init() {
	InitLogger()
	SetLogLevel(c.Level())

	log.Info().
		Str("server_url", c.ServerURL).
		Bool("token_present", c.Token != "").
		Bool("verbose", c.VerboseEnabled()).
		Dur("timeout", c.Timeout).
		Int("read_retries", c.ReadRetries).
		Str("log_level", c.Level().String()).
		Msg("configuration loaded")
}

// VerboseEnabled parses the Verbose toggle with the same rule the SDK
// applies to DRY_AI_VERBOSE.
func (c *Config) VerboseEnabled() bool {
	switch strings.ToLower(c.Verbose) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// Level parses the configured log level, defaulting to info.
func (c *Config) Level() zerolog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ClientOptions translates the configuration into SDK options.
func (c *Config) ClientOptions() []client.Option {
	opts := []client.Option{
		client.WithServerURL(c.ServerURL),
		client.WithHTTPTimeout(c.Timeout),
		client.WithReadRetries(c.ReadRetries),
		client.WithVerbose(c.VerboseEnabled()),
		client.WithLogger(log.Logger),
	}
	if c.Token != "" {
		opts = append(opts, client.WithToken(c.Token))
	}
	if c.CredentialFile != "" {
		opts = append(opts, client.WithCredentialFile(c.CredentialFile))
	}
	return opts
}
