package orchestrator

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/dusk-indust/userposts/internal/resource"
)

// Config holds runtime configuration for talking to the remote API.
type Config struct {
	// BaseURL is the API origin; resource paths resolve relative to it.
	BaseURL string

	// Timeout bounds each request. Zero keeps the client default.
	Timeout time.Duration

	// UserAgent is sent with every request when non-empty.
	UserAgent string

	// Verbose logs fetch failures.
	Verbose bool

	// TraceEndpoint is the OTLP/HTTP collector request spans are exported
	// to. Empty disables tracing.
	TraceEndpoint string
}

// Validate reports configuration that cannot produce a working client.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return errors.New("config: base url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("config: base url: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("config: base url %q must be absolute", c.BaseURL)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("config: timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

// NewClient builds the HTTP resource client described by c.
func (c Config) NewClient() (*resource.HTTPClient, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var opts []resource.ClientOption
	if c.Timeout > 0 {
		opts = append(opts, resource.WithTimeout(c.Timeout))
	}
	if c.UserAgent != "" {
		opts = append(opts, resource.WithUserAgent(c.UserAgent))
	}
	return resource.NewHTTPClient(c.BaseURL, opts...)
}

// NewFromConfig builds the client described by cfg and an Orchestrator on
// top of it. opts are applied after the config-derived ones.
func NewFromConfig(cfg Config, opts ...Option) (*Orchestrator, error) {
	client, err := cfg.NewClient()
	if err != nil {
		return nil, err
	}
	return New(client, append([]Option{WithVerbose(cfg.Verbose)}, opts...)...), nil
}
