package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ProjectConfig holds settings loaded from userposts.yml and the environment.
type ProjectConfig struct {
	BaseURL   string        `yaml:"baseURL,omitempty" env:"USERPOSTS_BASE_URL"`
	Timeout   time.Duration `yaml:"timeout,omitempty" env:"USERPOSTS_TIMEOUT"`
	UserAgent string        `yaml:"userAgent,omitempty" env:"USERPOSTS_USER_AGENT"`
	Verbose   bool          `yaml:"verbose,omitempty" env:"USERPOSTS_VERBOSE"`

	// TraceEndpoint is an OTLP/HTTP collector URL. Empty disables tracing.
	TraceEndpoint string `yaml:"traceEndpoint,omitempty" env:"USERPOSTS_OTEL_ENDPOINT"`
}

// Load attempts to read userposts.yml or userposts.yaml from the given
// directory. Returns a zero-value config (not an error) if no config file
// exists.
func Load(dir string) (*ProjectConfig, error) {
	for _, name := range []string{"userposts.yml", "userposts.yaml"} {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg ProjectConfig
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		return &cfg, nil
	}
	return &ProjectConfig{}, nil
}

// ApplyEnv overrides fields whose environment variable is set.
func (c *ProjectConfig) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}
