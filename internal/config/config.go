// Package config loads the optional .actiondocs.yaml project file and the
// process environment. Flags always win over both; the precedence chain is
// flags, then environment, then file, then defaults.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/actiondocs/internal/errors"
	"git.home.luguber.info/inful/actiondocs/internal/section"
)

// DefaultPath is the project config file looked up when no --config flag
// is given.
const DefaultPath = ".actiondocs.yaml"

// Config is the file-level configuration.
type Config struct {
	// Manifests lists the action/workflow files to document.
	Manifests []string `yaml:"manifests"`

	// Output is the destination document. Relative paths resolve against
	// the working directory.
	Output string `yaml:"output"`

	// Tool selects the migration source format for the migrate command.
	Tool string `yaml:"tool,omitempty"`

	// Sections restricts generation to the named sections. Empty means all.
	Sections []string `yaml:"sections,omitempty"`

	// MetricsAddr serves prometheus metrics in watch mode when non-empty.
	MetricsAddr string `yaml:"metrics_addr,omitempty"`

	// PushGateway receives metrics from one-shot command runs, which
	// live too briefly to be scraped.
	PushGateway string `yaml:"push_gateway,omitempty"`

	// Every triggers a periodic full rebuild in watch mode.
	Every time.Duration `yaml:"every,omitempty"`

	// Verbose enables debug logging.
	Verbose bool `yaml:"verbose,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Manifests: []string{"action.yml"},
		Output:    "README.md",
	}
}

// Load reads the config file at path after loading .env files into the
// process environment. Environment references in the YAML ($VAR or
// ${VAR}) are expanded before parsing. A missing file at the default
// path yields defaults; a missing file at an explicit path is an error.
func Load(path string) (*Config, error) {
	LoadEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "config file not found").
				WithContext("path", path)
		}
		return Default(), nil
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "read config file").
			WithContext("path", path)
	}

	cfg := Default()
	expanded := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConfig, errors.SeverityFatal, "parse config file").
			WithContext("path", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field values that cannot be expressed by the YAML
// schema alone.
func (c *Config) Validate() error {
	if len(c.Manifests) == 0 {
		return errors.New(errors.CategoryConfig, errors.SeverityFatal, "no manifests configured")
	}
	if c.Output == "" {
		return errors.New(errors.CategoryConfig, errors.SeverityFatal, "no output configured")
	}
	for _, s := range c.Sections {
		if !section.Valid(section.Identifier(s)) {
			return errors.New(errors.CategoryConfig, errors.SeverityFatal, "unknown section "+s)
		}
	}
	if c.Every < 0 {
		return errors.New(errors.CategoryConfig, errors.SeverityFatal, "negative rebuild interval")
	}
	return nil
}

// SectionIdentifiers returns the configured sections as typed
// identifiers. Call Validate first.
func (c *Config) SectionIdentifiers() []section.Identifier {
	out := make([]section.Identifier, 0, len(c.Sections))
	for _, s := range c.Sections {
		out = append(out, section.Identifier(s))
	}
	return out
}
