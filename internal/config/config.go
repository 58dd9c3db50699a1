// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package config loads console settings.
//
// Settings are resolved in three layers: built-in defaults, then the optional
// YAML file, then ACM_CONSOLE_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/kuklas/acm-user-interface-sub002/internal/perspective"
	"github.com/kuklas/acm-user-interface-sub002/internal/scope"
	"github.com/kuklas/acm-user-interface-sub002/internal/viewctx"
	"github.com/kuklas/acm-user-interface-sub002/pkg/queries"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "ACM_CONSOLE_"

// PathEnv names the variable holding the config file path.
const PathEnv = EnvPrefix + "CONFIG"

// DefaultDir holds the default config file and the session logs.
const DefaultDir = ".acm-console"

// DefaultPath is read when no path is given. A missing file there is not an error.
var DefaultPath = filepath.Join(DefaultDir, "config.yaml")

// ScopeRule maps an impersonated group to a label selector over record fields.
type ScopeRule struct {
	Group    string `yaml:"group"`
	Selector string `yaml:"selector"`
}

// Config is the resolved console configuration.
type Config struct {
	// Actor overrides the signed-in identity. Empty means kubeconfig, then kube:admin.
	Actor              string               `yaml:"actor"`
	Perspective        string               `yaml:"perspective"`
	ImpersonationDelay time.Duration        `yaml:"impersonationDelay"`
	LogDir             string               `yaml:"logDir"`
	LogLevel           string               `yaml:"logLevel"`
	Kubeconfig         string               `yaml:"kubeconfig"`
	ScopeRules         []ScopeRule          `yaml:"scopeRules"`
	Filters            []queries.SavedQuery `yaml:"filters"`
}

// envOverrides holds the settings that may come from the environment.
type envOverrides struct {
	Actor              string        `env:"ACTOR"`
	Perspective        string        `env:"PERSPECTIVE"`
	ImpersonationDelay time.Duration `env:"IMPERSONATION_DELAY"`
	LogDir             string        `env:"LOG_DIR"`
	LogLevel           string        `env:"LOG_LEVEL"`
	Kubeconfig         string        `env:"KUBECONFIG"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Perspective:        perspective.FleetManagement.String(),
		ImpersonationDelay: viewctx.DefaultDelay,
		LogDir:             filepath.Join(DefaultDir, "logs"),
		LogLevel:           zerolog.InfoLevel.String(),
	}
}

// Load resolves the configuration. path may be empty, in which case PathEnv and
// then DefaultPath are tried. environ supplies the environment; nil means the
// process environment.
func Load(path string, environ map[string]string) (Config, error) {
	if environ == nil {
		environ = env.ToMap(os.Environ())
	}
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = environ[PathEnv]
		explicit = path != ""
	}
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config file %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	if err := cfg.applyEnv(environ); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overwrites the fields whose variables are set in environ.
func (c *Config) applyEnv(environ map[string]string) error {
	raw := envOverrides{
		Actor:              c.Actor,
		Perspective:        c.Perspective,
		ImpersonationDelay: c.ImpersonationDelay,
		LogDir:             c.LogDir,
		LogLevel:           c.LogLevel,
		Kubeconfig:         c.Kubeconfig,
	}
	if err := env.ParseWithOptions(&raw, env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	c.Actor = raw.Actor
	c.Perspective = raw.Perspective
	c.ImpersonationDelay = raw.ImpersonationDelay
	c.LogDir = raw.LogDir
	c.LogLevel = raw.LogLevel
	c.Kubeconfig = raw.Kubeconfig
	return nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks field values.
func (c Config) Validate() error {
	if _, err := perspective.Parse(c.Perspective); err != nil {
		return fmt.Errorf("config perspective: %w", err)
	}
	if c.ImpersonationDelay < 0 {
		return fmt.Errorf("config impersonationDelay: must not be negative, got %s", c.ImpersonationDelay)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config logLevel: %w", err)
	}
	if _, err := c.ScopeFilter(); err != nil {
		return err
	}
	if _, err := c.QueryStore(); err != nil {
		return err
	}
	return nil
}

// InitialPerspective returns the configured starting perspective.
func (c Config) InitialPerspective() perspective.Perspective {
	p, err := perspective.Parse(c.Perspective)
	if err != nil {
		return perspective.FleetManagement
	}
	return p
}

// Level returns the configured log level, defaulting to info.
func (c Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil || c.LogLevel == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

// ScopeFilter returns the built-in scope rule plus the configured ones.
func (c Config) ScopeFilter() (*scope.Filter, error) {
	f := scope.NewFilter()
	for i, r := range c.ScopeRules {
		if err := f.AddRule(r.Group, r.Selector); err != nil {
			return nil, fmt.Errorf("config scopeRules[%d]: %w", i, err)
		}
	}
	return f, nil
}

// QueryStore returns the built-in named filters merged with the configured ones.
func (c Config) QueryStore() (*queries.QueryStore, error) {
	store, err := queries.NewQueryStore(c.Filters)
	if err != nil {
		return nil, fmt.Errorf("config filters: %w", err)
	}
	return store, nil
}
