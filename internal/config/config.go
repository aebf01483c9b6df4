// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package config loads the logicsim configuration.
//
// Configuration comes from defaults, then an optional YAML file, then
// LOGICSIM_* environment variables.
//
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config is the complete configuration.
//
type Config struct {
	Log     Log     `yaml:"log"`
	Engine  Engine  `yaml:"engine"`
	Server  Server  `yaml:"server"`
	Store   Store   `yaml:"store"`
	Metrics Metrics `yaml:"metrics"`
	Watch   Watch   `yaml:"watch"`
}

// Log configures logging.
//
type Log struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

// Engine configures circuit evaluation.
//
type Engine struct {
	// MaxRounds caps stabilization. 0 selects the circuit element count.
	MaxRounds int `yaml:"max_rounds" validate:"gte=0"`
	// RejectFeedback refuses wires that would close a feedback loop.
	RejectFeedback bool `yaml:"reject_feedback"`
}

// Server configures the HTTP API.
//
type Server struct {
	Addr  string `yaml:"addr" validate:"required,hostname_port"`
	Debug bool   `yaml:"debug"`
}

// Store configures circuit persistence.
//
type Store struct {
	Path       string        `yaml:"path" validate:"required_unless=InMemory true"`
	InMemory   bool          `yaml:"in_memory"`
	GCInterval time.Duration `yaml:"gc_interval" validate:"gte=0"`
}

// Metrics configures the Prometheus endpoint.
//
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path" validate:"startswith=/"`
}

// Watch configures the file watcher.
//
type Watch struct {
	Debounce time.Duration `yaml:"debounce" validate:"gte=0"`
}

// Default returns the default configuration.
//
func Default() Config {
	return Config{
		Log:     Log{Level: "info", Format: "text"},
		Server:  Server{Addr: "localhost:8080"},
		Store:   Store{Path: "logicsim.db", GCInterval: 5 * time.Minute},
		Metrics: Metrics{Enabled: true, Path: "/metrics"},
		Watch:   Watch{Debounce: 100 * time.Millisecond},
	}
}

var validate = validator.New()

// Validate checks the configuration values.
//
func (c *Config) Validate() error {
	return errors.Wrap(validate.Struct(c), "invalid config")
}

// Load returns the default configuration overridden by the YAML file at path
// (if path is not empty) and by the environment. A missing file is an error.
//
func Load(path string) (Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return c, errors.Wrap(err, "load config")
		}
		if err := yaml.Unmarshal(b, &c); err != nil {
			return c, errors.Wrapf(err, "parse %s", path)
		}
	}
	fromEnv(&c, os.LookupEnv)
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, nil
}

func fromEnv(c *Config, env func(string) (string, bool)) {
	if v, ok := env("LOGICSIM_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := env("LOGICSIM_LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := env("LOGICSIM_MAX_ROUNDS"); ok {
		if i, err := strconv.Atoi(v); err == nil {
			c.Engine.MaxRounds = i
		}
	}
	if v, ok := env("LOGICSIM_REJECT_FEEDBACK"); ok {
		c.Engine.RejectFeedback = v == "true" || v == "1"
	}
	if v, ok := env("LOGICSIM_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := env("LOGICSIM_STORE"); ok {
		c.Store.Path = v
	}
}
