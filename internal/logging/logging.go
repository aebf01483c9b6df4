// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package logging builds slog loggers from the logging configuration.
//
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/db47h/logicsim/internal/config"
	"github.com/pkg/errors"
)

// ParseLevel converts a level name to a slog.Level.
//
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, errors.Errorf("unknown log level %q", s)
}

// New returns a logger writing to w in the configured format and level.
//
func New(w io.Writer, cfg config.Log) (*slog.Logger, error) {
	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	case "text", "":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
	return nil, errors.Errorf("unknown log format %q", cfg.Format)
}
