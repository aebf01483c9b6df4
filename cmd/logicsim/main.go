// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Command logicsim evaluates, serves and edits logic circuits.
//
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/db47h/logicsim"
	"github.com/db47h/logicsim/internal/config"
	"github.com/db47h/logicsim/internal/logging"
	"github.com/db47h/logicsim/internal/watch"
	"github.com/db47h/logicsim/logiclib"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

type app struct {
	cfgPath  string
	logLevel string

	cfg config.Config
	log *slog.Logger
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.cfgPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err = cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg
	a.log, err = logging.New(cmd.ErrOrStderr(), cfg.Log)
	return err
}

func (a *app) simulator(c *logicsim.Circuit, opts ...logicsim.Option) *logicsim.Simulator {
	opts = append([]logicsim.Option{
		logicsim.WithLogger(a.log),
		logicsim.WithMaxRounds(a.cfg.Engine.MaxRounds),
		logicsim.WithFeedbackCheck(a.cfg.Engine.RejectFeedback),
	}, opts...)
	return logicsim.NewSimulator(c, opts...)
}

// load reads a circuit file. If no such file exists and arg names a prefab,
// the prefab is built instead.
func load(arg string) (*logicsim.Circuit, error) {
	c, err := watch.Load(arg)
	if err == nil || !errors.Is(err, os.ErrNotExist) {
		return c, err
	}
	c, _, berr := logiclib.Build(arg)
	if berr != nil {
		return nil, err
	}
	return c, nil
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "logicsim",
		Short:             "Combinational logic circuit simulator",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.cfgPath, "config", "", "YAML configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		a.runCmd(),
		a.demoCmd(),
		a.tuiCmd(),
		a.serveCmd(),
		a.watchCmd(),
		a.storeCmd(),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "logicsim:", err)
		os.Exit(1)
	}
}
