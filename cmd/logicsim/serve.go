// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/db47h/logicsim"
	"github.com/db47h/logicsim/internal/metrics"
	"github.com/db47h/logicsim/internal/server"
	"github.com/db47h/logicsim/internal/tui"
	"github.com/db47h/logicsim/internal/watch"
	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func signalContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

func (a *app) tuiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui FILE|PREFAB",
		Short: "Interactive terminal simulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(tui.New(a.simulator(c)),
				tea.WithInput(cmd.InOrStdin()),
				tea.WithOutput(cmd.OutOrStdout()))
			_, err = p.Run()
			return errors.Wrap(err, "tui")
		},
	}
}

func (a *app) serveCmd() *cobra.Command {
	var follow bool
	cmd := &cobra.Command{
		Use:   "serve [FILE|PREFAB]",
		Short: "Serve the HTTP API",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := logicsim.New()
			if len(args) > 0 {
				var err error
				if c, err = load(args[0]); err != nil {
					return err
				}
			}
			if follow && len(args) == 0 {
				return errors.New("--watch requires a circuit file")
			}

			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			m := metrics.New(reg)
			s := a.simulator(c, logicsim.WithProbe(m.Probe()))

			if a.cfg.Server.Debug {
				gin.SetMode(gin.DebugMode)
			} else {
				gin.SetMode(gin.ReleaseMode)
			}
			scfg := server.Config{
				Debug:   a.cfg.Server.Debug,
				Metrics: m,
				Logger:  a.log,
			}
			if a.cfg.Metrics.Enabled {
				scfg.MetricsPath = a.cfg.Metrics.Path
				scfg.Gatherer = reg
			}
			srv := server.New(s, scfg)

			ctx, stop := signalContext(cmd.Context())
			defer stop()
			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(ctx, a.cfg.Server.Addr)
			})
			if follow {
				w, err := watch.New(args[0], func(c *logicsim.Circuit, err error) {
					if err == nil {
						srv.Replace(c)
					}
				}, a.cfg.Watch.Debounce)
				if err != nil {
					return err
				}
				w.Log = a.log
				g.Go(func() error {
					return w.Run(ctx)
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().BoolVar(&follow, "watch", false, "reload the circuit file when it changes")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var o runOpts
	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Evaluate a circuit file every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			show := func(c *logicsim.Circuit, err error) {
				if err == nil {
					err = o.simulate(out, a.simulator(c))
				}
				if err != nil {
					fmt.Fprintln(out, "error:", err)
				}
			}
			show(watch.Load(args[0]))

			w, err := watch.New(args[0], show, a.cfg.Watch.Debounce)
			if err != nil {
				return err
			}
			w.Log = a.log
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return w.Run(ctx)
		},
	}
	o.flags(cmd)
	return cmd
}
