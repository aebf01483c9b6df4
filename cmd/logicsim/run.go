// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/db47h/logicsim"
	"github.com/db47h/logicsim/internal/assign"
	"github.com/db47h/logicsim/internal/render"
	"github.com/db47h/logicsim/logiclib"
	"github.com/spf13/cobra"
)

type runOpts struct {
	set  string
	json bool
}

func (o *runOpts) flags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.set, "set", "", `switch assignments, e.g. "a=1, b=0, #3=on"`)
	cmd.Flags().BoolVar(&o.json, "json", false, "print the evaluated circuit as JSON")
}

// simulate applies the switch assignments, evaluates s and prints the result
// to w. The returned error is the evaluation error.
func (o *runOpts) simulate(w io.Writer, s *logicsim.Simulator) error {
	as, err := assign.Parse(o.set)
	if err != nil {
		return err
	}
	if err = assign.Apply(s, as); err != nil {
		return err
	}
	evalErr := s.SetSimulation(true)
	if o.json {
		if err = s.Circuit().Encode(w); err != nil {
			return err
		}
	} else {
		fmt.Fprint(w, render.Render(s))
	}
	return evalErr
}

func (a *app) runCmd() *cobra.Command {
	var o runOpts
	cmd := &cobra.Command{
		Use:   "run FILE|PREFAB",
		Short: "Evaluate a circuit and print its state",
		Long: `Evaluate a circuit and print its state.

The circuit is read from FILE, or built from a prefab name if no such file
exists. The command fails if the circuit does not stabilize.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := load(args[0])
			if err != nil {
				return err
			}
			return o.simulate(cmd.OutOrStdout(), a.simulator(c))
		},
	}
	o.flags(cmd)
	return cmd
}

func (a *app) demoCmd() *cobra.Command {
	var list bool
	cmd := &cobra.Command{
		Use:   "demo [PREFAB]",
		Short: "Print a prefab circuit as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list || len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), strings.Join(logiclib.Names(), "\n"))
				return nil
			}
			c, p, err := logiclib.Build(args[0])
			if err != nil {
				return err
			}
			a.log.Debug("prefab built", "name", p.Name, "elements", c.Len(), "inputs", len(p.Inputs), "outputs", len(p.Outputs))
			return c.Encode(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&list, "list", false, "list prefab names")
	return cmd
}
