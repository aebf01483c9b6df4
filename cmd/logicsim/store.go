// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/db47h/logicsim/internal/store"
	"github.com/spf13/cobra"
)

func (a *app) openStore() (*store.Store, error) {
	return store.Open(store.Config{
		Path:           a.cfg.Store.Path,
		InMemory:       a.cfg.Store.InMemory,
		GCInterval:     a.cfg.Store.GCInterval,
		GCDiscardRatio: 0.5,
		Logger:         a.log,
	})
}

// withStore runs fn with an open store and closes it.
func (a *app) withStore(fn func(*cobra.Command, *store.Store, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		st, err := a.openStore()
		if err != nil {
			return err
		}
		defer func() {
			if cerr := st.Close(); err == nil {
				err = cerr
			}
		}()
		return fn(cmd, st, args)
	}
}

func (a *app) storeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage saved circuits",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "save NAME FILE|PREFAB",
			Short: "Save a circuit under NAME",
			Args:  cobra.ExactArgs(2),
			RunE: a.withStore(func(cmd *cobra.Command, st *store.Store, args []string) error {
				c, err := load(args[1])
				if err != nil {
					return err
				}
				r, err := st.Save(cmd.Context(), args[0], c)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", r.Name, r.ID)
				return nil
			}),
		},
		&cobra.Command{
			Use:   "load NAME",
			Short: "Print a saved circuit as JSON",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStore(func(cmd *cobra.Command, st *store.Store, args []string) error {
				c, _, err := st.Load(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return c.Encode(cmd.OutOrStdout())
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List saved circuits",
			Args:  cobra.NoArgs,
			RunE: a.withStore(func(cmd *cobra.Command, st *store.Store, _ []string) error {
				rs, err := st.List(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "NAME\tELEMENTS\tWIRES\tSAVED\tID")
				for _, r := range rs {
					fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\n", r.Name, r.Elements, r.Wires, r.SavedAt.Format(time.RFC3339), r.ID)
				}
				return tw.Flush()
			}),
		},
		&cobra.Command{
			Use:   "rm NAME",
			Short: "Delete a saved circuit",
			Args:  cobra.ExactArgs(1),
			RunE: a.withStore(func(cmd *cobra.Command, st *store.Store, args []string) error {
				return st.Delete(cmd.Context(), args[0])
			}),
		},
	)
	return cmd
}
