package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"modelrt/internal/sim"
)

func newSimulateCmd(o *options) *cobra.Command {
	var status bool
	cmd := &cobra.Command{
		Use:     "simulate <scenario.yaml>",
		Short:   "Replay scripted entity snapshots and print per-tick layer states",
		Example: "  modelrt simulate walk.yaml --asset-root ./assets",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sim.Load(args[0])
			if err != nil {
				return err
			}
			clock := sim.NewClock(time.Now())
			m, _, err := buildManager(o, clock.Now)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			r := &sim.Runner{M: m, Clock: clock, Out: out, Log: o.log}
			n, err := r.Run(cmd.Context(), sc)
			if err != nil {
				return err
			}
			if status {
				st := m.Status()
				fmt.Fprintf(out, "ticks=%d cached=%d loads=%d disposals=%d\n",
					n, len(st.Instances), st.LoadsTotal, st.DisposalsTotal)
			}
			m.Close()
			return nil
		},
	}
	cmd.Flags().BoolVar(&status, "status", false, "Print a cache summary after the run")
	return cmd
}
