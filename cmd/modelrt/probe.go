package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"modelrt/internal/manager"
)

func newProbeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:     "probe <model> <clip>",
		Short:   "Show which search folder would serve a clip for a model",
		Example: "  modelrt probe Alicia walk",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, _, err := buildManager(o, nil)
			if err != nil {
				return err
			}
			var dir string
			for _, s := range m.ListModels() {
				if s.Name == args[0] {
					dir = s.Dir
				}
			}
			if dir == "" {
				return manager.ErrModelNotFound(args[0])
			}
			out := cmd.OutOrStdout()
			for i, root := range m.Clips().Roots(dir) {
				fmt.Fprintf(out, "%d %s\n", i, root)
			}
			p, ok := m.Clips().Locate(dir, args[1])
			if !ok {
				return manager.ErrClipNotFound(args[1])
			}
			fmt.Fprintf(out, "-> %s\n", p)
			return nil
		},
	}
}
