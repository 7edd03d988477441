package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/adapters/watcher"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Build, then rebuild whenever a source file changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.buildOptions(cmd)
			if err != nil {
				return err
			}
			window, _ := cmd.Flags().GetDuration("debounce")
			return c.finish(c.app.Watch(cmd.Context(), opts, window))
		},
	}
	addBuildFlags(cmd)
	cmd.Flags().Duration("debounce", watcher.DefaultWindow, "Quiet period after a change before rebuilding")
	return cmd
}
