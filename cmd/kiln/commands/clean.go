package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove the destination directory of every build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Clean(cmd.Context(), app.BuildOptions{ConfigPath: c.configPath})
		},
	}
}
