package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Run every build declared in the build file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := c.buildOptions(cmd)
			if err != nil {
				return err
			}
			return c.finish(c.app.Build(cmd.Context(), opts))
		},
	}
	addBuildFlags(cmd)
	return cmd
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("rebuild", "r", false, "Ignore the saved state and rebuild everything")
	cmd.Flags().Bool("release", false, "Build for release")
	cmd.Flags().String("flavor", "", "Build flavor")
	cmd.Flags().String("configuration", "", "Flavor and mode in one, e.g. Mobile-Release or Debug")
	cmd.Flags().Bool("diag-output", false, "Log every file built or deleted")
	cmd.MarkFlagsMutuallyExclusive("configuration", "release")
	cmd.MarkFlagsMutuallyExclusive("configuration", "flavor")
}

// buildOptions maps the build flags onto overrides. Only flags given on the command line override
// the build file.
func (c *CLI) buildOptions(cmd *cobra.Command) (app.BuildOptions, error) {
	flags := cmd.Flags()
	var o domain.Overrides
	o.Rebuild, _ = flags.GetBool("rebuild")
	o.DiagOutput, _ = flags.GetBool("diag-output")

	if flags.Changed("release") {
		release, _ := flags.GetBool("release")
		o.Release = &release
	}
	if flags.Changed("flavor") {
		flavor, _ := flags.GetString("flavor")
		o.Flavor = &flavor
	}
	if flags.Changed("configuration") {
		name, _ := flags.GetString("configuration")
		flavor, hasFlavor, release, err := domain.ParseConfiguration(name)
		if err != nil {
			return app.BuildOptions{}, err
		}
		o.Release = &release
		if hasFlavor {
			o.Flavor = &flavor
		}
	}

	return app.BuildOptions{ConfigPath: c.configPath, Overrides: o}, nil
}
