package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/ffbuild/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [platform]",
		Short: "Build every target of a platform (the host platform by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archs, _ := cmd.Flags().GetStringSlice("arch")
			parallel, _ := cmd.Flags().GetInt("parallel")
			jobs, _ := cmd.Flags().GetInt("jobs")
			force, _ := cmd.Flags().GetBool("force")

			return c.app.Build(cmd.Context(), app.BuildOptions{
				Config:   configPath(cmd),
				Platform: platformArg(args),
				Archs:    archs,
				Parallel: parallel,
				Jobs:     jobs,
				Force:    force,
			})
		},
	}
	cmd.Flags().StringSliceP("arch", "a", nil, "Architectures to build (x64, arm64); all by default")
	cmd.Flags().IntP("parallel", "p", 1, "Number of targets built at once")
	cmd.Flags().IntP("jobs", "j", 0, "Jobs passed to make; one per CPU by default")
	cmd.Flags().BoolP("force", "f", false, "Rebuild targets whose build record is current")
	return cmd
}
