package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/ffbuild/internal/app"
	"go.trai.ch/ffbuild/internal/core/domain"
)

func (c *CLI) newPackageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "package",
		Short: "Pack the artifacts and their checksums into a tarball",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, _ := cmd.Flags().GetString("format")
			output, _ := cmd.Flags().GetString("output")

			dest, err := c.app.Package(cmd.Context(), app.PackageOptions{
				Config: configPath(cmd),
				Format: format,
				Output: output,
			})
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), dest)
			return nil
		},
	}
	cmd.Flags().String("format", string(domain.ArchiveTarGz), "Archive format: tar.gz, tar.xz or tar.zst")
	cmd.Flags().StringP("output", "o", "", "Archive path; <binary>.<format> next to the artifacts by default")
	return cmd
}
