package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/ffbuild/internal/app"
)

func (c *CLI) newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Upload the artifacts and their checksums to the configured bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prefix, _ := cmd.Flags().GetString("prefix")

			keys, err := c.app.Publish(cmd.Context(), app.PublishOptions{
				Config: configPath(cmd),
				Prefix: prefix,
			})
			if err != nil {
				return err
			}
			for _, k := range keys {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
	cmd.Flags().String("prefix", "", "Object key prefix, overriding the manifest")
	return cmd
}
