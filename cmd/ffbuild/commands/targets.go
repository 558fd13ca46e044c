package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *CLI) newTargetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "targets",
		Short: "List the registered targets and their toolchains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targets, err := c.app.Targets(configPath(cmd))
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "TARGET\tHOST\tCC\tCAPABILITIES")
			for _, t := range targets {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					t.ID, t.Toolchain.HostTriple, t.Toolchain.CC, strings.Join(t.Capabilities.Names(), ","))
			}
			return w.Flush()
		},
	}
}
