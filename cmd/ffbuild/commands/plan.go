package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.trai.ch/ffbuild/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [platform]",
		Short: "Print the commands a build would run, without running them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			archs, _ := cmd.Flags().GetStringSlice("arch")
			jobs, _ := cmd.Flags().GetInt("jobs")

			plans, err := c.app.Plan(app.PlanOptions{
				Config:   configPath(cmd),
				Platform: platformArg(args),
				Archs:    archs,
				Jobs:     jobs,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, p := range plans {
				header := p.Target.ID.String()
				if caps := p.Target.Capabilities.Names(); len(caps) > 0 {
					header += " [" + strings.Join(caps, ", ") + "]"
				}
				_, _ = fmt.Fprintln(out, header)
				if len(p.Bootstrap) > 0 {
					_, _ = fmt.Fprintln(out, "  bootstrap")
					for _, inv := range p.Bootstrap {
						_, _ = fmt.Fprintf(out, "    $ %s\n", inv)
					}
				}
				for _, s := range p.Steps {
					_, _ = fmt.Fprintf(out, "  %s\n", s.Name)
					for _, inv := range s.Invocations {
						_, _ = fmt.Fprintf(out, "    $ %s\n", inv)
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringSliceP("arch", "a", nil, "Architectures to plan (x64, arm64); all by default")
	cmd.Flags().IntP("jobs", "j", 0, "Jobs passed to make; one per CPU by default")
	return cmd
}
