package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/mason/internal/app"
)

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan [targets...]",
		Short: "Generate the action graph for the given targets",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				// Display command usage help without returning an error
				_ = cmd.Help()
				return nil
			}
			quiet, _ := cmd.Flags().GetBool("quiet")
			return c.app.Plan(cmd.Context(), args, app.PlanOptions{
				Quiet: quiet,
			})
		},
	}
	cmd.Flags().BoolP("quiet", "q", false, "Only print the plan summary")
	return cmd
}
