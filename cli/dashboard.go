package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/negotiapro/copilot/engine/auth"
	"github.com/negotiapro/copilot/engine/auth/model"
)

// DashboardCmd returns the team dashboard command. The dashboard is a
// lead-level view: employees are denied by the access gate before any
// network call happens.
func DashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard [team-id]",
		Short: "Show the team dashboard (team leaders and above)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDashboard,
	}
	return cmd
}

func runDashboard(cmd *cobra.Command, args []string) error {
	app, ctx, err := NewApp(cmd)
	if err != nil {
		return err
	}
	if err := app.RequireAccess(auth.Requirement{MinRole: model.RoleTeamLeader}); err != nil {
		return err
	}
	sess, _ := app.Store.Current()
	teamID := sess.TeamID
	if len(args) == 1 {
		teamID = args[0]
	}
	if teamID == "" {
		return fmt.Errorf("no team ID available; pass one explicitly")
	}

	dash, err := app.Client.FetchTeamDashboard(ctx, teamID)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Team %s (%s), %d members\n", dash.TeamName, dash.TeamID, dash.MemberCount)
	for key, value := range dash.Overview {
		fmt.Fprintf(out, "  %s: %v\n", key, value)
	}
	return nil
}
