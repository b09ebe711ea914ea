package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/negotiapro/copilot/engine/auth"
	"github.com/negotiapro/copilot/engine/core"
	"github.com/negotiapro/copilot/engine/workflow"
)

// RecordsCmd returns the negotiation record command group.
func RecordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "Browse and export archived negotiation records",
	}
	cmd.AddCommand(
		recordsListCmd(),
		recordsShowCmd(),
		recordsExportCmd(),
		recordsDeleteCmd(),
	)
	return cmd
}

func recordsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List records with optional filters",
		RunE:  runRecordsList,
	}
	cmd.Flags().String("status", "all", "Filter by status (all, completed, pending)")
	cmd.Flags().String("query", "", "Case-insensitive match on counterparty or summary")
	return cmd
}

func runRecordsList(cmd *cobra.Command, _ []string) error {
	app, _, err := NewApp(cmd)
	if err != nil {
		return err
	}
	if err := app.RequireAccess(auth.Requirement{}); err != nil {
		return err
	}
	status, _ := cmd.Flags().GetString("status")
	query, _ := cmd.Flags().GetString("query")

	records := app.Archive.List(workflow.Filter{
		Status:    workflow.Status(status),
		TextQuery: query,
	})
	out := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(out, "No records match")
		return nil
	}
	stats := app.Archive.Stats()
	fmt.Fprintf(out, "%d records (%d completed, %d pending, %d todos open)\n\n",
		stats.Total, stats.Completed, stats.Pending, stats.PendingTodos)
	for _, rec := range records {
		fmt.Fprintf(out, "%s  %s  %-9s  %2d turns  %s\n",
			rec.ID, rec.Date.Format("2006-01-02"), rec.Status, len(rec.Log), rec.Counterparty)
	}
	return nil
}

func recordsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <record-id>",
		Short: "Show one record in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := NewApp(cmd)
			if err != nil {
				return err
			}
			if err := app.RequireAccess(auth.Requirement{}); err != nil {
				return err
			}
			rec, ok := app.Archive.Get(core.ID(args[0]))
			if !ok {
				return fmt.Errorf("no record with ID %s", args[0])
			}
			printRecord(cmd, rec)
			return nil
		},
	}
}

func printRecord(cmd *cobra.Command, rec *workflow.Record) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s - %s (%s)\n", rec.Counterparty, rec.Date.Format("2006-01-02"), rec.Status)
	fmt.Fprintf(out, "Summary: %s\n", rec.Summary)
	if len(rec.KeyDecisions) > 0 {
		fmt.Fprintln(out, "Key decisions:")
		for i, d := range rec.KeyDecisions {
			fmt.Fprintf(out, "  %d. %s\n", i+1, d)
		}
	}
	if rec.MeetingNotes != nil {
		fmt.Fprintln(out, "Meeting notes:")
		fmt.Fprintf(out, "  Attendees:     %s\n", rec.MeetingNotes.Attendees)
		fmt.Fprintf(out, "  Topics:        %s\n", rec.MeetingNotes.Topics)
		fmt.Fprintf(out, "  Agreements:    %s\n", rec.MeetingNotes.Agreements)
		fmt.Fprintf(out, "  Disagreements: %s\n", rec.MeetingNotes.Disagreements)
	}
	for _, todo := range rec.Todos {
		fmt.Fprintf(out, "TODO [%s/%s] %s (owner %s, due %s)\n",
			todo.Priority, todo.Status, todo.Title, todo.Owner, todo.Deadline)
	}
	for i := range rec.Log {
		fmt.Fprintf(out, "[%s] %s: %s\n",
			rec.Log[i].Timestamp.Format("15:04"), rec.Log[i].Speaker, rec.Log[i].Text)
	}
}

func recordsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <record-id>",
		Short: "Export a record as a plain-text review report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := NewApp(cmd)
			if err != nil {
				return err
			}
			if err := app.RequireAccess(auth.Requirement{}); err != nil {
				return err
			}
			report, err := app.Archive.Export(core.ID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), report)
			return nil
		},
	}
}

func recordsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <record-id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, _, err := NewApp(cmd)
			if err != nil {
				return err
			}
			if err := app.RequireAccess(auth.Requirement{}); err != nil {
				return err
			}
			app.Archive.Remove(core.ID(args[0]))
			fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			return nil
		},
	}
}
