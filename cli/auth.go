package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LoginCmd returns the login command.
func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <actor-id>",
		Short: "Authenticate with the backend",
		Args:  cobra.ExactArgs(1),
		RunE:  runLogin,
	}
	cmd.Flags().String("secret", "", "Login secret (optional in demo deployments)")
	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	app, ctx, err := NewApp(cmd)
	if err != nil {
		return err
	}
	secret, _ := cmd.Flags().GetString("secret")
	sess, err := app.Store.Login(ctx, app.Client, args[0], secret)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", sess.DisplayName, sess.Role.DisplayName())
	return nil
}

// LogoutCmd returns the logout command.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the current session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, ctx, err := NewApp(cmd)
			if err != nil {
				return err
			}
			if err := app.Store.Logout(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

// WhoamiCmd returns the identity inspection command.
func WhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity and role",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, _, err := NewApp(cmd)
			if err != nil {
				return err
			}
			sess, ok := app.Store.Current()
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
				return nil
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Actor:  %s (%s)\n", sess.DisplayName, sess.ActorID)
			fmt.Fprintf(out, "Role:   %s\n", sess.Role.DisplayName())
			if sess.TeamID != "" {
				fmt.Fprintf(out, "Team:   %s\n", sess.TeamID)
			}
			return nil
		},
	}
}
