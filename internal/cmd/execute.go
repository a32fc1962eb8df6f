package cmd

import (
	"context"

	"agencydesk/internal/util"

	"github.com/spf13/cobra"
)

var flagAPIURL string

var rootCmd = &cobra.Command{
	Use:   "agencydesk",
	Short: "Terminal client for the agency management dashboard",
	Long: `agencydesk is a terminal client for the agency management API.

It signs in against the backend (with optional two-factor
verification), keeps the session on disk between invocations, and
exposes the dashboard resources: projects, tasks, reviews, team,
notifications and stats. Available commands depend on the signed-in
role (admin, client or team).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initApp()
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		util.Sync()
	},
}

// ExecuteContext runs the root command.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "backend base URL (overrides AGENCYDESK_API_URL)")

	rootCmd.AddCommand(
		loginCmd,
		signupCmd,
		verifyCmd,
		logoutCmd,
		statusCmd,
		dashboardCmd,
		projectsCmd,
		tasksCmd,
		reviewsCmd,
		teamCmd,
		notificationsCmd,
		profileCmd,
		twofaCmd,
	)
}
