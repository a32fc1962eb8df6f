package cmd

import (
	"fmt"
	"time"

	"agencydesk/internal/api"
	"agencydesk/internal/guard"

	"github.com/spf13/cobra"
)

var flagStatusCheck bool

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and discard all credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := a.manager.Logout(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current session",
	Long: `Show the locally persisted session. The stored token is
trusted as-is; pass --check to confirm it against the backend with a
round-trip.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		state := a.store.Snapshot()

		switch {
		case state.TwoFactorRequired:
			fmt.Println("Login pending two-factor verification.")
			fmt.Println("Run 'agencydesk verify' with your 6-digit code.")
			return nil
		case !state.IsAuthenticated || state.User == nil:
			fmt.Println("Not logged in.")
			fmt.Println("Run 'agencydesk login' to sign in.")
			return nil
		}

		user := state.User
		fmt.Println("Logged in")
		fmt.Printf("Name:      %s\n", user.Name)
		fmt.Printf("Email:     %s\n", user.Email)
		fmt.Printf("Role:      %s\n", user.Role)
		fmt.Printf("Dashboard: %s\n", guard.DashboardPath(user.Role))
		if user.TwoFactorEnabled {
			fmt.Println("2FA:       enabled")
		}
		if user.IsTemporaryAdmin {
			// Advisory only; the backend revokes it, nothing is enforced here
			expiry := "unknown"
			if user.TemporaryAdminExpiry != nil {
				expiry = user.TemporaryAdminExpiry.Format(time.RFC1123)
			}
			fmt.Printf("Temporary admin access until %s\n", expiry)
		}

		if flagStatusCheck {
			if _, err := a.service.Stats(cmd.Context()); err != nil {
				if api.IsUnauthorized(err) {
					fmt.Println("Token check: rejected by the backend, session cleared.")
					return nil
				}
				return fmt.Errorf("token check failed: %w", err)
			}
			fmt.Println("Token check: valid.")
		}
		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVar(&flagStatusCheck, "check", false, "validate the stored token against the backend")
}
