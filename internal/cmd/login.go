package cmd

import (
	"fmt"

	"agencydesk/internal/auth"
	"agencydesk/internal/guard"

	"github.com/spf13/cobra"
)

var (
	flagLoginEmail    string
	flagLoginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the agency backend",
	Long: `Sign in with email and password. Accounts with two-factor
authentication enabled are prompted for their 6-digit code; if the
prompt is interrupted, resume later with 'agencydesk verify'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := flagLoginEmail
		password := flagLoginPassword
		if email == "" {
			if err := promptString("Email", "you@example.com", &email); err != nil {
				return err
			}
		}
		if password == "" {
			if err := promptPassword("Password", &password); err != nil {
				return err
			}
		}

		outcome, err := a.manager.Login(cmd.Context(), email, password)
		if err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		switch o := outcome.(type) {
		case auth.Authenticated:
			fmt.Printf("Logged in as %s (%s)\n", o.User.Name, o.User.Role)
			fmt.Printf("Dashboard: %s\n", guard.DashboardPath(o.User.Role))
			return nil
		case auth.TwoFactorPending:
			fmt.Println("Two-factor authentication required.")
			var code string
			if err := promptCode(&code); err != nil {
				return err
			}
			user, err := a.manager.Verify2FA(cmd.Context(), code)
			if err != nil {
				return fmt.Errorf("verification failed (retry with 'agencydesk verify'): %w", err)
			}
			fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Role)
			fmt.Printf("Dashboard: %s\n", guard.DashboardPath(user.Role))
			return nil
		default:
			return fmt.Errorf("unexpected login outcome %T", outcome)
		}
	},
}

func init() {
	loginCmd.Flags().StringVar(&flagLoginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&flagLoginPassword, "password", "", "account password (prompted when omitted)")
}
