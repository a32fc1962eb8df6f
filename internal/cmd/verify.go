package cmd

import (
	"errors"
	"fmt"

	"agencydesk/internal/auth"
	"agencydesk/internal/guard"

	"github.com/spf13/cobra"
)

var flagVerifyCode string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Complete a pending two-factor login",
	Long: `Complete a login that is waiting on its second factor. The
pending credential from 'agencydesk login' is used; if none exists
the command fails without contacting the backend.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code := flagVerifyCode
		if code == "" {
			if err := promptCode(&code); err != nil {
				return err
			}
		}

		user, err := a.manager.Verify2FA(cmd.Context(), code)
		if err != nil {
			if errors.Is(err, auth.ErrMissingCredential) {
				return fmt.Errorf("no login is pending verification: run 'agencydesk login' first")
			}
			return fmt.Errorf("verification failed: %w", err)
		}

		fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Role)
		fmt.Printf("Dashboard: %s\n", guard.DashboardPath(user.Role))
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringVar(&flagVerifyCode, "code", "", "6-digit verification code")
}
