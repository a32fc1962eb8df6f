package cmd

import (
	"fmt"

	"agencydesk/internal/models"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage your account",
}

var (
	flagProfileName   string
	flagProfileEmail  string
	flagProfileAvatar string
)

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		var patch models.UserPatch
		if cmd.Flags().Changed("name") {
			patch.Name = &flagProfileName
		}
		if cmd.Flags().Changed("email") {
			patch.Email = &flagProfileEmail
		}
		if cmd.Flags().Changed("avatar") {
			patch.Avatar = &flagProfileAvatar
		}

		user, err := a.manager.UpdateProfile(cmd.Context(), patch)
		if err != nil {
			return err
		}
		fmt.Printf("Profile updated: %s <%s>\n", user.Name, user.Email)
		return nil
	},
}

var profilePasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Change your password",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		var current, newPassword, confirm string
		if err := promptPassword("Current password", &current); err != nil {
			return err
		}
		if err := promptPassword("New password", &newPassword); err != nil {
			return err
		}
		if err := promptPassword("Confirm new password", &confirm); err != nil {
			return err
		}
		if newPassword != confirm {
			return fmt.Errorf("passwords do not match")
		}

		if err := a.manager.ChangePassword(cmd.Context(), current, newPassword); err != nil {
			return err
		}
		fmt.Println("Password changed.")
		return nil
	},
}

var twofaCmd = &cobra.Command{
	Use:   "2fa",
	Short: "Manage two-factor authentication",
}

var twofaSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Provision a second factor for your account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		setup, err := a.manager.Setup2FA(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Println("Scan this in your authenticator app:")
		fmt.Println(setup.QRCode)
		fmt.Printf("Secret: %s\n", setup.Secret)
		fmt.Println("Then confirm with 'agencydesk 2fa enable'.")
		return nil
	},
}

var flagEnableCode string

var twofaEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Confirm and activate your second factor",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		code := flagEnableCode
		if code == "" {
			if err := promptCode(&code); err != nil {
				return err
			}
		}
		if err := a.manager.Enable2FA(cmd.Context(), code); err != nil {
			return err
		}
		fmt.Println("Two-factor authentication enabled. It applies from your next login.")
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().StringVar(&flagProfileName, "name", "", "display name")
	profileUpdateCmd.Flags().StringVar(&flagProfileEmail, "email", "", "account email")
	profileUpdateCmd.Flags().StringVar(&flagProfileAvatar, "avatar", "", "avatar URL")

	twofaEnableCmd.Flags().StringVar(&flagEnableCode, "code", "", "6-digit verification code")

	profileCmd.AddCommand(profileUpdateCmd, profilePasswordCmd)
	twofaCmd.AddCommand(twofaSetupCmd, twofaEnableCmd)
}
