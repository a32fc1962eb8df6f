package cmd

import (
	"fmt"

	"agencydesk/internal/auth"
	"agencydesk/internal/guard"
	"agencydesk/internal/models"

	"github.com/spf13/cobra"
)

var (
	flagSignupName     string
	flagSignupEmail    string
	flagSignupPassword string
	flagSignupConfirm  string
	flagSignupRole     string
	flagSignupCompany  string
	flagSignupPhone    string
	flagSignupSkills   []string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Register a new client or team account",
	Long: `Register a new account. Only client and team roles can
self-register; admin accounts are provisioned by an existing admin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		data := models.SignupData{
			Name:            flagSignupName,
			Email:           flagSignupEmail,
			Password:        flagSignupPassword,
			ConfirmPassword: flagSignupConfirm,
			Role:            models.Role(flagSignupRole),
			Company:         flagSignupCompany,
			Phone:           flagSignupPhone,
			Skills:          flagSignupSkills,
		}

		if data.Name == "" {
			if err := promptString("Full name", "Jane Doe", &data.Name); err != nil {
				return err
			}
		}
		if data.Email == "" {
			if err := promptString("Email", "you@example.com", &data.Email); err != nil {
				return err
			}
		}
		if string(data.Role) == "" {
			var role string
			if err := promptSelect("Account type", []string{"client", "team"}, &role); err != nil {
				return err
			}
			data.Role = models.Role(role)
		}
		if data.Password == "" {
			if err := promptPassword("Password", &data.Password); err != nil {
				return err
			}
			if err := promptPassword("Confirm password", &data.ConfirmPassword); err != nil {
				return err
			}
		}

		outcome, err := a.manager.Signup(cmd.Context(), data)
		if err != nil {
			return fmt.Errorf("signup failed: %w", err)
		}

		switch o := outcome.(type) {
		case auth.Authenticated:
			fmt.Printf("Account created. Logged in as %s (%s)\n", o.User.Name, o.User.Role)
			fmt.Printf("Dashboard: %s\n", guard.DashboardPath(o.User.Role))
		case auth.TwoFactorPending:
			fmt.Println("Account created; two-factor verification required.")
			fmt.Println("Run 'agencydesk verify' with your 6-digit code.")
		}
		return nil
	},
}

func init() {
	signupCmd.Flags().StringVar(&flagSignupName, "name", "", "full name")
	signupCmd.Flags().StringVar(&flagSignupEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&flagSignupPassword, "password", "", "password (prompted when omitted)")
	signupCmd.Flags().StringVar(&flagSignupConfirm, "confirm-password", "", "password confirmation")
	signupCmd.Flags().StringVar(&flagSignupRole, "role", "", "account role: client or team")
	signupCmd.Flags().StringVar(&flagSignupCompany, "company", "", "company name (clients)")
	signupCmd.Flags().StringVar(&flagSignupPhone, "phone", "", "contact phone")
	signupCmd.Flags().StringSliceVar(&flagSignupSkills, "skills", nil, "comma-separated skills (team)")
}
