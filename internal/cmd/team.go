package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var teamCmd = &cobra.Command{
	Use:   "team",
	Short: "Show the team directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		team, err := a.service.ListTeam(cmd.Context())
		if err != nil {
			return err
		}
		if len(team) == 0 {
			fmt.Println("No team members.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
		for _, m := range team {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Name, m.Email, m.Role)
		}
		return w.Flush()
	},
}

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "Show and manage your notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notifications, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		notifications, err := a.service.ListNotifications(cmd.Context())
		if err != nil {
			return err
		}
		if len(notifications) == 0 {
			fmt.Println("No notifications.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTYPE\tTITLE\tREAD")
		for _, n := range notifications {
			read := " "
			if n.Read {
				read = "x"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t[%s]\n", n.ID, n.Type, n.Title, read)
		}
		return w.Flush()
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <notification-id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		if err := a.service.MarkNotificationRead(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Marked as read.")
		return nil
	},
}

func init() {
	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd)
}
