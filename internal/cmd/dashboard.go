package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the dashboard overview for your role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}

		ov, err := a.service.Overview(cmd.Context())
		if err != nil {
			return err
		}

		stats := ov.Stats
		fmt.Printf("Projects: %d total, %d active, %d completed\n",
			stats.TotalProjects, stats.ActiveProjects, stats.CompletedProjects)
		if stats.TotalRevenue > 0 {
			fmt.Printf("Revenue: %.2f\n", stats.TotalRevenue)
		}
		if stats.PendingReviews > 0 {
			fmt.Printf("Reviews awaiting moderation: %d\n", stats.PendingReviews)
		}
		if stats.PendingTasks > 0 || stats.CompletedTasks > 0 {
			fmt.Printf("Tasks: %d pending, %d completed\n", stats.PendingTasks, stats.CompletedTasks)
		}
		if stats.TotalEarnings > 0 {
			fmt.Printf("Earnings: %.2f\n", stats.TotalEarnings)
		}

		unread := 0
		for _, n := range ov.Notifications {
			if !n.Read {
				unread++
			}
		}
		fmt.Printf("Unread notifications: %d\n", unread)

		if len(ov.Projects) > 0 {
			fmt.Println("\nRecent projects:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tPROGRESS")
			for i, p := range ov.Projects {
				if i == 5 {
					break
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d%%\n", p.ID, p.Title, p.Status, p.Progress)
			}
			w.Flush()
		}
		return nil
	},
}
