package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"agencydesk/internal/agency"
	"agencydesk/internal/models"

	"github.com/spf13/cobra"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Browse and manage projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects visible to your role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		projects, err := a.service.ListProjects(cmd.Context())
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			fmt.Println("No projects.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tCLIENT\tSTATUS\tPROGRESS\tDELIVERY")
		for _, p := range projects {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
				p.ID, p.Title, p.ClientName, p.Status, p.Progress,
				p.DeliveryDate.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var projectsShowCmd = &cobra.Command{
	Use:   "show <project-id>",
	Short: "Show one project with milestones and tasks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		p, err := a.service.GetProject(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s (%s)\n", p.Title, p.Status)
		fmt.Printf("Client:   %s <%s>\n", p.ClientName, p.ClientEmail)
		fmt.Printf("Budget:   %.2f\n", p.Budget)
		fmt.Printf("Delivery: %s\n", p.DeliveryDate.Format("2006-01-02"))
		fmt.Printf("Progress: %d%%\n", p.Progress)
		if p.Description != "" {
			fmt.Printf("\n%s\n", p.Description)
		}

		if len(p.Milestones) > 0 {
			fmt.Println("\nMilestones:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tSTATUS\tDUE")
			for _, m := range p.Milestones {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", m.ID, m.Title, m.Status, m.DueDate.Format("2006-01-02"))
			}
			w.Flush()
		}
		if len(p.Tasks) > 0 {
			fmt.Println("\nTasks:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTITLE\tASSIGNEE\tSTATUS")
			for _, t := range p.Tasks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Title, t.AssignedToName, t.Status)
			}
			w.Flush()
		}
		return nil
	},
}

var (
	flagProjectTitle       string
	flagProjectDescription string
	flagProjectBudget      float64
	flagProjectDelivery    string
	flagProjectClient      string
	flagProjectCategory    string
	flagProjectStatus      string
	flagProjectProgress    int
)

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Open a new project (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(models.RoleAdmin); err != nil {
			return err
		}

		delivery, err := parseDateFlag(flagProjectDelivery)
		if err != nil {
			return err
		}
		p, err := a.service.CreateProject(cmd.Context(), agency.ProjectInput{
			Title:        flagProjectTitle,
			Description:  flagProjectDescription,
			Budget:       flagProjectBudget,
			DeliveryDate: delivery,
			ClientEmail:  flagProjectClient,
			Category:     flagProjectCategory,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created project %s (%s)\n", p.Title, p.ID)
		return nil
	},
}

var projectsUpdateCmd = &cobra.Command{
	Use:   "update <project-id>",
	Short: "Update a project (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(models.RoleAdmin); err != nil {
			return err
		}

		var update agency.ProjectUpdate
		if cmd.Flags().Changed("title") {
			update.Title = &flagProjectTitle
		}
		if cmd.Flags().Changed("description") {
			update.Description = &flagProjectDescription
		}
		if cmd.Flags().Changed("budget") {
			update.Budget = &flagProjectBudget
		}
		if cmd.Flags().Changed("status") {
			status := models.ProjectStatus(flagProjectStatus)
			update.Status = &status
		}
		if cmd.Flags().Changed("progress") {
			update.Progress = &flagProjectProgress
		}
		if cmd.Flags().Changed("delivery") {
			delivery, err := parseDateFlag(flagProjectDelivery)
			if err != nil {
				return err
			}
			update.DeliveryDate = &delivery
		}

		p, err := a.service.UpdateProject(cmd.Context(), args[0], update)
		if err != nil {
			return err
		}
		fmt.Printf("Updated project %s (%s, %d%%)\n", p.Title, p.Status, p.Progress)
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <project-id>",
	Short: "Delete a project (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(models.RoleAdmin); err != nil {
			return err
		}
		if err := a.service.DeleteProject(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Project deleted.")
		return nil
	},
}

var flagMilestoneStatus string

var projectsMilestoneCmd = &cobra.Command{
	Use:   "milestone <project-id> <milestone-id>",
	Short: "Update a milestone's status (admin, team)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(models.RoleAdmin, models.RoleTeam); err != nil {
			return err
		}
		m, err := a.service.UpdateMilestone(cmd.Context(), args[0], args[1], agency.MilestoneUpdate{
			Status: models.MilestoneStatus(flagMilestoneStatus),
		})
		if err != nil {
			return err
		}
		fmt.Printf("Milestone %s is now %s\n", m.Title, m.Status)
		return nil
	},
}

func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("a date is required (YYYY-MM-DD)")
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

func init() {
	projectsCreateCmd.Flags().StringVar(&flagProjectTitle, "title", "", "project title")
	projectsCreateCmd.Flags().StringVar(&flagProjectDescription, "description", "", "project description")
	projectsCreateCmd.Flags().Float64Var(&flagProjectBudget, "budget", 0, "project budget")
	projectsCreateCmd.Flags().StringVar(&flagProjectDelivery, "delivery", "", "delivery date (YYYY-MM-DD)")
	projectsCreateCmd.Flags().StringVar(&flagProjectClient, "client", "", "client email")
	projectsCreateCmd.Flags().StringVar(&flagProjectCategory, "category", "", "project category")

	projectsUpdateCmd.Flags().StringVar(&flagProjectTitle, "title", "", "project title")
	projectsUpdateCmd.Flags().StringVar(&flagProjectDescription, "description", "", "project description")
	projectsUpdateCmd.Flags().Float64Var(&flagProjectBudget, "budget", 0, "project budget")
	projectsUpdateCmd.Flags().StringVar(&flagProjectStatus, "status", "", "planning|in-progress|review|completed|on-hold")
	projectsUpdateCmd.Flags().IntVar(&flagProjectProgress, "progress", 0, "progress percentage")
	projectsUpdateCmd.Flags().StringVar(&flagProjectDelivery, "delivery", "", "delivery date (YYYY-MM-DD)")

	projectsMilestoneCmd.Flags().StringVar(&flagMilestoneStatus, "status", "", "pending|in-progress|completed")
	_ = projectsMilestoneCmd.MarkFlagRequired("status")

	projectsCmd.AddCommand(projectsListCmd, projectsShowCmd, projectsCreateCmd,
		projectsUpdateCmd, projectsDeleteCmd, projectsMilestoneCmd)
}
