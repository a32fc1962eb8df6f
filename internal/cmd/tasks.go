package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"agencydesk/internal/agency"
	"agencydesk/internal/models"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Browse and manage tasks",
}

var tasksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks visible to your role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		tasks, err := a.service.ListTasks(cmd.Context())
		if err != nil {
			return err
		}
		if len(tasks) == 0 {
			fmt.Println("No tasks.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tASSIGNEE\tSTATUS\tDUE\tPAYMENT")
		for _, t := range tasks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\n",
				t.ID, t.Title, t.AssignedToName, t.Status,
				t.DueDate.Format("2006-01-02"), t.Payment)
		}
		return w.Flush()
	},
}

var (
	flagTaskProject     string
	flagTaskTitle       string
	flagTaskDescription string
	flagTaskAssignee    string
	flagTaskDue         string
	flagTaskPayment     float64
	flagTaskStatus      string
	flagTaskDeliverable string
	flagTaskURL         string
)

var tasksCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Assign a new task (admin)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(models.RoleAdmin); err != nil {
			return err
		}
		due, err := parseDateFlag(flagTaskDue)
		if err != nil {
			return err
		}
		t, err := a.service.CreateTask(cmd.Context(), agency.TaskInput{
			ProjectID:   flagTaskProject,
			Title:       flagTaskTitle,
			Description: flagTaskDescription,
			AssignedTo:  flagTaskAssignee,
			DueDate:     due,
			Payment:     flagTaskPayment,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Created task %s (%s) for %s\n", t.Title, t.ID, t.AssignedToName)
		return nil
	},
}

var tasksUpdateCmd = &cobra.Command{
	Use:   "update <task-id>",
	Short: "Update a task's status or deliverable (admin, team)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(models.RoleAdmin, models.RoleTeam); err != nil {
			return err
		}

		var update agency.TaskUpdate
		if cmd.Flags().Changed("status") {
			status := models.TaskStatus(flagTaskStatus)
			update.Status = &status
		}
		if cmd.Flags().Changed("deliverable") {
			update.Deliverable = &flagTaskDeliverable
		}
		if cmd.Flags().Changed("url") {
			update.DeliverableURL = &flagTaskURL
		}

		t, err := a.service.UpdateTask(cmd.Context(), args[0], update)
		if err != nil {
			return err
		}
		fmt.Printf("Task %s is now %s\n", t.Title, t.Status)
		return nil
	},
}

var tasksDeleteCmd = &cobra.Command{
	Use:   "delete <task-id>",
	Short: "Delete a task (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(models.RoleAdmin); err != nil {
			return err
		}
		if err := a.service.DeleteTask(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Task deleted.")
		return nil
	},
}

func init() {
	tasksCreateCmd.Flags().StringVar(&flagTaskProject, "project", "", "project ID")
	tasksCreateCmd.Flags().StringVar(&flagTaskTitle, "title", "", "task title")
	tasksCreateCmd.Flags().StringVar(&flagTaskDescription, "description", "", "task description")
	tasksCreateCmd.Flags().StringVar(&flagTaskAssignee, "assignee", "", "team member ID")
	tasksCreateCmd.Flags().StringVar(&flagTaskDue, "due", "", "due date (YYYY-MM-DD)")
	tasksCreateCmd.Flags().Float64Var(&flagTaskPayment, "payment", 0, "task payment")

	tasksUpdateCmd.Flags().StringVar(&flagTaskStatus, "status", "", "pending|in-progress|review|completed")
	tasksUpdateCmd.Flags().StringVar(&flagTaskDeliverable, "deliverable", "", "deliverable description")
	tasksUpdateCmd.Flags().StringVar(&flagTaskURL, "url", "", "deliverable URL")

	tasksCmd.AddCommand(tasksListCmd, tasksCreateCmd, tasksUpdateCmd, tasksDeleteCmd)
}
