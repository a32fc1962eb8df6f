package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"agencydesk/internal/agency"
	"agencydesk/internal/models"

	"github.com/spf13/cobra"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Browse, submit and moderate reviews",
}

var reviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews visible to your role",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(); err != nil {
			return err
		}
		reviews, err := a.service.ListReviews(cmd.Context())
		if err != nil {
			return err
		}
		if len(reviews) == 0 {
			fmt.Println("No reviews.")
			return nil
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tPROJECT\tCLIENT\tRATING\tSTATUS")
		for _, r := range reviews {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d/5\t%s\n",
				r.ID, r.ProjectName, r.ClientName, r.Rating, r.Status)
		}
		return w.Flush()
	},
}

var (
	flagReviewProject string
	flagReviewRating  int
	flagReviewComment string
)

var reviewsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Submit a review for one of your projects (client)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(models.RoleClient); err != nil {
			return err
		}
		r, err := a.service.CreateReview(cmd.Context(), agency.ReviewInput{
			ProjectID: flagReviewProject,
			Rating:    flagReviewRating,
			Comment:   flagReviewComment,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Review submitted for %s (%s), awaiting moderation.\n", r.ProjectName, r.ID)
		return nil
	},
}

var reviewsApproveCmd = &cobra.Command{
	Use:   "approve <review-id>",
	Short: "Approve a pending review (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moderate(cmd, args[0], models.ReviewApproved)
	},
}

var reviewsRejectCmd = &cobra.Command{
	Use:   "reject <review-id>",
	Short: "Reject a pending review (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return moderate(cmd, args[0], models.ReviewRejected)
	},
}

func moderate(cmd *cobra.Command, id string, status models.ReviewStatus) error {
	if err := requireSession(models.RoleAdmin); err != nil {
		return err
	}
	r, err := a.service.ModerateReview(cmd.Context(), id, status)
	if err != nil {
		return err
	}
	fmt.Printf("Review of %s is now %s\n", r.ProjectName, r.Status)
	return nil
}

var reviewsDeleteCmd = &cobra.Command{
	Use:   "delete <review-id>",
	Short: "Delete a review (admin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := requireSession(models.RoleAdmin); err != nil {
			return err
		}
		if err := a.service.DeleteReview(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Println("Review deleted.")
		return nil
	},
}

func init() {
	reviewsCreateCmd.Flags().StringVar(&flagReviewProject, "project", "", "project ID")
	reviewsCreateCmd.Flags().IntVar(&flagReviewRating, "rating", 5, "rating from 1 to 5")
	reviewsCreateCmd.Flags().StringVar(&flagReviewComment, "comment", "", "review text")

	reviewsCmd.AddCommand(reviewsListCmd, reviewsCreateCmd, reviewsApproveCmd,
		reviewsRejectCmd, reviewsDeleteCmd)
}
