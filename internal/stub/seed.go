package stub

import (
	"fmt"
	"time"

	"agencydesk/internal/models"
	"agencydesk/internal/util"

	"github.com/google/uuid"
)

// Seed populates the dataset with one fixed account per role and a
// small project so every CLI command has something to work with.
// Passwords are the role name followed by "123"; the admin account
// has two-factor enabled.
func Seed(store *Store) error {
	now := time.Now().UTC()

	admin, err := seedAccount(store, "Ada Okafor", "admin@example.com", "admin123", models.RoleAdmin, true, now)
	if err != nil {
		return err
	}
	client, err := seedAccount(store, "Cliff Mwangi", "client@example.com", "client123", models.RoleClient, false, now)
	if err != nil {
		return err
	}
	team, err := seedAccount(store, "Tessa Adeyemi", "team@example.com", "team123", models.RoleTeam, false, now)
	if err != nil {
		return err
	}

	projectID := uuid.NewString()
	taskID := uuid.NewString()

	store.PutTask(models.Task{
		ID:             taskID,
		ProjectID:      projectID,
		Title:          "Implement checkout flow",
		Description:    "Cart, payment form and confirmation page",
		AssignedTo:     team.User.ID,
		AssignedToName: team.User.Name,
		Status:         models.TaskInProgress,
		DueDate:        now.AddDate(0, 0, 14),
		Payment:        1200,
		CreatedAt:      now.AddDate(0, 0, -7),
	})

	store.PutProject(models.Project{
		ID:           projectID,
		Title:        "E-commerce relaunch",
		Description:  "Storefront rebuild with a new checkout",
		Budget:       18000,
		DeliveryDate: now.AddDate(0, 2, 0),
		Status:       models.ProjectInProgress,
		ClientID:     client.User.ID,
		ClientName:   client.User.Name,
		ClientEmail:  client.User.Email,
		AssignedTeam: []models.TeamMember{{
			ID:    team.User.ID,
			Name:  team.User.Name,
			Email: team.User.Email,
			Role:  string(team.User.Role),
		}},
		Milestones: []models.Milestone{
			{
				ID:          uuid.NewString(),
				ProjectID:   projectID,
				Title:       "Design sign-off",
				Description: "Approved mockups for all storefront pages",
				DueDate:     now.AddDate(0, 0, -3),
				Status:      models.MilestoneCompleted,
				CompletedAt: timePtr(now.AddDate(0, 0, -4)),
				Order:       1,
			},
			{
				ID:          uuid.NewString(),
				ProjectID:   projectID,
				Title:       "Checkout live on staging",
				Description: "End-to-end purchase flow behind a feature flag",
				DueDate:     now.AddDate(0, 0, 21),
				Status:      models.MilestoneInProgress,
				Order:       2,
			},
		},
		Progress:  45,
		Category:  "web",
		CreatedAt: now.AddDate(0, 0, -30),
		UpdatedAt: now.AddDate(0, 0, -1),
	})

	store.PutReview(models.Review{
		ID:          uuid.NewString(),
		ClientID:    client.User.ID,
		ClientName:  client.User.Name,
		ProjectID:   projectID,
		ProjectName: "E-commerce relaunch",
		Rating:      5,
		Comment:     "Design phase went smoothly, great communication.",
		Status:      models.ReviewPending,
		CreatedAt:   now.AddDate(0, 0, -2),
	})

	store.Notify(client.User.ID, "Milestone completed", "Design sign-off is done", models.NotificationSuccess)
	store.Notify(team.User.ID, "Task assigned", "Implement checkout flow is yours", models.NotificationInfo)
	store.Notify(admin.User.ID, "Review pending", "A new client review needs moderation", models.NotificationWarning)

	util.Info("Seeded stub dataset",
		util.String("admin", admin.User.Email),
		util.String("client", client.User.Email),
		util.String("team", team.User.Email),
	)
	return nil
}

func seedAccount(store *Store, name, email, password string, role models.Role, twoFactor bool, now time.Time) (*Account, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}
	acct, err := store.CreateAccount(models.User{
		ID:               uuid.NewString(),
		Email:            email,
		Name:             name,
		Role:             role,
		TwoFactorEnabled: twoFactor,
		CreatedAt:        now.AddDate(0, -6, 0),
	}, hash)
	if err != nil {
		return nil, fmt.Errorf("failed to seed account %s: %w", email, err)
	}
	return acct, nil
}

func timePtr(t time.Time) *time.Time {
	return &t
}
