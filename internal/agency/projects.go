package agency

import (
	"context"
	"time"

	"agencydesk/internal/models"
)

// ProjectInput is the create/update payload for a project. The backend
// resolves the client by email and fills in the denormalized fields.
type ProjectInput struct {
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Budget       float64   `json:"budget"`
	DeliveryDate time.Time `json:"deliveryDate"`
	ClientEmail  string    `json:"clientEmail,omitempty"`
	Category     string    `json:"category,omitempty"`
}

// ProjectUpdate is a partial project patch. Nil fields are untouched.
type ProjectUpdate struct {
	Title        *string               `json:"title,omitempty"`
	Description  *string               `json:"description,omitempty"`
	Budget       *float64              `json:"budget,omitempty"`
	DeliveryDate *time.Time            `json:"deliveryDate,omitempty"`
	Status       *models.ProjectStatus `json:"status,omitempty"`
	Progress     *int                  `json:"progress,omitempty"`
}

// ListProjects returns the projects visible to the current role:
// admins see everything, clients their own, team members the ones
// they are assigned to.
func (s *Service) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.client.Get(ctx, "/projects", &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project with its milestones and tasks.
func (s *Service) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := s.client.Get(ctx, "/projects/"+id, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject opens a new engagement (admin only).
func (s *Service) CreateProject(ctx context.Context, input ProjectInput) (*models.Project, error) {
	var project models.Project
	if err := s.client.Post(ctx, "/projects", input, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject applies a partial patch to a project.
func (s *Service) UpdateProject(ctx context.Context, id string, update ProjectUpdate) (*models.Project, error) {
	var project models.Project
	if err := s.client.Put(ctx, "/projects/"+id, update, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// DeleteProject removes a project (admin only).
func (s *Service) DeleteProject(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/projects/"+id)
}

// MilestoneUpdate moves a milestone through its pipeline.
type MilestoneUpdate struct {
	Status models.MilestoneStatus `json:"status"`
}

// UpdateMilestone sets a milestone's status.
func (s *Service) UpdateMilestone(ctx context.Context, projectID, milestoneID string, update MilestoneUpdate) (*models.Milestone, error) {
	var milestone models.Milestone
	path := "/projects/" + projectID + "/milestones/" + milestoneID
	if err := s.client.Put(ctx, path, update, &milestone); err != nil {
		return nil, err
	}
	return &milestone, nil
}
