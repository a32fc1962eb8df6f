package agency

import (
	"context"
	"time"

	"agencydesk/internal/models"
)

// TaskInput is the payload for assigning a new task (admin only).
type TaskInput struct {
	ProjectID   string    `json:"projectId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assignedTo"`
	DueDate     time.Time `json:"dueDate"`
	Payment     float64   `json:"payment"`
}

// TaskUpdate moves a task through its pipeline; team members attach
// their deliverable when submitting for review.
type TaskUpdate struct {
	Status         *models.TaskStatus `json:"status,omitempty"`
	Deliverable    *string            `json:"deliverable,omitempty"`
	DeliverableURL *string            `json:"deliverableUrl,omitempty"`
}

// ListTasks returns the tasks visible to the current role.
func (s *Service) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.client.Get(ctx, "/tasks", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask assigns a task to a team member.
func (s *Service) CreateTask(ctx context.Context, input TaskInput) (*models.Task, error) {
	var task models.Task
	if err := s.client.Post(ctx, "/tasks", input, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial patch to a task.
func (s *Service) UpdateTask(ctx context.Context, id string, update TaskUpdate) (*models.Task, error) {
	var task models.Task
	if err := s.client.Put(ctx, "/tasks/"+id, update, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DeleteTask removes a task (admin only).
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/tasks/"+id)
}
