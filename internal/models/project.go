package models

import "time"

// ProjectStatus tracks a project through its delivery pipeline.
type ProjectStatus string

const (
	ProjectPlanning   ProjectStatus = "planning"
	ProjectInProgress ProjectStatus = "in-progress"
	ProjectReview     ProjectStatus = "review"
	ProjectCompleted  ProjectStatus = "completed"
	ProjectOnHold     ProjectStatus = "on-hold"
)

// Project is an engagement owned by a client and delivered by the team.
type Project struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Budget       float64       `json:"budget"`
	DeliveryDate time.Time     `json:"deliveryDate"`
	Status       ProjectStatus `json:"status"`
	ClientID     string        `json:"clientId"`
	ClientName   string        `json:"clientName"`
	ClientEmail  string        `json:"clientEmail"`
	AssignedTeam []TeamMember  `json:"assignedTeam"`
	Milestones   []Milestone   `json:"milestones"`
	Tasks        []Task        `json:"tasks"`
	Progress     int           `json:"progress"`
	Category     string        `json:"category,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// MilestoneStatus tracks a single milestone.
type MilestoneStatus string

const (
	MilestonePending    MilestoneStatus = "pending"
	MilestoneInProgress MilestoneStatus = "in-progress"
	MilestoneCompleted  MilestoneStatus = "completed"
)

// Milestone is an ordered checkpoint within a project.
type Milestone struct {
	ID          string          `json:"id"`
	ProjectID   string          `json:"projectId"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	DueDate     time.Time       `json:"dueDate"`
	Status      MilestoneStatus `json:"status"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Order       int             `json:"order"`
}

// TaskStatus tracks an individual assignment.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in-progress"
	TaskReview     TaskStatus = "review"
	TaskCompleted  TaskStatus = "completed"
)

// Task is a unit of work assigned to one team member.
type Task struct {
	ID             string     `json:"id"`
	ProjectID      string     `json:"projectId"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	AssignedTo     string     `json:"assignedTo"`
	AssignedToName string     `json:"assignedToName"`
	Status         TaskStatus `json:"status"`
	DueDate        time.Time  `json:"dueDate"`
	Payment        float64    `json:"payment"`
	Deliverable    string     `json:"deliverable,omitempty"`
	DeliverableURL string     `json:"deliverableUrl,omitempty"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}
