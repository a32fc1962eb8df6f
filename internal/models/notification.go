package models

import "time"

// NotificationType controls how a notification is presented.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Notification is a per-user message produced by the backend.
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	Link      string           `json:"link,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
}

// DashboardStats is the aggregate snapshot behind the dashboard landing
// page. Optional fields are populated per role by the backend.
type DashboardStats struct {
	TotalProjects     int     `json:"totalProjects"`
	ActiveProjects    int     `json:"activeProjects"`
	CompletedProjects int     `json:"completedProjects"`
	TotalRevenue      float64 `json:"totalRevenue,omitempty"`
	PendingReviews    int     `json:"pendingReviews,omitempty"`
	TeamMembers       int     `json:"teamMembers,omitempty"`
	PendingTasks      int     `json:"pendingTasks,omitempty"`
	CompletedTasks    int     `json:"completedTasks,omitempty"`
	TotalEarnings     float64 `json:"totalEarnings,omitempty"`
}
