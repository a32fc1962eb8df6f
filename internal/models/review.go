package models

import "time"

// ReviewStatus is the moderation state of a client review.
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"
	ReviewApproved ReviewStatus = "approved"
	ReviewRejected ReviewStatus = "rejected"
)

// Review is client feedback on a completed project. Reviews are held
// for admin moderation before they become visible.
type Review struct {
	ID           string       `json:"id"`
	ClientID     string       `json:"clientId"`
	ClientName   string       `json:"clientName"`
	ClientAvatar string       `json:"clientAvatar,omitempty"`
	ProjectID    string       `json:"projectId"`
	ProjectName  string       `json:"projectName"`
	Rating       int          `json:"rating"`
	Comment      string       `json:"comment"`
	Status       ReviewStatus `json:"status"`
	CreatedAt    time.Time    `json:"createdAt"`
	ApprovedAt   *time.Time   `json:"approvedAt,omitempty"`
}
