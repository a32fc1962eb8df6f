package agency

import (
	"context"

	"agencydesk/internal/models"
)

// ReviewInput is a client's feedback submission.
type ReviewInput struct {
	ProjectID string `json:"projectId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// ReviewModeration is the admin approve/reject decision.
type ReviewModeration struct {
	Status models.ReviewStatus `json:"status"`
}

// ListReviews returns reviews visible to the current role: admins see
// the full moderation queue, clients their own submissions.
func (s *Service) ListReviews(ctx context.Context) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.client.Get(ctx, "/reviews", &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// CreateReview submits feedback for a project. It enters the
// moderation queue as pending.
func (s *Service) CreateReview(ctx context.Context, input ReviewInput) (*models.Review, error) {
	var review models.Review
	if err := s.client.Post(ctx, "/reviews", input, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// ModerateReview approves or rejects a pending review (admin only).
func (s *Service) ModerateReview(ctx context.Context, id string, status models.ReviewStatus) (*models.Review, error) {
	var review models.Review
	if err := s.client.Put(ctx, "/reviews/"+id, ReviewModeration{Status: status}, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteReview removes a review (admin only).
func (s *Service) DeleteReview(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/reviews/"+id)
}
