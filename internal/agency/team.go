package agency

import (
	"context"

	"agencydesk/internal/models"
)

// ListTeam returns the team member directory.
func (s *Service) ListTeam(ctx context.Context) ([]models.TeamMember, error) {
	var team []models.TeamMember
	if err := s.client.Get(ctx, "/team", &team); err != nil {
		return nil, err
	}
	return team, nil
}

// ListNotifications returns the current user's notifications, newest
// first.
func (s *Service) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := s.client.Get(ctx, "/notifications", &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

// MarkNotificationRead flags one notification as read.
func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	return s.client.Put(ctx, "/notifications/"+id, map[string]bool{"read": true}, nil)
}
