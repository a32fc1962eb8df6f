// Package agency exposes typed clients for the dashboard's CRUD
// resources. Each call is a self-contained request over the shared
// API client; no ordering is assumed between independent calls.
package agency

import (
	"context"

	"agencydesk/internal/api"
	"agencydesk/internal/models"

	"golang.org/x/sync/errgroup"
)

// Service wraps the resource endpoints of the agency backend.
type Service struct {
	client *api.Client
}

// NewService creates a Service over the given transport.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Stats fetches the role-scoped dashboard aggregates.
func (s *Service) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var stats models.DashboardStats
	if err := s.client.Get(ctx, "/dashboard/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Overview is the landing-page snapshot: aggregates plus the lists
// the dashboard shows alongside them.
type Overview struct {
	Stats         *models.DashboardStats
	Projects      []models.Project
	Notifications []models.Notification
}

// Overview fetches the landing-page data. The three reads are
// independent, so they run concurrently; the first failure wins.
func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	var ov Overview

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats, err := s.Stats(ctx)
		if err != nil {
			return err
		}
		ov.Stats = stats
		return nil
	})
	g.Go(func() error {
		projects, err := s.ListProjects(ctx)
		if err != nil {
			return err
		}
		ov.Projects = projects
		return nil
	})
	g.Go(func() error {
		notifications, err := s.ListNotifications(ctx)
		if err != nil {
			return err
		}
		ov.Notifications = notifications
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &ov, nil
}
