package stub

import (
	"errors"
	"net/http"

	"agencydesk/internal/models"

	"github.com/go-chi/chi/v5"
)

func (s *Server) visibleProject(acct *Account, p *models.Project) bool {
	switch acct.User.Role {
	case models.RoleAdmin:
		return true
	case models.RoleClient:
		return p.ClientID == acct.User.ID
	case models.RoleTeam:
		for _, m := range p.AssignedTeam {
			if m.ID == acct.User.ID {
				return true
			}
		}
	}
	return false
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	projects := s.store.Projects(func(p *models.Project) bool {
		return s.visibleProject(acct, p)
	})
	if projects == nil {
		projects = []models.Project{}
	}
	respondWithJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	project, err := s.store.Project(chi.URLParam(r, "projectID"))
	if err != nil || !s.visibleProject(acct, project) {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}
	respondWithJSON(w, http.StatusOK, project)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Title        string  `json:"title"`
		Description  string  `json:"description"`
		Budget       float64 `json:"budget"`
		DeliveryDate string  `json:"deliveryDate"`
		ClientEmail  string  `json:"clientEmail"`
		Category     string  `json:"category"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if input.Title == "" {
		respondWithError(w, http.StatusBadRequest, "Title is required")
		return
	}

	client, err := s.store.AccountByEmail(input.ClientEmail)
	if err != nil || client.User.Role != models.RoleClient {
		respondWithError(w, http.StatusBadRequest, "Unknown client email")
		return
	}

	now := s.now()
	project := models.Project{
		ID:           newID(),
		Title:        input.Title,
		Description:  input.Description,
		Budget:       input.Budget,
		DeliveryDate: parseDate(input.DeliveryDate, now.AddDate(0, 1, 0)),
		Status:       models.ProjectPlanning,
		ClientID:     client.User.ID,
		ClientName:   client.User.Name,
		ClientEmail:  client.User.Email,
		AssignedTeam: []models.TeamMember{},
		Milestones:   []models.Milestone{},
		Tasks:        []models.Task{},
		Category:     input.Category,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.store.PutProject(project)
	s.store.Notify(client.User.ID, "Project created", project.Title+" has been opened", models.NotificationInfo)

	respondWithJSON(w, http.StatusCreated, project)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	project, err := s.store.Project(chi.URLParam(r, "projectID"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}

	var update struct {
		Title        *string               `json:"title"`
		Description  *string               `json:"description"`
		Budget       *float64              `json:"budget"`
		Status       *models.ProjectStatus `json:"status"`
		Progress     *int                  `json:"progress"`
		DeliveryDate *string               `json:"deliveryDate"`
	}
	if !decodeBody(w, r, &update) {
		return
	}

	if update.Title != nil {
		project.Title = *update.Title
	}
	if update.Description != nil {
		project.Description = *update.Description
	}
	if update.Budget != nil {
		project.Budget = *update.Budget
	}
	if update.Status != nil {
		project.Status = *update.Status
	}
	if update.Progress != nil {
		project.Progress = *update.Progress
	}
	if update.DeliveryDate != nil {
		project.DeliveryDate = parseDate(*update.DeliveryDate, project.DeliveryDate)
	}
	project.UpdatedAt = s.now()
	s.store.PutProject(*project)

	respondWithJSON(w, http.StatusOK, project)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(chi.URLParam(r, "projectID")); err != nil {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleUpdateMilestone(w http.ResponseWriter, r *http.Request) {
	project, err := s.store.Project(chi.URLParam(r, "projectID"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Project not found")
		return
	}

	var update struct {
		Status models.MilestoneStatus `json:"status"`
	}
	if !decodeBody(w, r, &update) {
		return
	}

	milestoneID := chi.URLParam(r, "milestoneID")
	for i := range project.Milestones {
		if project.Milestones[i].ID != milestoneID {
			continue
		}
		project.Milestones[i].Status = update.Status
		if update.Status == models.MilestoneCompleted {
			now := s.now()
			project.Milestones[i].CompletedAt = &now
		}
		project.UpdatedAt = s.now()
		s.store.PutProject(*project)
		s.store.Notify(project.ClientID, "Milestone updated",
			project.Milestones[i].Title+" is now "+string(update.Status), models.NotificationInfo)
		respondWithJSON(w, http.StatusOK, project.Milestones[i])
		return
	}
	respondWithError(w, http.StatusNotFound, "Milestone not found")
}

func (s *Server) visibleTask(acct *Account, t *models.Task) bool {
	switch acct.User.Role {
	case models.RoleAdmin:
		return true
	case models.RoleTeam:
		return t.AssignedTo == acct.User.ID
	case models.RoleClient:
		project, err := s.store.Project(t.ProjectID)
		return err == nil && project.ClientID == acct.User.ID
	}
	return false
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	tasks := s.store.Tasks(func(t *models.Task) bool {
		return s.visibleTask(acct, t)
	})
	if tasks == nil {
		tasks = []models.Task{}
	}
	respondWithJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var input struct {
		ProjectID   string  `json:"projectId"`
		Title       string  `json:"title"`
		Description string  `json:"description"`
		AssignedTo  string  `json:"assignedTo"`
		DueDate     string  `json:"dueDate"`
		Payment     float64 `json:"payment"`
	}
	if !decodeBody(w, r, &input) {
		return
	}

	project, err := s.store.Project(input.ProjectID)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Unknown project")
		return
	}

	var assignee *models.TeamMember
	for _, m := range s.store.TeamMembers() {
		if m.ID == input.AssignedTo {
			member := m
			assignee = &member
			break
		}
	}
	if assignee == nil {
		respondWithError(w, http.StatusBadRequest, "Unknown team member")
		return
	}

	now := s.now()
	task := models.Task{
		ID:             newID(),
		ProjectID:      project.ID,
		Title:          input.Title,
		Description:    input.Description,
		AssignedTo:     assignee.ID,
		AssignedToName: assignee.Name,
		Status:         models.TaskPending,
		DueDate:        parseDate(input.DueDate, now.AddDate(0, 0, 14)),
		Payment:        input.Payment,
		CreatedAt:      now,
	}
	s.store.PutTask(task)
	s.store.Notify(assignee.ID, "Task assigned", task.Title, models.NotificationInfo)

	respondWithJSON(w, http.StatusCreated, task)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	task, err := s.store.Task(chi.URLParam(r, "taskID"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Task not found")
		return
	}
	if acct.User.Role == models.RoleTeam && task.AssignedTo != acct.User.ID {
		respondWithError(w, http.StatusForbidden, "Task is assigned to someone else")
		return
	}

	var update struct {
		Status         *models.TaskStatus `json:"status"`
		Deliverable    *string            `json:"deliverable"`
		DeliverableURL *string            `json:"deliverableUrl"`
	}
	if !decodeBody(w, r, &update) {
		return
	}

	if update.Deliverable != nil {
		task.Deliverable = *update.Deliverable
	}
	if update.DeliverableURL != nil {
		task.DeliverableURL = *update.DeliverableURL
	}
	if update.Status != nil {
		task.Status = *update.Status
		if *update.Status == models.TaskReview {
			now := s.now()
			task.SubmittedAt = &now
		}
	}
	s.store.PutTask(*task)

	respondWithJSON(w, http.StatusOK, task)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteTask(chi.URLParam(r, "taskID")); err != nil {
		respondWithError(w, http.StatusNotFound, "Task not found")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	reviews := s.store.Reviews(func(rv *models.Review) bool {
		switch acct.User.Role {
		case models.RoleAdmin:
			return true
		case models.RoleClient:
			return rv.ClientID == acct.User.ID
		default:
			return rv.Status == models.ReviewApproved
		}
	})
	if reviews == nil {
		reviews = []models.Review{}
	}
	respondWithJSON(w, http.StatusOK, reviews)
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())

	var input struct {
		ProjectID string `json:"projectId"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if !decodeBody(w, r, &input) {
		return
	}
	if input.Rating < 1 || input.Rating > 5 {
		respondWithError(w, http.StatusBadRequest, "Rating must be between 1 and 5")
		return
	}

	project, err := s.store.Project(input.ProjectID)
	if err != nil || project.ClientID != acct.User.ID {
		respondWithError(w, http.StatusBadRequest, "Unknown project")
		return
	}

	review := models.Review{
		ID:          newID(),
		ClientID:    acct.User.ID,
		ClientName:  acct.User.Name,
		ProjectID:   project.ID,
		ProjectName: project.Title,
		Rating:      input.Rating,
		Comment:     input.Comment,
		Status:      models.ReviewPending,
		CreatedAt:   s.now(),
	}
	s.store.PutReview(review)

	respondWithJSON(w, http.StatusCreated, review)
}

func (s *Server) handleModerateReview(w http.ResponseWriter, r *http.Request) {
	review, err := s.store.Review(chi.URLParam(r, "reviewID"))
	if err != nil {
		respondWithError(w, http.StatusNotFound, "Review not found")
		return
	}

	var decision struct {
		Status models.ReviewStatus `json:"status"`
	}
	if !decodeBody(w, r, &decision) {
		return
	}
	if decision.Status != models.ReviewApproved && decision.Status != models.ReviewRejected {
		respondWithError(w, http.StatusBadRequest, "Status must be approved or rejected")
		return
	}

	review.Status = decision.Status
	if decision.Status == models.ReviewApproved {
		now := s.now()
		review.ApprovedAt = &now
	}
	s.store.PutReview(*review)
	s.store.Notify(review.ClientID, "Review "+string(decision.Status),
		"Your review of "+review.ProjectName+" was "+string(decision.Status), models.NotificationInfo)

	respondWithJSON(w, http.StatusOK, review)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteReview(chi.URLParam(r, "reviewID")); err != nil {
		respondWithError(w, http.StatusNotFound, "Review not found")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleListTeam(w http.ResponseWriter, r *http.Request) {
	team := s.store.TeamMembers()
	if team == nil {
		team = []models.TeamMember{}
	}
	respondWithJSON(w, http.StatusOK, team)
}

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	notifications := s.store.Notifications(acct.User.ID)
	if notifications == nil {
		notifications = []models.Notification{}
	}
	respondWithJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleReadNotification(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())
	if err := s.store.MarkNotificationRead(acct.User.ID, chi.URLParam(r, "notificationID")); err != nil {
		if errors.Is(err, errNotFound) {
			respondWithError(w, http.StatusNotFound, "Notification not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to update notification")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"read": true})
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())

	projects := s.store.Projects(func(p *models.Project) bool { return s.visibleProject(acct, p) })
	tasks := s.store.Tasks(func(t *models.Task) bool { return s.visibleTask(acct, t) })

	stats := models.DashboardStats{TotalProjects: len(projects)}
	for _, p := range projects {
		switch p.Status {
		case models.ProjectCompleted:
			stats.CompletedProjects++
		case models.ProjectInProgress, models.ProjectReview:
			stats.ActiveProjects++
		}
	}
	for _, t := range tasks {
		switch t.Status {
		case models.TaskCompleted:
			stats.CompletedTasks++
			if acct.User.Role == models.RoleTeam {
				stats.TotalEarnings += t.Payment
			}
		case models.TaskPending, models.TaskInProgress:
			stats.PendingTasks++
		}
	}

	if acct.User.Role == models.RoleAdmin {
		for _, p := range projects {
			stats.TotalRevenue += p.Budget
		}
		stats.PendingReviews = len(s.store.Reviews(func(rv *models.Review) bool {
			return rv.Status == models.ReviewPending
		}))
		stats.TeamMembers = len(s.store.TeamMembers())
	}

	respondWithJSON(w, http.StatusOK, stats)
}
