package stub

import (
	"errors"
	"sort"
	"sync"
	"time"

	"agencydesk/internal/models"

	"github.com/google/uuid"
)

var (
	errNotFound      = errors.New("not found")
	errAlreadyExists = errors.New("already exists")
)

// Account is a stub user record with its password hash.
type Account struct {
	User         models.User
	PasswordHash string
}

// Store is the stub server's in-memory dataset. It exists so the CLI
// can be developed and integration-tested without the real backend;
// nothing survives a restart.
type Store struct {
	mu            sync.RWMutex
	accounts      map[string]*Account // keyed by email
	tokens        map[string]string   // bearer token -> email
	projects      map[string]*models.Project
	tasks         map[string]*models.Task
	reviews       map[string]*models.Review
	notifications map[string]*models.Notification
}

// NewStore creates an empty dataset.
func NewStore() *Store {
	return &Store{
		accounts:      make(map[string]*Account),
		tokens:        make(map[string]string),
		projects:      make(map[string]*models.Project),
		tasks:         make(map[string]*models.Task),
		reviews:       make(map[string]*models.Review),
		notifications: make(map[string]*models.Notification),
	}
}

// CreateAccount registers a new account.
func (s *Store) CreateAccount(user models.User, passwordHash string) (*Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[user.Email]; ok {
		return nil, errAlreadyExists
	}
	acct := &Account{User: user, PasswordHash: passwordHash}
	s.accounts[user.Email] = acct
	return acct, nil
}

// AccountByEmail looks an account up by email.
func (s *Store) AccountByEmail(email string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acct, ok := s.accounts[email]
	if !ok {
		return nil, errNotFound
	}
	return acct, nil
}

// UpdateAccount applies fn to the account under the write lock.
func (s *Store) UpdateAccount(email string, fn func(*Account)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[email]
	if !ok {
		return errNotFound
	}
	fn(acct)
	return nil
}

// IssueToken mints a bearer token for the account.
func (s *Store) IssueToken(email string) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = email
	return token, nil
}

// AccountByToken resolves a bearer token to its account.
func (s *Store) AccountByToken(token string) (*Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email, ok := s.tokens[token]
	if !ok {
		return nil, errNotFound
	}
	acct, ok := s.accounts[email]
	if !ok {
		return nil, errNotFound
	}
	return acct, nil
}

// RevokeToken invalidates one bearer token. Subsequent requests with
// it receive 401, which is how token revocation is exercised end to
// end in development.
func (s *Store) RevokeToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// Projects returns projects filtered by fn, newest first.
func (s *Store) Projects(fn func(*models.Project) bool) []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Project
	for _, p := range s.projects {
		if fn == nil || fn(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Project returns one project by ID.
func (s *Store) Project(id string) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, errNotFound
	}
	copied := *p
	return &copied, nil
}

// PutProject inserts or replaces a project.
func (s *Store) PutProject(p models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects[p.ID] = &p
}

// DeleteProject removes a project and its tasks.
func (s *Store) DeleteProject(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return errNotFound
	}
	delete(s.projects, id)
	for taskID, t := range s.tasks {
		if t.ProjectID == id {
			delete(s.tasks, taskID)
		}
	}
	return nil
}

// Tasks returns tasks filtered by fn, newest first.
func (s *Store) Tasks(fn func(*models.Task) bool) []models.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if fn == nil || fn(t) {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Task returns one task by ID.
func (s *Store) Task(id string) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, errNotFound
	}
	copied := *t
	return &copied, nil
}

// PutTask inserts or replaces a task.
func (s *Store) PutTask(t models.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = &t
}

// DeleteTask removes a task.
func (s *Store) DeleteTask(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return errNotFound
	}
	delete(s.tasks, id)
	return nil
}

// Reviews returns reviews filtered by fn, newest first.
func (s *Store) Reviews(fn func(*models.Review) bool) []models.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Review
	for _, r := range s.reviews {
		if fn == nil || fn(r) {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Review returns one review by ID.
func (s *Store) Review(id string) (*models.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, errNotFound
	}
	copied := *r
	return &copied, nil
}

// PutReview inserts or replaces a review.
func (s *Store) PutReview(r models.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reviews[r.ID] = &r
}

// DeleteReview removes a review.
func (s *Store) DeleteReview(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reviews[id]; !ok {
		return errNotFound
	}
	delete(s.reviews, id)
	return nil
}

// TeamMembers returns the directory of team-role accounts.
func (s *Store) TeamMembers() []models.TeamMember {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TeamMember
	for _, acct := range s.accounts {
		if acct.User.Role != models.RoleTeam {
			continue
		}
		out = append(out, models.TeamMember{
			ID:     acct.User.ID,
			Name:   acct.User.Name,
			Email:  acct.User.Email,
			Role:   string(acct.User.Role),
			Avatar: acct.User.Avatar,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Notifications returns a user's notifications, newest first.
func (s *Store) Notifications(userID string) []models.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// PutNotification inserts or replaces a notification.
func (s *Store) PutNotification(n models.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = &n
}

// MarkNotificationRead flags a notification read if it belongs to
// the user.
func (s *Store) MarkNotificationRead(userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return errNotFound
	}
	n.Read = true
	return nil
}

// Notify fans a message out to one user.
func (s *Store) Notify(userID, title, message string, typ models.NotificationType) {
	s.PutNotification(models.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	})
}
