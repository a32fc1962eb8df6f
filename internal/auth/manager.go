package auth

import (
	"context"
	"fmt"
	"strings"

	"agencydesk/internal/api"
	"agencydesk/internal/models"
	"agencydesk/internal/session"
	"agencydesk/internal/util"

	"go.uber.org/zap"
)

// Manager is the only component allowed to transition session state.
// It drives the Anonymous -> PendingTwoFactor -> Authenticated ->
// Anonymous machine over the backend's auth endpoints.
//
// Every operation re-throws failures after local cleanup; user-facing
// messaging is the caller's job.
type Manager struct {
	client *api.Client
	store  *session.Store
	logger *zap.Logger
}

// NewManager creates a Manager over the given transport and store.
func NewManager(client *api.Client, store *session.Store, logger *zap.Logger) *Manager {
	return &Manager{
		client: client,
		store:  store,
		logger: logger,
	}
}

// State returns a copy of the current session state.
func (m *Manager) State() session.State {
	return m.store.Snapshot()
}

// Login exchanges credentials at the password stage. The outcome is
// either Authenticated (token installed) or TwoFactorPending (temp
// token stored in the transient slot, main session untouched). On
// failure the session is left exactly as it was.
func (m *Manager) Login(ctx context.Context, email, password string) (LoginOutcome, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Reason: "must not be empty"}
	}

	var resp models.AuthResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := m.client.Post(ctx, "/auth/login", req, &resp); err != nil {
		return nil, err
	}

	return m.completePasswordStage(&resp, email)
}

// Signup registers a new account. Role must be client or team; the
// confirm-password check happens before any network traffic. The
// response branches exactly like Login.
func (m *Manager) Signup(ctx context.Context, data models.SignupData) (LoginOutcome, error) {
	if strings.TrimSpace(data.Name) == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(data.Email) == "" {
		return nil, &ValidationError{Field: "email", Reason: "must not be empty"}
	}
	if data.Password == "" {
		return nil, &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	if data.ConfirmPassword != "" && data.Password != data.ConfirmPassword {
		return nil, &ValidationError{Field: "password", Reason: "passwords do not match"}
	}
	if data.Role != models.RoleClient && data.Role != models.RoleTeam {
		return nil, &ValidationError{Field: "role", Reason: "must be client or team"}
	}

	var resp models.AuthResponse
	if err := m.client.Post(ctx, "/auth/register", data, &resp); err != nil {
		return nil, err
	}

	return m.completePasswordStage(&resp, data.Email)
}

func (m *Manager) completePasswordStage(resp *models.AuthResponse, email string) (LoginOutcome, error) {
	if resp.Requires2FA {
		if resp.TempToken == "" {
			return nil, fmt.Errorf("malformed auth response: two-factor required but no temp token issued")
		}
		if err := m.store.BeginTwoFactor(resp.TempToken, resp.User); err != nil {
			return nil, err
		}
		m.logger.Info("Second factor required", util.String("email", email))
		return TwoFactorPending{TempToken: resp.TempToken}, nil
	}

	if resp.Token == "" || resp.User == nil {
		return nil, fmt.Errorf("malformed auth response: missing token or user")
	}
	if err := m.store.InstallSession(resp.User, resp.Token); err != nil {
		return nil, err
	}
	m.logger.Info("Login successful",
		util.String("email", email),
		util.String("role", string(resp.User.Role)),
	)
	return Authenticated{User: resp.User, Token: resp.Token}, nil
}

// Verify2FA completes a pending login with the 6-digit code. The call
// authenticates with the temp token, never the main one. With no temp
// token present it fails immediately with ErrMissingCredential rather
// than sending an unauthenticated request. A rejected code leaves the
// flow pending so the caller can re-prompt.
func (m *Manager) Verify2FA(ctx context.Context, code string) (*models.User, error) {
	if !isSixDigitCode(code) {
		return nil, &ValidationError{Field: "code", Reason: "must be exactly 6 digits"}
	}

	tempToken := m.store.TempToken()
	if tempToken == "" {
		return nil, ErrMissingCredential
	}

	var resp models.VerifyResponse
	err := m.client.Post(ctx, "/auth/verify-2fa", models.VerifyRequest{Code: code}, &resp,
		api.WithBearer(tempToken))
	if err != nil {
		return nil, err
	}
	if resp.Token == "" || resp.User == nil {
		return nil, fmt.Errorf("malformed verification response: missing token or user")
	}

	if err := m.store.InstallSession(resp.User, resp.Token); err != nil {
		return nil, err
	}
	m.logger.Info("Two-factor verification successful",
		util.String("role", string(resp.User.Role)),
	)
	return resp.User, nil
}

// Logout clears the session, the transient temp credential and the
// pending user. It is idempotent.
func (m *Manager) Logout() error {
	if err := m.store.Clear(); err != nil {
		return err
	}
	m.logger.Info("Logged out")
	return nil
}

// UpdateUser merges a client-side patch into the in-memory user. It
// performs no network call; the caller must already have persisted
// the change server-side.
func (m *Manager) UpdateUser(patch models.UserPatch) error {
	return m.store.UpdateUser(patch)
}

// UpdateProfile persists a profile patch to the backend and then
// applies the server's view of the user locally.
func (m *Manager) UpdateProfile(ctx context.Context, patch models.UserPatch) (*models.User, error) {
	var updated models.User
	if err := m.client.Put(ctx, "/auth/profile", patch, &updated); err != nil {
		return nil, err
	}
	if err := m.store.SetUser(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// ChangePassword rotates the account password.
func (m *Manager) ChangePassword(ctx context.Context, current, newPassword string) error {
	if current == "" || newPassword == "" {
		return &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	if newPassword == current {
		return &ValidationError{Field: "password", Reason: "new password must differ from the current one"}
	}
	return m.client.Put(ctx, "/auth/password", models.PasswordChange{Current: current, New: newPassword}, nil)
}

// Setup2FA asks the backend to provision a second factor. The secret
// and QR payload are generated server-side.
func (m *Manager) Setup2FA(ctx context.Context) (*models.TwoFactorSetup, error) {
	var setup models.TwoFactorSetup
	if err := m.client.Post(ctx, "/auth/setup-2fa", nil, &setup); err != nil {
		return nil, err
	}
	return &setup, nil
}

// Enable2FA confirms a provisioned second factor with its first code
// and flips the local twoFactorEnabled flag on success.
func (m *Manager) Enable2FA(ctx context.Context, code string) error {
	if !isSixDigitCode(code) {
		return &ValidationError{Field: "code", Reason: "must be exactly 6 digits"}
	}
	if err := m.client.Post(ctx, "/auth/enable-2fa", models.VerifyRequest{Code: code}, nil); err != nil {
		return err
	}

	if user := m.store.Snapshot().User; user != nil {
		enabled := *user
		enabled.TwoFactorEnabled = true
		if err := m.store.SetUser(&enabled); err != nil {
			return err
		}
	}
	m.logger.Info("Two-factor authentication enabled")
	return nil
}

func isSixDigitCode(code string) bool {
	if len(code) != 6 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
