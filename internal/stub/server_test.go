package stub

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"agencydesk/internal/agency"
	"agencydesk/internal/api"
	"agencydesk/internal/auth"
	"agencydesk/internal/models"
	"agencydesk/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// env wires the real client stack against a seeded stub backend, the
// same composition the CLI uses.
type env struct {
	backend   *Store
	cache     *memoryCredentialCache
	sessions  *session.Store
	manager   *auth.Manager
	service   *agency.Service
	hookCalls int
}

func newEnv(t *testing.T) *env {
	t.Helper()

	backend := NewStore()
	require.NoError(t, Seed(backend))
	cache := newMemoryCredentialCache()

	srv := httptest.NewServer(NewServer(backend, cache, zap.NewNop()).Router())
	t.Cleanup(srv.Close)

	sessions := session.NewStore(session.NewMemoryBackend(), zap.NewNop())
	require.NoError(t, sessions.Load())

	e := &env{backend: backend, cache: cache, sessions: sessions}
	client := api.NewClient(srv.URL+"/api", sessions, zap.NewNop(),
		api.WithUnauthorizedHook(func() { e.hookCalls++ }),
	)
	e.manager = auth.NewManager(client, sessions, zap.NewNop())
	e.service = agency.NewService(client)
	return e
}

// challengeCode reads the 6-digit code bound to a temp token, standing
// in for the delivery channel a real backend would use.
func (e *env) challengeCode(t *testing.T, tempToken string) string {
	t.Helper()
	ch, err := e.cache.Get(context.Background(), tempToken)
	require.NoError(t, err)
	return ch.Code
}

func (e *env) login(t *testing.T, email, password string) auth.LoginOutcome {
	t.Helper()
	outcome, err := e.manager.Login(context.Background(), email, password)
	require.NoError(t, err)
	return outcome
}

func TestLoginWithoutSecondFactor(t *testing.T) {
	e := newEnv(t)

	outcome := e.login(t, "client@example.com", "client123")
	authed, ok := outcome.(auth.Authenticated)
	require.True(t, ok, "expected Authenticated, got %T", outcome)
	assert.Equal(t, models.RoleClient, authed.User.Role)

	state := e.sessions.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.NotEmpty(t, state.Token)
}

func TestLoginVerifyFlow(t *testing.T) {
	e := newEnv(t)

	outcome := e.login(t, "admin@example.com", "admin123")
	pending, ok := outcome.(auth.TwoFactorPending)
	require.True(t, ok, "expected TwoFactorPending, got %T", outcome)

	state := e.sessions.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.True(t, state.TwoFactorRequired)

	user, err := e.manager.Verify2FA(context.Background(), e.challengeCode(t, pending.TempToken))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	state = e.sessions.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Empty(t, state.TempToken)

	// The installed token works for authenticated reads.
	stats, err := e.service.Stats(context.Background())
	require.NoError(t, err)
	assert.Greater(t, stats.TotalProjects, 0)
}

func TestLoginBadPasswordDoesNotEndSession(t *testing.T) {
	e := newEnv(t)
	e.login(t, "client@example.com", "client123")

	_, err := e.manager.Login(context.Background(), "client@example.com", "wrong")
	require.Error(t, err)

	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)

	// A failed re-login is not a revoked token.
	assert.True(t, e.sessions.Snapshot().IsAuthenticated)
	assert.Equal(t, 0, e.hookCalls)
}

func TestWrongCodeKeepsFlowPending(t *testing.T) {
	e := newEnv(t)

	outcome := e.login(t, "admin@example.com", "admin123")
	pending := outcome.(auth.TwoFactorPending)

	wrong := "000000"
	if e.challengeCode(t, pending.TempToken) == wrong {
		wrong = "000001"
	}

	_, err := e.manager.Verify2FA(context.Background(), wrong)
	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.True(t, e.sessions.Snapshot().TwoFactorRequired)

	// The right code still completes the same challenge.
	_, err = e.manager.Verify2FA(context.Background(), e.challengeCode(t, pending.TempToken))
	require.NoError(t, err)
	assert.True(t, e.sessions.Snapshot().IsAuthenticated)
}

func TestVerifyAttemptLimit(t *testing.T) {
	e := newEnv(t)

	outcome := e.login(t, "admin@example.com", "admin123")
	pending := outcome.(auth.TwoFactorPending)

	wrong := "000000"
	if e.challengeCode(t, pending.TempToken) == wrong {
		wrong = "000001"
	}

	var err error
	for i := 0; i < maxChallengeAttempts; i++ {
		_, err = e.manager.Verify2FA(context.Background(), wrong)
		require.Error(t, err)
		assert.False(t, api.IsUnauthorized(err), "attempt %d", i+1)
	}

	// The attempt after the limit is a real 401 and ends the flow.
	_, err = e.manager.Verify2FA(context.Background(), wrong)
	assert.True(t, api.IsUnauthorized(err))
	assert.True(t, e.sessions.Snapshot().Anonymous())
	assert.Equal(t, 1, e.hookCalls)
}

func TestRevokedTokenClearsSession(t *testing.T) {
	e := newEnv(t)
	e.login(t, "client@example.com", "client123")

	e.backend.RevokeToken(e.sessions.Token())

	_, err := e.service.Stats(context.Background())
	assert.True(t, api.IsUnauthorized(err))
	assert.True(t, e.sessions.Snapshot().Anonymous())
	assert.Equal(t, 1, e.hookCalls)
}

func TestRoleGateOnProjects(t *testing.T) {
	e := newEnv(t)
	e.login(t, "team@example.com", "team123")

	_, err := e.service.CreateProject(context.Background(), agency.ProjectInput{
		Title:       "Unauthorized project",
		Description: "should be rejected",
	})
	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusForbidden, httpErr.Status)

	// The session survives a 403; only 401 ends it.
	assert.True(t, e.sessions.Snapshot().IsAuthenticated)
}

func TestClientSeesOnlyOwnProjects(t *testing.T) {
	e := newEnv(t)
	e.login(t, "client@example.com", "client123")

	projects, err := e.service.ListProjects(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, projects)
	for _, p := range projects {
		assert.Equal(t, "client@example.com", p.ClientEmail)
	}
}

func TestRegisterThenDuplicate(t *testing.T) {
	e := newEnv(t)

	data := models.SignupData{
		Name:     "New Member",
		Email:    "new@example.com",
		Password: "newpass1",
		Role:     models.RoleTeam,
	}
	outcome, err := e.manager.Signup(context.Background(), data)
	require.NoError(t, err)
	_, ok := outcome.(auth.Authenticated)
	assert.True(t, ok)

	require.NoError(t, e.manager.Logout())

	_, err = e.manager.Signup(context.Background(), data)
	var httpErr *api.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusConflict, httpErr.Status)
}

func TestProfileUpdateRoundTrip(t *testing.T) {
	e := newEnv(t)
	e.login(t, "client@example.com", "client123")

	name := "Renamed Client"
	updated, err := e.manager.UpdateProfile(context.Background(), models.UserPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed Client", updated.Name)
	assert.Equal(t, "Renamed Client", e.sessions.Snapshot().User.Name)

	acct, err := e.backend.AccountByEmail("client@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Renamed Client", acct.User.Name)
}

func TestChangePasswordRoundTrip(t *testing.T) {
	e := newEnv(t)
	e.login(t, "client@example.com", "client123")

	require.NoError(t, e.manager.ChangePassword(context.Background(), "client123", "rotated1"))
	require.NoError(t, e.manager.Logout())

	_, err := e.manager.Login(context.Background(), "client@example.com", "client123")
	require.Error(t, err)

	outcome := e.login(t, "client@example.com", "rotated1")
	_, ok := outcome.(auth.Authenticated)
	assert.True(t, ok)
}
