package session

import (
	"testing"

	"agencydesk/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testUser(role models.Role) *models.User {
	return &models.User{
		ID:    "u-1",
		Email: "user@example.com",
		Name:  "Test User",
		Role:  role,
	}
}

// assertInvariants checks the state exclusivity rules: authenticated
// implies a token and no pending second factor, and a pending second
// factor implies no token.
func assertInvariants(t *testing.T, s State) {
	t.Helper()
	if s.IsAuthenticated {
		assert.NotEmpty(t, s.Token, "authenticated state must hold a token")
		assert.False(t, s.TwoFactorRequired, "authenticated state must not be pending 2FA")
	}
	if s.TwoFactorRequired {
		assert.Empty(t, s.Token, "pending 2FA must not hold a final token")
		assert.NotEmpty(t, s.TempToken, "pending 2FA must hold a temp token")
	}
}

func TestStoreStartsLoading(t *testing.T) {
	store := NewStore(NewMemoryBackend(), zap.NewNop())
	assert.True(t, store.Snapshot().IsLoading)
}

func TestInstallSession(t *testing.T) {
	store := NewStore(NewMemoryBackend(), zap.NewNop())
	require.NoError(t, store.Load())

	require.NoError(t, store.InstallSession(testUser(models.RoleAdmin), "F1"))

	state := store.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "F1", state.Token)
	assert.Empty(t, state.TempToken)
	assertInvariants(t, state)
}

func TestBeginTwoFactorKeepsMainSessionAnonymous(t *testing.T) {
	store := NewStore(NewMemoryBackend(), zap.NewNop())
	require.NoError(t, store.Load())

	require.NoError(t, store.BeginTwoFactor("T1", testUser(models.RoleAdmin)))

	state := store.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.True(t, state.TwoFactorRequired)
	assert.Equal(t, "T1", state.TempToken)
	assert.Empty(t, state.Token)
	assert.Nil(t, state.User)
	assertInvariants(t, state)
}

func TestInstallConsumesTempToken(t *testing.T) {
	store := NewStore(NewMemoryBackend(), zap.NewNop())
	require.NoError(t, store.Load())

	require.NoError(t, store.BeginTwoFactor("T1", testUser(models.RoleAdmin)))
	require.NoError(t, store.InstallSession(testUser(models.RoleAdmin), "F1"))

	state := store.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "F1", state.Token)
	assert.Empty(t, state.TempToken)
	assert.Nil(t, state.PendingUser)
	assert.False(t, state.TwoFactorRequired)
	assertInvariants(t, state)
}

func TestClearIsIdempotent(t *testing.T) {
	store := NewStore(NewMemoryBackend(), zap.NewNop())
	require.NoError(t, store.Load())
	require.NoError(t, store.InstallSession(testUser(models.RoleClient), "F1"))

	require.NoError(t, store.Clear())
	first := store.Snapshot()
	require.NoError(t, store.Clear())
	second := store.Snapshot()

	assert.Equal(t, first, second)
	assert.True(t, second.Anonymous())
}

func TestHydrationTrustsPersistedToken(t *testing.T) {
	// Startup deliberately performs no validation round-trip, so a
	// persisted token counts as authenticated until a 401 says
	// otherwise.
	backend := NewMemoryBackend()

	first := NewStore(backend, zap.NewNop())
	require.NoError(t, first.Load())
	require.NoError(t, first.InstallSession(testUser(models.RoleTeam), "F1"))

	second := NewStore(backend, zap.NewNop())
	require.NoError(t, second.Load())

	state := second.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "F1", state.Token)
	require.NotNil(t, state.User)
	assert.Equal(t, models.RoleTeam, state.User.Role)
	assertInvariants(t, state)
}

func TestHydrationResumesPendingTwoFactor(t *testing.T) {
	backend := NewMemoryBackend()

	first := NewStore(backend, zap.NewNop())
	require.NoError(t, first.Load())
	require.NoError(t, first.BeginTwoFactor("T1", testUser(models.RoleAdmin)))

	second := NewStore(backend, zap.NewNop())
	require.NoError(t, second.Load())

	state := second.Snapshot()
	assert.True(t, state.TwoFactorRequired)
	assert.Equal(t, "T1", state.TempToken)
	assert.False(t, state.IsAuthenticated)
	assertInvariants(t, state)
}

func TestHydrationDropsStalePendingWhenTokenPresent(t *testing.T) {
	backend := NewMemoryBackend()

	first := NewStore(backend, zap.NewNop())
	require.NoError(t, first.Load())
	require.NoError(t, first.BeginTwoFactor("T1", testUser(models.RoleAdmin)))
	require.NoError(t, first.InstallSession(testUser(models.RoleAdmin), "F1"))

	second := NewStore(backend, zap.NewNop())
	require.NoError(t, second.Load())

	state := second.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Empty(t, state.TempToken)
	assert.False(t, state.TwoFactorRequired)
}

func TestUpdateUserMergesPatch(t *testing.T) {
	store := NewStore(NewMemoryBackend(), zap.NewNop())
	require.NoError(t, store.Load())
	require.NoError(t, store.InstallSession(testUser(models.RoleClient), "F1"))

	name := "Renamed"
	require.NoError(t, store.UpdateUser(models.UserPatch{Name: &name}))

	user := store.Snapshot().User
	require.NotNil(t, user)
	assert.Equal(t, "Renamed", user.Name)
	assert.Equal(t, "user@example.com", user.Email)
}

func TestUpdateUserWithoutUserIsNoop(t *testing.T) {
	store := NewStore(NewMemoryBackend(), zap.NewNop())
	require.NoError(t, store.Load())

	name := "Nobody"
	require.NoError(t, store.UpdateUser(models.UserPatch{Name: &name}))
	assert.Nil(t, store.Snapshot().User)
}

func TestFileBackendRoundTrip(t *testing.T) {
	dir := t.TempDir()
	backend := NewFileBackend(dir)

	store := NewStore(backend, zap.NewNop())
	require.NoError(t, store.Load())
	require.NoError(t, store.InstallSession(testUser(models.RoleAdmin), "F1"))

	reloaded := NewStore(NewFileBackend(dir), zap.NewNop())
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "F1", reloaded.Token())

	require.NoError(t, reloaded.Clear())
	empty := NewStore(NewFileBackend(dir), zap.NewNop())
	require.NoError(t, empty.Load())
	assert.True(t, empty.Snapshot().Anonymous())
}

func TestFileBackendMissingKey(t *testing.T) {
	backend := NewFileBackend(t.TempDir())
	data, err := backend.Load("session")
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestCorruptSessionFileTreatedAsLoggedOut(t *testing.T) {
	backend := NewMemoryBackend()
	require.NoError(t, backend.Store(sessionKey, []byte("{not json")))

	store := NewStore(backend, zap.NewNop())
	require.NoError(t, store.Load())
	assert.True(t, store.Snapshot().Anonymous())
}
