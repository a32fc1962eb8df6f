package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"agencydesk/internal/api"
	"agencydesk/internal/models"
	"agencydesk/internal/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testHarness struct {
	manager  *Manager
	store    *session.Store
	requests *atomic.Int64
}

// newHarness wires a Manager against an httptest backend, counting
// every request the manager actually sends.
func newHarness(t *testing.T, handler http.Handler) *testHarness {
	t.Helper()

	requests := &atomic.Int64{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		handler.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	store := session.NewStore(session.NewMemoryBackend(), zap.NewNop())
	require.NoError(t, store.Load())

	client := api.NewClient(srv.URL, store, zap.NewNop())
	return &testHarness{
		manager:  NewManager(client, store, zap.NewNop()),
		store:    store,
		requests: requests,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, payload any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(payload))
}

func demoUser(role models.Role) *models.User {
	return &models.User{ID: "u-1", Email: "user@example.com", Name: "Demo", Role: role}
}

func TestLoginWithoutSecondFactor(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		var req models.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "user@example.com", req.Email)
		writeJSON(t, w, http.StatusOK, models.AuthResponse{
			Token: "F1",
			User:  demoUser(models.RoleAdmin),
		})
	}))

	outcome, err := h.manager.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)

	authed, ok := outcome.(Authenticated)
	require.True(t, ok, "expected Authenticated, got %T", outcome)
	assert.Equal(t, "F1", authed.Token)

	state := h.store.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "F1", state.Token)
	assert.False(t, state.TwoFactorRequired)
	assert.Empty(t, state.TempToken)
}

func TestLoginWithSecondFactorPending(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.AuthResponse{
			TempToken:   "T1",
			Requires2FA: true,
		})
	}))

	outcome, err := h.manager.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)

	pending, ok := outcome.(TwoFactorPending)
	require.True(t, ok, "expected TwoFactorPending, got %T", outcome)
	assert.Equal(t, "T1", pending.TempToken)

	state := h.store.Snapshot()
	assert.False(t, state.IsAuthenticated)
	assert.Empty(t, state.Token)
	assert.True(t, state.TwoFactorRequired)
	assert.Equal(t, "T1", state.TempToken)
}

func TestLoginFailureLeavesSessionUntouched(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusBadRequest, map[string]string{"message": "Invalid email or password"})
	}))

	_, err := h.manager.Login(context.Background(), "user@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password", api.ErrorMessage(err))
	assert.True(t, h.store.Snapshot().Anonymous())
}

func TestLoginValidationSkipsNetwork(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := h.manager.Login(context.Background(), "", "secret")
	assert.True(t, IsValidation(err))

	_, err = h.manager.Login(context.Background(), "user@example.com", "")
	assert.True(t, IsValidation(err))

	assert.Equal(t, int64(0), h.requests.Load())
}

func TestVerifyCompletesLogin(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeJSON(t, w, http.StatusOK, models.AuthResponse{TempToken: "T1", Requires2FA: true})
		case "/auth/verify-2fa":
			// The verification call must authenticate with the temp
			// token, never a final one.
			assert.Equal(t, "Bearer T1", r.Header.Get("Authorization"))
			var req models.VerifyRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, "123456", req.Code)
			writeJSON(t, w, http.StatusOK, models.VerifyResponse{
				Token: "F1",
				User:  demoUser(models.RoleAdmin),
			})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	_, err := h.manager.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)

	user, err := h.manager.Verify2FA(context.Background(), "123456")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	state := h.store.Snapshot()
	assert.True(t, state.IsAuthenticated)
	assert.Equal(t, "F1", state.Token)
	assert.Empty(t, state.TempToken)
	assert.False(t, state.TwoFactorRequired)
}

func TestVerifyWithoutPendingLogin(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	_, err := h.manager.Verify2FA(context.Background(), "123456")
	assert.ErrorIs(t, err, ErrMissingCredential)
	assert.Equal(t, int64(0), h.requests.Load())
}

func TestVerifyRejectsMalformedCode(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	for _, code := range []string{"", "12345", "1234567", "12345a", "abcdef"} {
		_, err := h.manager.Verify2FA(context.Background(), code)
		assert.True(t, IsValidation(err), "code %q", code)
	}
	assert.Equal(t, int64(0), h.requests.Load())
}

func TestVerifyRejectedCodeKeepsFlowPending(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeJSON(t, w, http.StatusOK, models.AuthResponse{TempToken: "T1", Requires2FA: true})
		case "/auth/verify-2fa":
			writeJSON(t, w, http.StatusBadRequest, map[string]string{"message": "Invalid verification code"})
		}
	}))

	_, err := h.manager.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)

	_, err = h.manager.Verify2FA(context.Background(), "000000")
	require.Error(t, err)

	// Still pending: the caller can prompt for another code.
	state := h.store.Snapshot()
	assert.True(t, state.TwoFactorRequired)
	assert.Equal(t, "T1", state.TempToken)
}

func TestVerifyExpiredTempTokenClearsPendingFlow(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeJSON(t, w, http.StatusOK, models.AuthResponse{TempToken: "T1", Requires2FA: true})
		case "/auth/verify-2fa":
			writeJSON(t, w, http.StatusUnauthorized, map[string]string{"message": "Verification expired"})
		}
	}))

	_, err := h.manager.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)

	_, err = h.manager.Verify2FA(context.Background(), "123456")
	assert.True(t, api.IsUnauthorized(err))
	assert.True(t, h.store.Snapshot().Anonymous())
}

func TestSignup(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/register", r.URL.Path)
		writeJSON(t, w, http.StatusCreated, models.AuthResponse{
			Token: "F1",
			User:  demoUser(models.RoleClient),
		})
	}))

	outcome, err := h.manager.Signup(context.Background(), models.SignupData{
		Name:     "Demo",
		Email:    "user@example.com",
		Password: "secret",
		Role:     models.RoleClient,
	})
	require.NoError(t, err)

	_, ok := outcome.(Authenticated)
	assert.True(t, ok)
	assert.True(t, h.store.Snapshot().IsAuthenticated)
}

func TestSignupValidationSkipsNetwork(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	base := models.SignupData{
		Name:     "Demo",
		Email:    "user@example.com",
		Password: "secret",
		Role:     models.RoleClient,
	}

	mismatched := base
	mismatched.ConfirmPassword = "different"
	_, err := h.manager.Signup(context.Background(), mismatched)
	assert.True(t, IsValidation(err))

	asAdmin := base
	asAdmin.Role = models.RoleAdmin
	_, err = h.manager.Signup(context.Background(), asAdmin)
	assert.True(t, IsValidation(err))

	assert.Equal(t, int64(0), h.requests.Load())
}

func TestLogoutIsIdempotent(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.AuthResponse{Token: "F1", User: demoUser(models.RoleTeam)})
	}))

	_, err := h.manager.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, h.manager.Logout())
	require.NoError(t, h.manager.Logout())
	assert.True(t, h.store.Snapshot().Anonymous())
}

func TestUpdateUserIsLocalOnly(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, models.AuthResponse{Token: "F1", User: demoUser(models.RoleClient)})
	}))

	_, err := h.manager.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)
	sent := h.requests.Load()

	name := "Renamed"
	require.NoError(t, h.manager.UpdateUser(models.UserPatch{Name: &name}))

	assert.Equal(t, sent, h.requests.Load())
	assert.Equal(t, "Renamed", h.store.Snapshot().User.Name)
}

func TestChangePasswordValidation(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}))

	assert.True(t, IsValidation(h.manager.ChangePassword(context.Background(), "", "next")))
	assert.True(t, IsValidation(h.manager.ChangePassword(context.Background(), "same", "same")))
	assert.Equal(t, int64(0), h.requests.Load())
}

func TestEnable2FAFlipsLocalFlag(t *testing.T) {
	h := newHarness(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/login":
			writeJSON(t, w, http.StatusOK, models.AuthResponse{Token: "F1", User: demoUser(models.RoleClient)})
		case "/auth/enable-2fa":
			writeJSON(t, w, http.StatusOK, map[string]string{"message": "enabled"})
		}
	}))

	_, err := h.manager.Login(context.Background(), "user@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, h.manager.Enable2FA(context.Background(), "123456"))
	assert.True(t, h.store.Snapshot().User.TwoFactorEnabled)
}
