package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSessions is a minimal SessionSource whose token can change
// between requests.
type fakeSessions struct {
	mu     sync.Mutex
	token  string
	clears int
}

func (f *fakeSessions) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *fakeSessions) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.clears++
	return nil
}

func (f *fakeSessions) set(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
}

func (f *fakeSessions) clearCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.clears
}

func TestDoAttachesFreshToken(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	sessions := &fakeSessions{}
	client := NewClient(srv.URL, sessions, zap.NewNop())

	require.NoError(t, client.Get(context.Background(), "/first", nil))
	sessions.set("F1")
	require.NoError(t, client.Get(context.Background(), "/second", nil))

	require.Len(t, seen, 2)
	assert.Empty(t, seen[0])
	assert.Equal(t, "Bearer F1", seen[1])
}

func TestWithBearerOverridesSessionToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	sessions := &fakeSessions{token: "F1"}
	client := NewClient(srv.URL, sessions, zap.NewNop())

	require.NoError(t, client.Post(context.Background(), "/auth/verify-2fa", map[string]string{"code": "123456"}, nil, WithBearer("T1")))
	assert.Equal(t, "Bearer T1", got)
}

func TestUnauthorizedClearsSessionAndFiresHookOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"token revoked"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	hookCalls := 0
	sessions := &fakeSessions{token: "stale"}
	client := NewClient(srv.URL, sessions, zap.NewNop(),
		WithUnauthorizedHook(func() { hookCalls++ }),
	)

	err := client.Get(context.Background(), "/projects", nil)
	require.Error(t, err)

	var unauthorized *UnauthorizedError
	require.ErrorAs(t, err, &unauthorized)
	assert.Equal(t, "/projects", unauthorized.Path)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, 1, hookCalls, "hook fires exactly once per rejected request")
	assert.Equal(t, 1, sessions.clearCount())
	assert.Empty(t, sessions.Token())
}

func TestNonOKStatusBecomesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid email or password"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &fakeSessions{}, zap.NewNop())
	err := client.Post(context.Background(), "/auth/login", map[string]string{}, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Invalid email or password", httpErr.Message)
	assert.False(t, IsUnauthorized(err))
}

func TestErrorMessageFallsBackToErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"email already registered"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &fakeSessions{}, zap.NewNop())
	err := client.Post(context.Background(), "/auth/register", map[string]string{}, nil)

	var httpErr *HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, "email already registered", httpErr.Message)
}

func TestTransportFailureBecomesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewClient(srv.URL, &fakeSessions{}, zap.NewNop())
	err := client.Get(context.Background(), "/projects", nil)

	assert.True(t, IsNetworkError(err))
	assert.False(t, IsUnauthorized(err))
}

func TestDoDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Write([]byte(`{"name":"E-commerce relaunch"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, &fakeSessions{}, zap.NewNop())

	var out struct {
		Name string `json:"name"`
	}
	require.NoError(t, client.Get(context.Background(), "/projects/p-1", &out))
	assert.Equal(t, "E-commerce relaunch", out.Name)
}

func TestBaseURLTrailingSlash(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL+"/", &fakeSessions{}, zap.NewNop())
	require.NoError(t, client.Get(context.Background(), "/health", nil))
	assert.Equal(t, "/health", path)
}
