package stub

import (
	"net/http"
	"time"

	"agencydesk/internal/models"
	"agencydesk/internal/util"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Server is the development stand-in for the agency backend. It
// implements the REST contract the client consumes so the CLI can be
// exercised without the real deployment.
type Server struct {
	store  *Store
	cache  CredentialCache
	logger *zap.Logger
}

// NewServer creates a stub server over the given dataset and
// challenge cache.
func NewServer(store *Store, cache CredentialCache, logger *zap.Logger) *Server {
	return &Server{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// Router builds the chi router with the full middleware stack and all
// routes mounted under /api.
func (s *Server) Router() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggerMiddleware(s.logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "healthy", "service": "agencydesk-stub"})
	})

	router.Route("/api", func(r chi.Router) {
		// Password-stage endpoints carry no bearer credential
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)
		// Verification authenticates with the temp token itself
		r.Post("/auth/verify-2fa", s.handleVerify2FA)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)

			r.Post("/auth/setup-2fa", s.handleSetup2FA)
			r.Post("/auth/enable-2fa", s.handleEnable2FA)
			r.Put("/auth/profile", s.handleUpdateProfile)
			r.Put("/auth/password", s.handleChangePassword)

			r.Get("/projects", s.handleListProjects)
			r.Get("/projects/{projectID}", s.handleGetProject)
			r.With(s.requireRole(models.RoleAdmin)).Post("/projects", s.handleCreateProject)
			r.With(s.requireRole(models.RoleAdmin)).Put("/projects/{projectID}", s.handleUpdateProject)
			r.With(s.requireRole(models.RoleAdmin)).Delete("/projects/{projectID}", s.handleDeleteProject)
			r.With(s.requireRole(models.RoleAdmin, models.RoleTeam)).
				Put("/projects/{projectID}/milestones/{milestoneID}", s.handleUpdateMilestone)

			r.Get("/tasks", s.handleListTasks)
			r.With(s.requireRole(models.RoleAdmin)).Post("/tasks", s.handleCreateTask)
			r.With(s.requireRole(models.RoleAdmin, models.RoleTeam)).Put("/tasks/{taskID}", s.handleUpdateTask)
			r.With(s.requireRole(models.RoleAdmin)).Delete("/tasks/{taskID}", s.handleDeleteTask)

			r.Get("/reviews", s.handleListReviews)
			r.With(s.requireRole(models.RoleClient)).Post("/reviews", s.handleCreateReview)
			r.With(s.requireRole(models.RoleAdmin)).Put("/reviews/{reviewID}", s.handleModerateReview)
			r.With(s.requireRole(models.RoleAdmin)).Delete("/reviews/{reviewID}", s.handleDeleteReview)

			r.Get("/team", s.handleListTeam)
			r.Get("/notifications", s.handleListNotifications)
			r.Put("/notifications/{notificationID}", s.handleReadNotification)
			r.Get("/dashboard/stats", s.handleDashboardStats)
		})
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusNotFound, "endpoint not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return router
}

// requireAuth resolves the bearer token to an account. Unknown or
// revoked tokens get a 401, which the client treats as a forced
// logout.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondWithError(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		acct, err := s.store.AccountByToken(token)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(withAccount(r.Context(), acct)))
	})
}

// requireRole gates a route on the authenticated account's role.
func (s *Server) requireRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct := accountFrom(r.Context())
			for _, role := range roles {
				if acct != nil && acct.User.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			respondWithError(w, http.StatusForbidden, "Insufficient role")
		})
	}
}

// LoggerMiddleware logs each request with its status and duration.
func LoggerMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			defer func() {
				logger.Info("HTTP request",
					util.String("method", r.Method),
					util.String("path", r.URL.Path),
					util.Int("status", ww.Status()),
					util.Duration("duration", time.Since(start)),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

func newID() string {
	return uuid.NewString()
}

func (s *Server) now() time.Time {
	return time.Now().UTC()
}

// parseDate accepts RFC 3339 or plain dates, falling back when the
// input is empty or malformed.
func parseDate(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t
	}
	return fallback
}
