package guard

import (
	"agencydesk/internal/models"
	"agencydesk/internal/session"
)

// LoginPath is where unauthenticated access is redirected.
const LoginPath = "/auth/login"

// Verdict classifies a guard decision.
type Verdict int

const (
	// Pending means the session has not hydrated yet: render nothing,
	// decide nothing.
	Pending Verdict = iota
	// Redirect means access is denied; Decision.Target says where the
	// user belongs instead.
	Redirect
	// Allow means the subtree may render.
	Allow
)

// Decision is the outcome of evaluating a session against a gate.
type Decision struct {
	Verdict Verdict
	Target  string
}

// DashboardPath returns the dashboard root for a role.
func DashboardPath(role models.Role) string {
	return "/dashboard/" + string(role)
}

// Evaluate gates access for the current session. With a non-empty
// allowedRoles list, an authenticated user of the wrong role is sent
// to their own dashboard root; anyone unauthenticated is sent to
// login. The function is pure, so re-running it on every navigation
// is idempotent.
func Evaluate(state session.State, allowedRoles ...models.Role) Decision {
	if state.IsLoading {
		return Decision{Verdict: Pending}
	}
	if !state.IsAuthenticated || state.User == nil {
		return Decision{Verdict: Redirect, Target: LoginPath}
	}
	if len(allowedRoles) > 0 && !roleAllowed(state.User.Role, allowedRoles) {
		return Decision{Verdict: Redirect, Target: DashboardPath(state.User.Role)}
	}
	return Decision{Verdict: Allow}
}

func roleAllowed(role models.Role, allowed []models.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}
