package guard

import (
	"testing"

	"agencydesk/internal/models"
	"agencydesk/internal/session"

	"github.com/stretchr/testify/assert"
)

func authedState(role models.Role) session.State {
	return session.State{
		User:            &models.User{ID: "u-1", Role: role},
		Token:           "F1",
		IsAuthenticated: true,
	}
}

func TestEvaluatePendingWhileLoading(t *testing.T) {
	state := session.State{IsLoading: true}
	got := Evaluate(state, models.RoleAdmin)
	assert.Equal(t, Decision{Verdict: Pending}, got)
}

func TestEvaluateRedirectsAnonymousToLogin(t *testing.T) {
	got := Evaluate(session.State{})
	assert.Equal(t, Decision{Verdict: Redirect, Target: LoginPath}, got)
}

func TestEvaluateRedirectsPendingTwoFactorToLogin(t *testing.T) {
	state := session.State{TempToken: "T1", TwoFactorRequired: true}
	got := Evaluate(state, models.RoleClient)
	assert.Equal(t, Decision{Verdict: Redirect, Target: LoginPath}, got)
}

func TestEvaluateAllowsMatchingRole(t *testing.T) {
	got := Evaluate(authedState(models.RoleAdmin), models.RoleAdmin)
	assert.Equal(t, Decision{Verdict: Allow}, got)
}

func TestEvaluateAllowsAnyRoleWithoutGate(t *testing.T) {
	for _, role := range []models.Role{models.RoleAdmin, models.RoleClient, models.RoleTeam} {
		got := Evaluate(authedState(role))
		assert.Equal(t, Decision{Verdict: Allow}, got, "role %s", role)
	}
}

func TestEvaluateRedirectsWrongRoleToOwnDashboard(t *testing.T) {
	got := Evaluate(authedState(models.RoleClient), models.RoleAdmin)
	assert.Equal(t, Decision{Verdict: Redirect, Target: "/dashboard/client"}, got)
}

func TestEvaluateAcceptsAnyAllowedRole(t *testing.T) {
	got := Evaluate(authedState(models.RoleTeam), models.RoleAdmin, models.RoleTeam)
	assert.Equal(t, Decision{Verdict: Allow}, got)
}

func TestEvaluateIsIdempotent(t *testing.T) {
	state := authedState(models.RoleClient)
	first := Evaluate(state, models.RoleAdmin)
	second := Evaluate(state, models.RoleAdmin)
	assert.Equal(t, first, second)
}
