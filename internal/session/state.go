package session

import "agencydesk/internal/models"

// State is the client-held authentication state.
//
// Exactly one of Token / TempToken is ever active: TempToken exists
// only between a password login that demanded a second factor and the
// verification that completes it.
type State struct {
	User              *models.User
	Token             string
	TempToken         string
	PendingUser       *models.User
	IsAuthenticated   bool
	IsLoading         bool
	TwoFactorRequired bool
}

// Anonymous reports whether no credential of any kind is held.
func (s State) Anonymous() bool {
	return !s.IsAuthenticated && !s.TwoFactorRequired && s.Token == "" && s.TempToken == ""
}

// persistedState is the durable subset of State. It deliberately
// excludes IsLoading, TwoFactorRequired and the temp credential.
type persistedState struct {
	User            *models.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

// pendingState is the transient second-factor slot. It is persisted
// under its own key so an interrupted 2FA flow can resume in a later
// process, and is wiped on success, logout and any 401.
type pendingState struct {
	TempToken string       `json:"tempToken"`
	User      *models.User `json:"pendingUser,omitempty"`
}
