package auth

import "agencydesk/internal/models"

// LoginOutcome is the result of a password-stage success. It is a
// closed union: either the session is fully established, or a second
// factor is still outstanding.
type LoginOutcome interface {
	loginOutcome()
}

// Authenticated means the backend issued the final token directly and
// the session is live.
type Authenticated struct {
	User  *models.User
	Token string
}

// TwoFactorPending means the password was accepted but a 6-digit code
// must still be verified against the temp credential.
type TwoFactorPending struct {
	TempToken string
}

func (Authenticated) loginOutcome()    {}
func (TwoFactorPending) loginOutcome() {}
