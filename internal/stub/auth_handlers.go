package stub

import (
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"agencydesk/internal/models"
	"agencydesk/internal/util"

	"go.uber.org/zap"
)

// handleLogin implements POST /auth/login. Invalid credentials are a
// 400, not a 401: only a rejected bearer token may end a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	acct, err := s.store.AccountByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}
	ok, err := verifyPassword(req.Password, acct.PasswordHash)
	if err != nil || !ok {
		respondWithError(w, http.StatusBadRequest, "Invalid email or password")
		return
	}

	if acct.User.TwoFactorEnabled {
		s.issueChallenge(w, r, acct)
		return
	}

	token, err := s.store.IssueToken(acct.User.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	s.logger.Info("Login",
		util.String("email", acct.User.Email),
		util.String("role", string(acct.User.Role)),
	)
	user := acct.User
	respondWithJSON(w, http.StatusOK, models.AuthResponse{Token: token, User: &user})
}

// handleRegister implements POST /auth/register. Admin accounts cannot
// self-register; new accounts start without a second factor, so the
// final token is issued directly.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.SignupData
	if !decodeBody(w, r, &req) {
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondWithError(w, http.StatusBadRequest, "Name, email and password are required")
		return
	}
	if req.Role != models.RoleClient && req.Role != models.RoleTeam {
		respondWithError(w, http.StatusBadRequest, "Role must be client or team")
		return
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	acct, err := s.store.CreateAccount(models.User{
		ID:        newID(),
		Email:     req.Email,
		Name:      req.Name,
		Role:      req.Role,
		CreatedAt: s.now(),
	}, hash)
	if err != nil {
		if errors.Is(err, errAlreadyExists) {
			respondWithError(w, http.StatusConflict, "An account with this email already exists")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	token, err := s.store.IssueToken(acct.User.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	s.logger.Info("Account registered",
		util.String("email", acct.User.Email),
		util.String("role", string(acct.User.Role)),
	)
	user := acct.User
	respondWithJSON(w, http.StatusCreated, models.AuthResponse{Token: token, User: &user})
}

// issueChallenge starts the second-factor stage: a temp token bound to
// a 6-digit code with a short TTL. The code is logged in place of a
// real delivery channel.
func (s *Server) issueChallenge(w http.ResponseWriter, r *http.Request, acct *Account) {
	tempToken, err := newToken()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue challenge")
		return
	}
	code, err := newCode()
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue challenge")
		return
	}
	if err := s.cache.Put(r.Context(), tempToken, challenge{Email: acct.User.Email, Code: code}); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue challenge")
		return
	}

	s.logger.Info("Second factor challenge issued",
		util.String("email", acct.User.Email),
		util.String("code", code),
	)
	user := acct.User
	respondWithJSON(w, http.StatusOK, models.AuthResponse{
		Requires2FA: true,
		TempToken:   tempToken,
		User:        &user,
	})
}

// handleVerify2FA implements POST /auth/verify-2fa. The request
// authenticates with the temp token: an unknown or expired one is a
// real 401, while a wrong code is a 400 so the client can re-prompt.
func (s *Server) handleVerify2FA(w http.ResponseWriter, r *http.Request) {
	tempToken := bearerToken(r)
	if tempToken == "" {
		respondWithError(w, http.StatusUnauthorized, "Missing temp token")
		return
	}

	ch, err := s.cache.Get(r.Context(), tempToken)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Challenge expired, log in again")
		return
	}

	var req models.VerifyRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := s.cache.RecordAttempt(r.Context(), tempToken); err != nil {
		if errors.Is(err, errTooManyAttempts) {
			respondWithError(w, http.StatusUnauthorized, "Too many attempts, log in again")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Verification failed")
		return
	}

	if req.Code != ch.Code {
		respondWithError(w, http.StatusBadRequest, "Invalid verification code")
		return
	}

	acct, err := s.store.AccountByEmail(ch.Email)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Account no longer exists")
		return
	}
	if err := s.cache.Delete(r.Context(), tempToken); err != nil {
		s.logger.Warn("Failed to consume challenge", zap.Error(err))
	}

	token, err := s.store.IssueToken(acct.User.Email)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	s.logger.Info("Second factor verified", util.String("email", acct.User.Email))
	user := acct.User
	respondWithJSON(w, http.StatusOK, models.VerifyResponse{Token: token, User: &user})
}

// handleSetup2FA implements POST /auth/setup-2fa. The stub hands out
// a random base32 secret and an otpauth URL; real TOTP provisioning
// and validation belong to the production backend.
func (s *Server) handleSetup2FA(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())

	buf := make([]byte, 20)
	if _, err := rand.Read(buf); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to generate secret")
		return
	}
	secret := base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf)
	qr := fmt.Sprintf("otpauth://totp/agencydesk:%s?secret=%s&issuer=agencydesk", acct.User.Email, secret)

	respondWithJSON(w, http.StatusOK, models.TwoFactorSetup{QRCode: qr, Secret: secret})
}

// handleEnable2FA implements POST /auth/enable-2fa. The stub checks
// the code's shape only; confirming it against the secret is the real
// backend's job.
func (s *Server) handleEnable2FA(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())

	var req models.VerifyRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if len(req.Code) != 6 {
		respondWithError(w, http.StatusBadRequest, "Invalid verification code")
		return
	}

	if err := s.store.UpdateAccount(acct.User.Email, func(a *Account) {
		a.User.TwoFactorEnabled = true
	}); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to enable two-factor")
		return
	}

	s.logger.Info("Two-factor enabled", util.String("email", acct.User.Email))
	respondWithJSON(w, http.StatusOK, map[string]bool{"enabled": true})
}

// handleUpdateProfile implements PUT /auth/profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())

	var patch models.UserPatch
	if !decodeBody(w, r, &patch) {
		return
	}

	var updated models.User
	if err := s.store.UpdateAccount(acct.User.Email, func(a *Account) {
		patch.Apply(&a.User)
		updated = a.User
	}); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// handleChangePassword implements PUT /auth/password.
func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	acct := accountFrom(r.Context())

	var req models.PasswordChange
	if !decodeBody(w, r, &req) {
		return
	}
	ok, err := verifyPassword(req.Current, acct.PasswordHash)
	if err != nil || !ok {
		respondWithError(w, http.StatusBadRequest, "Current password is incorrect")
		return
	}
	if req.New == "" {
		respondWithError(w, http.StatusBadRequest, "New password must not be empty")
		return
	}

	hash, err := hashPassword(req.New)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}
	if err := s.store.UpdateAccount(acct.User.Email, func(a *Account) {
		a.PasswordHash = hash
	}); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to change password")
		return
	}

	s.logger.Info("Password changed", util.String("email", acct.User.Email))
	respondWithJSON(w, http.StatusOK, map[string]bool{"changed": true})
}
