package models

// SignupData is the registration payload. Role must be client or team;
// admin accounts cannot self-register.
type SignupData struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	ConfirmPassword string   `json:"-"`
	Role            Role     `json:"role"`
	Company         string   `json:"company,omitempty"`
	Phone           string   `json:"phone,omitempty"`
	Skills          []string `json:"skills,omitempty"`
}

// LoginRequest is the password-stage credential payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is the wire shape shared by /auth/login and
// /auth/register. When Requires2FA is set the backend withholds the
// final token and issues a short-lived TempToken instead.
type AuthResponse struct {
	Token       string `json:"token,omitempty"`
	TempToken   string `json:"tempToken,omitempty"`
	User        *User  `json:"user"`
	Requires2FA bool   `json:"requires2FA"`
}

// VerifyRequest carries the 6-digit second-factor code.
type VerifyRequest struct {
	Code string `json:"code"`
}

// VerifyResponse is returned by /auth/verify-2fa on success.
type VerifyResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// TwoFactorSetup is returned by /auth/setup-2fa. The secret and the
// QR code payload are generated server-side.
type TwoFactorSetup struct {
	QRCode string `json:"qrCode"`
	Secret string `json:"secret"`
}

// PasswordChange is the payload for PUT /auth/password.
type PasswordChange struct {
	Current string `json:"current"`
	New     string `json:"new"`
}
