package domain

import "context"

// LoginRequest fields are checked in the usecase so that empty values map
// to missing_email / missing_password instead of a generic validation error.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	OTPCode  string `json:"otp_code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=128"`
}

type TwoFactorCodeRequest struct {
	Code string `json:"code" binding:"required,otp_code"`
}

// ClientMeta identifies the caller for lockout and audit logging.
type ClientMeta struct {
	IP        string
	UserAgent string
	RequestID string
}

type AuthResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
	User         *User  `json:"user"`
}

type TwoFactorSetup struct {
	Secret     string `json:"secret"`
	OTPAuthURL string `json:"otpauth_url"`
}

// Principal is the authenticated caller resolved from a bearer token.
type Principal struct {
	UserID string
	Email  string
	Role   Role
}

type AuthUsecase interface {
	Login(ctx context.Context, req LoginRequest, meta ClientMeta) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*AuthResult, error)
	Logout(ctx context.Context, userID, refreshToken string) error
	Authenticate(ctx context.Context, accessToken string) (*Principal, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
	ChangePassword(ctx context.Context, userID string, req ChangePasswordRequest) error
	SetupTwoFactor(ctx context.Context, userID string) (*TwoFactorSetup, error)
	EnableTwoFactor(ctx context.Context, userID, code string) error
	DisableTwoFactor(ctx context.Context, userID, code string) error
}
