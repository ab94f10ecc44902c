package usecase

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/auth"
	"go-recruitment-crm/pkg/logger"
	"go-recruitment-crm/pkg/security"

	"github.com/google/uuid"
)

const invalidCredentialsMessage = "Invalid email or password"

// LoginGuard is satisfied by *security.LoginTracker.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email, ip string) (bool, error)
	RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error)
	ClearAttempts(ctx context.Context, email, ip string) error
}

// TokenRevoker is satisfied by *auth.RevocationStore.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
	Track(ctx context.Context, userID, jti string, ttl time.Duration) error
	RevokeAll(ctx context.Context, userID string, maxTTL time.Duration) (int, error)
}

type authUsecase struct {
	userRepo   domain.UserRepository
	tokens     *auth.TokenManager
	revoker    TokenRevoker
	guard      LoginGuard
	secLog     *security.SecurityLogger
	totpIssuer string
	now        func() time.Time
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	tokens *auth.TokenManager,
	revoker TokenRevoker,
	guard LoginGuard,
	secLog *security.SecurityLogger,
	totpIssuer string,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo:   userRepo,
		tokens:     tokens,
		revoker:    revoker,
		guard:      guard,
		secLog:     secLog,
		totpIssuer: totpIssuer,
		now:        time.Now,
	}
}

func (u *authUsecase) Login(ctx context.Context, req domain.LoginRequest, meta domain.ClientMeta) (*domain.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, apperror.WithKind(apperror.KindMissingEmail, "email", "Email is required")
	}
	if req.Password == "" {
		return nil, apperror.WithKind(apperror.KindMissingPassword, "password", "Password is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.WithKind(apperror.KindValidation, "email", "Email must be a valid email address")
	}

	blocked, err := u.guard.IsBlocked(ctx, email, meta.IP)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if blocked {
		u.secLog.LogLoginBlocked(ctx, email, meta.IP, meta.UserAgent, meta.RequestID)
		return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}

	user, err := u.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		return nil, u.failLogin(ctx, email, meta)
	}

	if user.IsDisabled {
		u.secLog.Log(ctx, security.SecurityEvent{
			Event:        security.EventLoginDisabled,
			SubjectType:  "email",
			SubjectValue: security.MaskEmail(email),
			IP:           meta.IP,
			UserAgent:    meta.UserAgent,
			RequestID:    meta.RequestID,
		})
		return nil, apperror.AccountDisabled("This account has been disabled")
	}

	if user.TOTPEnabled {
		if user.TOTPSecret == nil || !auth.ValidateTOTP(req.OTPCode, *user.TOTPSecret) {
			if err := u.failLogin(ctx, email, meta); apperror.KindOf(err) == apperror.KindRateLimited {
				return nil, err
			}
			return nil, apperror.WithKind(apperror.KindInvalidCredentials, "otp_code", "A valid two-factor code is required")
		}
	}

	if err := u.guard.ClearAttempts(ctx, email, meta.IP); err != nil {
		logger.Log.Warn("failed to clear login attempts", "error", err)
	}
	now := u.now()
	if err := u.userRepo.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, apperror.Internal(err)
	}
	user.LastLoginAt = &now

	result, err := u.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	u.secLog.Log(ctx, security.SecurityEvent{
		Event:        security.EventLoginSuccess,
		SubjectType:  "user_id",
		SubjectValue: security.HashValue(user.ID),
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
	})
	return result, nil
}

// failLogin records the attempt and returns the error to surface: rate_limited
// once the threshold blocks the subject, invalid_credentials otherwise.
func (u *authUsecase) failLogin(ctx context.Context, email string, meta domain.ClientMeta) error {
	blocked, _, err := u.guard.RecordFailedAttempt(ctx, email, meta.IP, meta.UserAgent, meta.RequestID)
	if err != nil {
		return apperror.Internal(err)
	}
	if blocked {
		return apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}
	return apperror.WithKind(apperror.KindInvalidCredentials, "", invalidCredentialsMessage)
}

func (u *authUsecase) issue(ctx context.Context, user *domain.User) (*domain.AuthResult, error) {
	pair, err := u.tokens.IssuePair(user.ID, user.Email, string(user.Role))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if err := u.revoker.Track(ctx, user.ID, pair.RefreshJTI, u.tokens.RefreshTTL()); err != nil {
		logger.Log.Warn("refresh token not tracked", "user_id", user.ID, "error", err)
	}
	return &domain.AuthResult{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    pair.ExpiresIn,
		User:         user,
	}, nil
}

func (u *authUsecase) Refresh(ctx context.Context, refreshToken string, meta domain.ClientMeta) (*domain.AuthResult, error) {
	claims, err := u.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid or expired refresh token")
	}

	revoked, err := u.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if revoked {
		u.logReuse(ctx, claims.Subject, meta)
		return nil, apperror.Unauthorized("Refresh token has been revoked")
	}

	user, err := u.userRepo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("Invalid or expired refresh token")
		}
		return nil, apperror.Internal(err)
	}
	if user.IsDisabled {
		return nil, apperror.AccountDisabled("This account has been disabled")
	}

	first, err := u.revoker.Revoke(ctx, claims.ID, u.remaining(claims))
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if !first {
		u.logReuse(ctx, claims.Subject, meta)
		return nil, apperror.Unauthorized("Refresh token has been revoked")
	}

	result, err := u.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	u.secLog.LogUserEvent(ctx, security.EventTokenRefreshed, user.ID, nil)
	return result, nil
}

func (u *authUsecase) logReuse(ctx context.Context, userID string, meta domain.ClientMeta) {
	u.secLog.Log(ctx, security.SecurityEvent{
		Event:        security.EventTokenReuse,
		SubjectType:  "user_id",
		SubjectValue: security.HashValue(userID),
		IP:           meta.IP,
		UserAgent:    meta.UserAgent,
		RequestID:    meta.RequestID,
	})
}

func (u *authUsecase) remaining(claims *auth.Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return u.tokens.RefreshTTL()
	}
	return claims.ExpiresAt.Sub(u.now())
}

func (u *authUsecase) Logout(ctx context.Context, userID, refreshToken string) error {
	claims, err := u.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return apperror.Unauthorized("Invalid or expired refresh token")
	}
	if claims.Subject != userID {
		return apperror.Forbidden("Refresh token belongs to another user")
	}
	if _, err := u.revoker.Revoke(ctx, claims.ID, u.remaining(claims)); err != nil {
		return apperror.Internal(err)
	}
	u.secLog.LogUserEvent(ctx, security.EventLogout, userID, nil)
	return nil
}

func (u *authUsecase) Authenticate(ctx context.Context, accessToken string) (*domain.Principal, error) {
	claims, err := u.tokens.ParseAccess(accessToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperror.Unauthorized("Token has expired")
		}
		return nil, apperror.Unauthorized("Invalid token")
	}

	user, err := u.userForSubject(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) && claims.Email != "" {
			// external tokens carry the provider's subject; fall back to the email claim
			user, err = u.userRepo.GetByEmail(ctx, strings.ToLower(claims.Email))
		}
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, apperror.Unauthorized("User no longer exists")
			}
			return nil, apperror.Internal(err)
		}
	}
	if user.IsDisabled {
		return nil, apperror.AccountDisabled("This account has been disabled")
	}
	return &domain.Principal{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// userForSubject loads a local user by id. Subjects that are not UUIDs come
// from external issuers and never match a local id.
func (u *authUsecase) userForSubject(ctx context.Context, subject string) (*domain.User, error) {
	if _, err := uuid.Parse(subject); err != nil {
		return nil, domain.ErrNotFound
	}
	return u.userRepo.GetByID(ctx, subject)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "User")
	}
	return user, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID string, req domain.ChangePasswordRequest) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "User")
	}
	if !auth.CheckPassword(user.PasswordHash, req.CurrentPassword) {
		return apperror.WithKind(apperror.KindInvalidCredentials, "current_password", "Current password is incorrect")
	}
	if req.NewPassword == req.CurrentPassword {
		return apperror.WithKind(apperror.KindValidation, "new_password", "New password must differ from the current one")
	}
	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return apperror.WithKind(apperror.KindValidation, "new_password", err.Error())
		}
		return apperror.Internal(err)
	}
	if err := u.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		return notFound(err, "User")
	}
	revoked, err := u.revoker.RevokeAll(ctx, userID, u.tokens.RefreshTTL())
	if err != nil {
		return apperror.Internal(err)
	}
	u.secLog.LogUserEvent(ctx, security.EventPasswordChange, userID, map[string]interface{}{"revoked_sessions": revoked})
	return nil
}

func (u *authUsecase) SetupTwoFactor(ctx context.Context, userID string) (*domain.TwoFactorSetup, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User")
	}
	if user.TOTPEnabled {
		return nil, apperror.Conflict("Two-factor authentication is already enabled")
	}
	secret, url, err := auth.GenerateTOTP(u.totpIssuer, user.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	// stored pending until a valid code confirms it
	if err := u.userRepo.SetTOTP(ctx, userID, &secret, false); err != nil {
		return nil, notFound(err, "User")
	}
	return &domain.TwoFactorSetup{Secret: secret, OTPAuthURL: url}, nil
}

func (u *authUsecase) EnableTwoFactor(ctx context.Context, userID, code string) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "User")
	}
	if user.TOTPEnabled {
		return apperror.Conflict("Two-factor authentication is already enabled")
	}
	if user.TOTPSecret == nil {
		return apperror.BadRequest("Two-factor setup has not been started")
	}
	if !auth.ValidateTOTP(code, *user.TOTPSecret) {
		return apperror.WithKind(apperror.KindValidation, "code", "Invalid two-factor code")
	}
	if err := u.userRepo.SetTOTP(ctx, userID, user.TOTPSecret, true); err != nil {
		return notFound(err, "User")
	}
	u.secLog.LogUserEvent(ctx, security.EventTwoFactorEnabled, userID, nil)
	return nil
}

func (u *authUsecase) DisableTwoFactor(ctx context.Context, userID, code string) error {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		return notFound(err, "User")
	}
	if !user.TOTPEnabled || user.TOTPSecret == nil {
		return apperror.BadRequest("Two-factor authentication is not enabled")
	}
	if !auth.ValidateTOTP(code, *user.TOTPSecret) {
		return apperror.WithKind(apperror.KindValidation, "code", "Invalid two-factor code")
	}
	if err := u.userRepo.SetTOTP(ctx, userID, nil, false); err != nil {
		return notFound(err, "User")
	}
	u.secLog.LogUserEvent(ctx, security.EventTwoFactorDisabled, userID, nil)
	return nil
}
