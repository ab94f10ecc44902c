package v1

import (
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

// NewAuthHandler registers login and refresh behind the strict limiter and
// the remaining auth routes on the protected group.
func NewAuthHandler(public, protected *gin.RouterGroup, authUC domain.AuthUsecase, strictLimit gin.HandlerFunc) {
	handler := &AuthHandler{authUC: authUC}

	publicAuth := public.Group("/auth")
	{
		publicAuth.POST("/login", strictLimit, handler.Login)
		publicAuth.POST("/refresh", strictLimit, handler.Refresh)
	}

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/logout", handler.Logout)
		protectedAuth.GET("/me", handler.Me)
		protectedAuth.PUT("/password", handler.ChangePassword)
		protectedAuth.POST("/2fa/setup", handler.SetupTwoFactor)
		protectedAuth.POST("/2fa/enable", handler.EnableTwoFactor)
		protectedAuth.POST("/2fa/disable", handler.DisableTwoFactor)
	}
}

// Login godoc
// @Summary      Log in
// @Description  Exchange email and password (and a TOTP code when 2FA is on) for an access and refresh token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        credentials  body      domain.LoginRequest  true  "Credentials"
// @Success      200          {object}  response.Response{data=domain.AuthResult}
// @Failure      400          {object}  response.Response
// @Failure      401          {object}  response.Response
// @Failure      403          {object}  response.Response
// @Failure      429          {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.authUC.Login(c.Request.Context(), req, clientMeta(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Login successful", result)
}

// Refresh godoc
// @Summary      Rotate tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.RefreshRequest  true  "Refresh token"
// @Success      200   {object}  response.Response{data=domain.AuthResult}
// @Failure      401   {object}  response.Response
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.authUC.Refresh(c.Request.Context(), req.RefreshToken, clientMeta(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Token refreshed", result)
}

// Logout godoc
// @Summary      Revoke a refresh token
// @Tags         auth
// @Accept       json
// @Param        body  body      domain.RefreshRequest  true  "Refresh token"
// @Success      200   {object}  response.Response
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *AuthHandler) Logout(c *gin.Context) {
	var req domain.RefreshRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authUC.Logout(c.Request.Context(), currentUserID(c), req.RefreshToken); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Logged out", nil)
}

// Me godoc
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.User}
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authUC.GetCurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "User profile retrieved", user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req domain.ChangePasswordRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authUC.ChangePassword(c.Request.Context(), currentUserID(c), req); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Password changed", nil)
}

func (h *AuthHandler) SetupTwoFactor(c *gin.Context) {
	setup, err := h.authUC.SetupTwoFactor(c.Request.Context(), currentUserID(c))
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Scan the code with your authenticator app, then confirm it", setup)
}

func (h *AuthHandler) EnableTwoFactor(c *gin.Context) {
	var req domain.TwoFactorCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authUC.EnableTwoFactor(c.Request.Context(), currentUserID(c), req.Code); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Two-factor authentication enabled", nil)
}

func (h *AuthHandler) DisableTwoFactor(c *gin.Context) {
	var req domain.TwoFactorCodeRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.authUC.DisableTwoFactor(c.Request.Context(), currentUserID(c), req.Code); err != nil {
		c.Error(err)
		return
	}
	response.Success(c, http.StatusOK, "Two-factor authentication disabled", nil)
}
