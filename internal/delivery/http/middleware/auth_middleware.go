package middleware

import (
	"errors"
	"net/http"
	"strings"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/security"

	"github.com/gin-gonic/gin"
)

const AccessTokenCookie = "access_token"

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return ""
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// AuthMiddleware resolves the bearer token (or access_token cookie) to a
// Principal and stores it both on the gin context and the request context.
func AuthMiddleware(authUC domain.AuthUsecase) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			reject(c, apperror.Unauthorized("Authorization header or access_token cookie required"))
			return
		}

		principal, err := authUC.Authenticate(c.Request.Context(), token)
		if err != nil {
			var appErr *apperror.AppError
			if !errors.As(err, &appErr) {
				appErr = apperror.Internal(err)
			}
			reject(c, appErr)
			return
		}

		c.Set(string(domain.KeyUserID), principal.UserID)
		c.Set(string(domain.KeyUserEmail), principal.Email)
		c.Set(string(domain.KeyUserRole), string(principal.Role))
		c.Request = c.Request.WithContext(domain.WithPrincipal(c.Request.Context(), *principal))
		c.Next()
	}
}

// RequireRole lets through callers whose role is at least min.
func RequireRole(min domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(string(domain.KeyUserRole)))
		if !role.AtLeast(min) {
			security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
				Event:        security.EventForbiddenAccess,
				SubjectType:  "user_id",
				SubjectValue: security.HashValue(c.GetString(string(domain.KeyUserID))),
				IP:           c.ClientIP(),
				RequestID:    c.GetString(string(domain.KeyRequestID)),
				Details:      map[string]interface{}{"path": c.FullPath(), "required_role": string(min)},
			})
			response.AppError(c, apperror.Forbidden("Insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}

func reject(c *gin.Context, err *apperror.AppError) {
	if err.Code == http.StatusUnauthorized {
		security.DefaultLogger().Log(c.Request.Context(), security.SecurityEvent{
			Event:     security.EventUnauthorizedAccess,
			IP:        c.ClientIP(),
			UserAgent: c.GetHeader("User-Agent"),
			RequestID: c.GetString(string(domain.KeyRequestID)),
			Details:   map[string]interface{}{"path": c.FullPath(), "reason": err.Message},
		})
	}
	response.AppError(c, err)
	c.Abort()
}
