package v1

import (
	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// bindJSON decodes and validates the body, pushing a validation error on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.Error(validation.AsAppError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		c.Error(validation.AsAppError(err))
		return false
	}
	return true
}

// idParam returns the named path parameter when it is a UUID.
func idParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		c.Error(apperror.WithKind(apperror.KindValidation, name, "Invalid "+name))
		return "", false
	}
	return id, true
}

func currentUserID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}

func clientMeta(c *gin.Context) domain.ClientMeta {
	return domain.ClientMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: c.GetString(string(domain.KeyRequestID)),
	}
}
