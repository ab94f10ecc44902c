package middleware

import (
	"errors"
	"net/http"

	"go-recruitment-crm/internal/delivery/http/response"
	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"
	"go-recruitment-crm/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code < http.StatusInternalServerError {
			response.AppError(c, appErr)
			return
		}

		// Internal details stay in the log.
		status := http.StatusInternalServerError
		if appErr != nil {
			status = appErr.Code
		}
		logger.Log.Error("request failed",
			"request_id", c.GetString(string(domain.KeyRequestID)),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"error", err,
		)
		message := "An unexpected error occurred. Please try again later."
		if appErr != nil && status != http.StatusInternalServerError {
			message = appErr.Message
		}
		response.Error(c, status, message, nil)
	}
}

// NoRoute renders unknown paths in the standard envelope.
func NoRoute(c *gin.Context) {
	response.Error(c, http.StatusNotFound, "Resource not found", nil)
}

func NoMethod(c *gin.Context) {
	response.Error(c, http.StatusMethodNotAllowed, "Method not allowed", nil)
}
