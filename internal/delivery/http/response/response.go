package response

import (
	"go-recruitment-crm/internal/domain"
	"go-recruitment-crm/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Meta carries the request id and, for list endpoints, paging information.
type Meta struct {
	RequestID  string `json:"request_id,omitempty"`
	Page       int    `json:"page,omitempty"`
	PageSize   int    `json:"page_size,omitempty"`
	Total      *int64 `json:"total,omitempty"`
	TotalPages *int   `json:"total_pages,omitempty"`
}

// Response standardizes the API JSON response
type Response struct {
	Success bool                  `json:"success"`
	Message string                `json:"message,omitempty"`
	Data    interface{}           `json:"data"`
	Errors  []apperror.FieldError `json:"errors"`
	Meta    Meta                  `json:"meta"`
}

func requestID(c *gin.Context) string {
	return c.GetString(string(domain.KeyRequestID))
}

// Success sends a success response
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Success: true,
		Message: message,
		Data:    data,
		Errors:  []apperror.FieldError{},
		Meta:    Meta{RequestID: requestID(c)},
	})
}

// Paginated sends a page of items with the paging totals in meta.
func Paginated[T any](c *gin.Context, code int, message string, page *domain.PaginatedResult[T]) {
	total, pages := page.Total, page.TotalPages
	c.JSON(code, Response{
		Success: true,
		Message: message,
		Data:    page.Data,
		Errors:  []apperror.FieldError{},
		Meta: Meta{
			RequestID:  requestID(c),
			Page:       page.Page,
			PageSize:   page.PageSize,
			Total:      &total,
			TotalPages: &pages,
		},
	})
}

// Error sends an error response
func Error(c *gin.Context, code int, message string, errs []apperror.FieldError) {
	if len(errs) == 0 {
		errs = []apperror.FieldError{{Code: apperror.KindForStatus(code), Message: message}}
	}
	c.JSON(code, Response{
		Success: false,
		Message: message,
		Data:    nil,
		Errors:  errs,
		Meta:    Meta{RequestID: requestID(c)},
	})
}

// AppError renders err with its own status and field errors.
func AppError(c *gin.Context, err *apperror.AppError) {
	Error(c, err.Code, err.Message, err.Errors())
}
