package api

import (
	"errors"
	"net/http"

	"github.com/AyaSox/hr-offboarding-checklist/internal/service"
	"github.com/gin-gonic/gin"
)

// APIError API 错误
type APIError struct {
	Code    int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	return e.Message
}

// ErrorHandlerMiddleware 错误处理中间件
func ErrorHandlerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()

			var apiErr *APIError
			if errors.As(err, &apiErr) {
				Error(c, apiErr.Code, apiErr.Message, apiErr.Detail)
			} else {
				Error(c, http.StatusInternalServerError, "internal server error", err.Error())
			}
		}
	}
}

// WrapError 包装错误
func WrapError(err error, code int, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Detail:  err.Error(),
	}
}

// HandleServiceError 服务层错误到 HTTP 状态码的统一映射
//
//	ErrNotFound  → 404
//	ErrConflict  → 409
//	ErrForbidden → 403
//	BlockedError → 422,原因放在 message
//	其余         → 500
func HandleServiceError(c *gin.Context, err error, operation string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		Error(c, http.StatusNotFound, operation+": not found", err.Error())
	case errors.Is(err, service.ErrConflict):
		Error(c, http.StatusConflict, operation+": conflicting update", err.Error())
	case errors.Is(err, service.ErrForbidden):
		Error(c, http.StatusForbidden, operation+": not permitted", err.Error())
	case service.IsBlocked(err):
		Error(c, http.StatusUnprocessableEntity, err.Error(), "")
	default:
		Error(c, http.StatusInternalServerError, "failed to "+operation, err.Error())
	}
}
