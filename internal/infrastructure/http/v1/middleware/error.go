package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"inventory/internal/core/apperror"
	"inventory/internal/infrastructure/http/v1/dto"
	"inventory/pkg/logger"
)

// ErrorHandler turns the last error registered on the context into a JSON body.
// Causes are logged, never rendered.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		status, body := renderError(c, c.Errors.Last().Err)
		c.JSON(status, body)
	}
}

func renderError(c *gin.Context, err error) (int, dto.ErrorResponse) {
	ctx := c.Request.Context()

	appErr, ok := apperror.AsAppError(err)
	if !ok {
		logger.Error(ctx, "unhandled error", "error", err)
		return http.StatusInternalServerError, dto.ErrorResponse{
			Code:    apperror.CodeInternal,
			Message: "Internal server error",
			Details: map[string]any{"request_id": c.GetString(KeyRequestID)},
		}
	}

	if appErr.Err != nil {
		logger.Error(ctx, "request error", "code", appErr.Code, "cause", appErr.Err)
	}
	return appErr.HTTPStatus, dto.ErrorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Details: appErr.Details,
	}
}
