// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"inventory/internal/core/apperror"
	"inventory/pkg/logger"
)

// Recovery recovers from panics and answers 500.
// It sits outside ErrorHandler, so it renders the response itself.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", rec,
					"stack", string(debug.Stack()),
				)

				err := apperror.NewInternal(fmt.Errorf("panic: %v", rec)).
					WithDetail("request_id", c.GetString(KeyRequestID))
				_ = c.Error(err)
				if c.Writer.Written() {
					c.Abort()
					return
				}
				status, body := renderError(c, err)
				c.AbortWithStatusJSON(status, body)
			}
		}()
		c.Next()
	}
}
