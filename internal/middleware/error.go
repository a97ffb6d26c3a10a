package middleware

import (
	"errors"
	"strconv"

	"github.com/GoPolymarket/liqwatch/internal/pkg/apperrors"
	"github.com/GoPolymarket/liqwatch/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Only handle if there are errors
		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperrors.AppError

		if !errors.As(err, &appErr) {
			appErr = apperrors.New(apperrors.ErrInternal, err.Error(), err)
		}

		logFields := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"code", appErr.Type,
			"client_ip", c.ClientIP(),
			"request_id", c.GetString(ContextRequestID),
		}

		if appErr.HTTPStatus >= 500 {
			logger.LogError(c.Request.Context(), appErr, "Internal Server Error", logFields...)
		} else {
			logger.Warn(appErr.Message, logFields...)
		}

		if appErr.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(appErr.RetryAfter))
		}
		c.JSON(appErr.HTTPStatus, appErr)
	}
}
