package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-jobboard-backend/internal/delivery/http/response"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Status == http.StatusInternalServerError {
				// Log the cause server-side; the client gets the
				// generic message only.
				logger.Log.Error("Internal error",
					"path", c.FullPath(),
					"request_id", c.GetString("RequestID"),
					"error", appErr.Err,
				)
			}
			response.Error(c, appErr.Status, appErr.Code, appErr.Message, appErr.Fields)
			return
		}

		logger.Log.Error("Unhandled error",
			"path", c.FullPath(),
			"request_id", c.GetString("RequestID"),
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, apperror.CodeInternal,
			"An unexpected error occurred. Please try again later.", nil)
	}
}
