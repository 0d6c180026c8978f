package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/martijn/jobboard/internal/api/dto"
	"github.com/martijn/jobboard/internal/core/service"
)

const internalErrorMessage = "An unexpected error occurred"

// ErrorHandlerMiddleware turns panics and errors attached with c.Error into
// a JSON error response. Service errors keep their message; anything else is
// logged and reported as a generic 500.
func ErrorHandlerMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic while handling request",
					slog.Any("panic", rec),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("request_id", c.GetString(RequestIDContextKey)),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					dto.NewErrorResponse(http.StatusInternalServerError, internalErrorMessage))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)
		message := internalErrorMessage

		var se *service.ServiceError
		if status != http.StatusInternalServerError && errors.As(err, &se) {
			message = se.Message
		} else {
			logger.Error("request failed",
				slog.String("error", err.Error()),
				slog.String("method", c.Request.Method),
				slog.String("path", c.Request.URL.Path),
				slog.String("request_id", c.GetString(RequestIDContextKey)),
			)
		}

		c.JSON(status, dto.NewErrorResponse(status, message))
	}
}

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	switch service.KindOf(err) {
	case service.KindBadRequest:
		return http.StatusBadRequest
	case service.KindUnauthorized:
		return http.StatusUnauthorized
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
