package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/juju/errors"
	"go.uber.org/zap"
)

// InvalidState marks an operation that is illegal for the current lifecycle
// state of an entity, such as editing a confirmed booking.
const InvalidState = errors.ConstError("invalid state")

// The remaining kinds come straight from juju/errors:
//
//	errors.NotValid       malformed input
//	errors.NotFound       referenced entity absent
//	errors.Unauthorized   actor lacks permission
//	errors.AlreadyExists  uniqueness violation
//
// InvalidStatef returns an error satisfying errors.Is(err, InvalidState).
func InvalidStatef(format string, args ...any) error {
	return errors.WithType(errors.Errorf(format, args...), InvalidState)
}

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// HTTPStatus maps a domain error kind to the status code returned to clients.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, errors.NotValid), errors.Is(err, errors.BadRequest):
		return http.StatusBadRequest
	case errors.Is(err, errors.NotFound):
		return http.StatusNotFound
	case errors.Is(err, errors.Unauthorized), errors.Is(err, errors.Forbidden):
		return http.StatusForbidden
	case errors.Is(err, errors.AlreadyExists), errors.Is(err, InvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes err as a JSON error response. Unclassified errors are
// reported with a generic message so storage details never reach the client.
func RespondError(c *gin.Context, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		GetLogger().Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		c.AbortWithStatusJSON(status, ErrorResponse{
			Message: "Internal Server Error",
			Details: "An unexpected error occurred. Please try again later.",
		})
		return
	}
	JSONError(c, status, http.StatusText(status), err.Error())
}

// HandleErrors is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				Logger := GetLogger()
				Logger.Error("Unhandled panic", zap.Any("error", err))

				c.JSON(http.StatusInternalServerError, ErrorResponse{
					Message: "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response
func JSONError(c *gin.Context, status int, message string, details string) {
	Logger := GetLogger()
	Logger.Warn(message, zap.String("details", details))
	c.AbortWithStatusJSON(status, ErrorResponse{Message: message, Details: details})
}
