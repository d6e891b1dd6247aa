package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error
type Error struct {
	Code    int
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Envelope is the JSON body sent to clients. The underlying cause is only
// exposed for server-side failures.
func (e *Error) Envelope() gin.H {
	body := gin.H{"message": e.Message}
	if e.Err != nil && e.Code >= http.StatusInternalServerError {
		body["error"] = e.Err.Error()
	}
	return body
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *Error   { return New(http.StatusBadRequest, message, nil) }
func Unauthorized(message string) *Error { return New(http.StatusUnauthorized, message, nil) }
func NotFound(message string) *Error     { return New(http.StatusNotFound, message, nil) }

// Internal wraps an infrastructure failure.
func Internal(message string, err error) *Error {
	return New(http.StatusInternalServerError, message, err)
}

// From converts any error into an *Error, defaulting to a 500.
func From(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// ErrorMiddleware renders the last error pushed with ctx.Error as the
// response envelope, unless a body was already written.
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := From(c.Errors.Last().Err)
		c.JSON(appErr.Code, appErr.Envelope())
		c.Abort()
	}
}
