package server

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/toyz/ngcc/internal/errors"
)

// HttpError represents an HTTP error with a specific status code and message
type HttpError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
}

// Error implements the error interface
func (e *HttpError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NewHttpError creates a new HttpError with the given status code and message
func NewHttpError(statusCode int, message string) *HttpError {
	return &HttpError{StatusCode: statusCode, Message: message}
}

// ErrBadRequest creates a 400 Bad Request error
func ErrBadRequest(message string) *HttpError {
	return NewHttpError(http.StatusBadRequest, message)
}

// ErrBadRequestWithDetails creates a 400 Bad Request error with details
func ErrBadRequestWithDetails(message string, details any) *HttpError {
	return &HttpError{StatusCode: http.StatusBadRequest, Message: message, Details: details}
}

// ErrRequestTooLarge creates a 413 Request Entity Too Large error
func ErrRequestTooLarge(message string) *HttpError {
	return NewHttpError(http.StatusRequestEntityTooLarge, message)
}

// errorHandler renders HttpError and echo errors as JSON bodies
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var httpErr *HttpError
	if !errors.As(err, &httpErr) {
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			httpErr = NewHttpError(echoErr.Code, fmt.Sprint(echoErr.Message))
		} else {
			httpErr = NewHttpError(http.StatusInternalServerError, err.Error())
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(httpErr.StatusCode)
	} else {
		err = c.JSON(httpErr.StatusCode, httpErr)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
