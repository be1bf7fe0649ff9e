package handler

import (
	"errors"
	"net/http"
)

var ErrNilResponse = errors.New("handler: nil response")

// HTTPError carries a status code and a user-facing message.
type HTTPError struct {
	Code    int
	Message string
}

func (e HTTPError) Error() string { return e.Message }

// NewHTTPError returns an HTTPError; an empty message uses the status text.
func NewHTTPError(code int, message string) HTTPError {
	if message == "" {
		message = http.StatusText(code)
	}
	return HTTPError{Code: code, Message: message}
}

var (
	ErrBadRequest = NewHTTPError(http.StatusBadRequest, "")
	ErrForbidden  = NewHTTPError(http.StatusForbidden, "")
	ErrNotFound   = NewHTTPError(http.StatusNotFound, "")
)
