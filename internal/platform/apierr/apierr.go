package apierr

import (
	"errors"
	"fmt"
	"net/http"
)

// Failure classes callers must be able to tell apart.
var (
	ErrNotFound            = errors.New("not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match an *Error against the class sentinels by status.
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	switch target {
	case ErrNotFound:
		return e.Status == http.StatusNotFound
	case ErrInvalidInput:
		return e.Status == http.StatusBadRequest
	case ErrUpstreamUnavailable:
		return e.Status >= http.StatusInternalServerError
	}
	return false
}

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}

func NotFound(code string, err error) *Error {
	return New(http.StatusNotFound, code, err)
}

func InvalidInput(code string, err error) *Error {
	return New(http.StatusBadRequest, code, err)
}

// Upstream wraps a store/transport failure. It maps to a generic 500.
func Upstream(code string, err error) *Error {
	return New(http.StatusInternalServerError, code, err)
}

// StatusOf reports the HTTP status for err, defaulting to 500.
func StatusOf(err error) (int, string) {
	var ae *Error
	if errors.As(err, &ae) && ae.Status != 0 {
		return ae.Status, ae.Code
	}
	return http.StatusInternalServerError, "internal_error"
}
