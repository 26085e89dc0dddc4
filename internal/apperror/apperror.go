// Package apperror is the error taxonomy shared by the HTTP layer.
// Every kind maps to exactly one status code and response body shape.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindServer Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindAuth
	KindRateLimit
)

// FieldError is one failed rule of a request payload.
type FieldError struct {
	Msg      string `json:"msg"`
	Param    string `json:"param,omitempty"`
	Location string `json:"location,omitempty"`
}

type Error struct {
	Kind   Kind
	Msg    string
	Fields []FieldError
	Err    error // cause, logged only
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Status is the HTTP status for the kind. Not-found is 400, not 404: clients
// of this API have always received 400 for a missing profile.
func (e *Error) Status() int {
	switch e.Kind {
	case KindValidation, KindConflict, KindNotFound:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func Validation(fields []FieldError) *Error {
	return &Error{Kind: KindValidation, Msg: "validation failed", Fields: fields}
}

func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Msg: msg, Fields: []FieldError{{Msg: msg}}}
}

func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Msg: msg}
}

func RateLimited() *Error {
	return &Error{Kind: KindRateLimit, Msg: "Too many requests"}
}

// Server wraps an unexpected failure. The message never reaches the client.
func Server(op string, err error) *Error {
	return &Error{Kind: KindServer, Msg: op, Err: err}
}

// From classifies any error; anything that is not an *Error is a server error.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Server("unexpected error", err)
}
