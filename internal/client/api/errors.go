package api

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// DefaultLoginMessage is used when a rejected login carries no error body.
const DefaultLoginMessage = "invalid credentials"

// AuthError reports a login rejected by the server.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return ErrUnauthorized }

// FetchError reports any other failed call: a non-2xx status or a transport
// failure (Status is zero then).
type FetchError struct {
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return fmt.Sprintf("%s: %s (status %d)", e.Op, e.Message, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// statusError is produced by the response normalizer before the calling
// operation decides which public error kind it maps to.
type statusError struct {
	status   int
	message  string
	fromBody bool
}

func (e *statusError) Error() string { return e.message }

func sentinelFor(status int) error {
	switch status {
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	}
	return nil
}

// mapError converts a normalizer or transport error into a *FetchError.
func mapError(op string, err error) error {
	var se *statusError
	if errors.As(err, &se) {
		return &FetchError{Op: op, Status: se.status, Message: se.message, Err: sentinelFor(se.status)}
	}
	if errors.Is(err, ErrMalformedResponse) {
		return &FetchError{Op: op, Message: err.Error(), Err: err}
	}
	return &FetchError{Op: op, Message: err.Error(), Err: errors.Join(ErrUnavailable, err)}
}

// mapLoginError converts a failed login into an *AuthError when the server
// answered, keeping transport failures as *FetchError.
func mapLoginError(err error) error {
	var se *statusError
	if errors.As(err, &se) {
		msg := DefaultLoginMessage
		if se.fromBody {
			msg = se.message
		}
		return &AuthError{Status: se.status, Message: msg}
	}
	return mapError("login", err)
}
