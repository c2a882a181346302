package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/userconsole/internal/client/models"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrBusy             = errors.New("operation already in progress")
	ErrStale            = errors.New("result discarded: view is no longer current")
	ErrNotReady         = errors.New("nothing loaded")
	ErrPageOutOfRange   = errors.New("page out of range")
	ErrUserNotOnPage    = errors.New("user is not on the current page")
	ErrNoPendingDelete  = errors.New("no delete awaiting confirmation")
)

// ValidationError carries per-field messages of a local form check. It is
// never the result of a network call.
type ValidationError struct {
	Fields models.FieldErrors
}

func (e *ValidationError) Error() string {
	order := []models.Field{models.FieldFirstName, models.FieldLastName, models.FieldEmail, models.FieldPassword}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range order {
		if msg, ok := e.Fields[f]; ok {
			parts = append(parts, fmt.Sprintf("%s: %s", f, msg))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
