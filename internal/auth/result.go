package auth

import (
	"errors"
	"strings"

	"expense-ledger/internal/models"
)

// Result is the outcome shape handed to the presentation layer.
type Result struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Session *models.Session `json:"session,omitempty"`
}

// NewResult converts an operation outcome into a Result. A persistence
// failure still counts as success: the change is held in memory, and the
// message warns that it was not saved.
func NewResult(okMessage string, err error) Result {
	switch {
	case err == nil:
		return Result{Success: true, Message: okMessage}
	case errors.Is(err, ErrPersistence):
		return Result{Success: true, Message: okMessage + " " + Message(err)}
	default:
		return Result{Success: false, Message: Message(err)}
	}
}

// Message renders err as a user-facing notification.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "Please check your input: " + detail(err, ErrValidation)
	case errors.Is(err, ErrDuplicateUser):
		return "That username is already taken."
	case errors.Is(err, ErrNotFound):
		return "No account exists with that username."
	case errors.Is(err, ErrInvalidCredential):
		return "Incorrect password."
	case errors.Is(err, ErrNotAuthenticated):
		return "Please log in first."
	case errors.Is(err, ErrPersistence):
		return "Warning: changes could not be saved to storage and will be lost on reload."
	default:
		return "Something went wrong. Please try again."
	}
}

// detail strips the sentinel prefix added by "%w: ..." wrapping.
func detail(err, sentinel error) string {
	msg := err.Error()
	if i := strings.Index(msg, sentinel.Error()+": "); i >= 0 {
		return msg[i+len(sentinel.Error())+2:]
	}
	return msg
}
