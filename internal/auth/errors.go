package auth

import (
	"errors"

	"expense-ledger/internal/credstore"
)

var (
	// ErrValidation marks malformed input such as a short username.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateUser marks a case-insensitive username collision.
	ErrDuplicateUser = errors.New("username already taken")
	// ErrNotFound marks an unknown username at login.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredential marks a wrong password.
	ErrInvalidCredential = errors.New("invalid credentials")
	// ErrNotAuthenticated marks a mutation attempted without a valid session.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrPersistence marks a write the storage backend rejected. The change
	// is still held in memory.
	ErrPersistence = credstore.ErrPersistence
)
