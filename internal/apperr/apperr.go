// Package apperr defines the error taxonomy shared by repositories, services
// and handlers. Errors are matched with errors.Is and carry short
// human-readable messages for the HTTP layer.
package apperr

import "errors"

var (
	// ErrInvalidInput covers missing required fields and self-targeting actions.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound covers unresolved post/comment/reply/story/user/message references.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized covers actors lacking ownership or moderation rights.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict covers duplicate requests: already friends, request already
	// sent, duplicate account.
	ErrConflict = errors.New("conflict")
)
