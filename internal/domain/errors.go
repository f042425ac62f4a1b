package domain

import "errors"

var (
	// ErrNotFound indicates the store has no record for the given id.
	ErrNotFound = errors.New("not found")

	// ErrEmptyReply indicates the model returned no text content.
	ErrEmptyReply = errors.New("llm returned empty reply")

	// ErrInvalidInput indicates a caller supplied a malformed request.
	ErrInvalidInput = errors.New("invalid input")
)
