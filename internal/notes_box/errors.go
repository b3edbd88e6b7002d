package notes_box

import (
	"errors"
	"fmt"
)

const (
	NotFoundMessage     = "Could not find any notes"
	InvalidTitleMessage = "Invalid title: Title must be at least 5 characters long"
)

var (
	ErrNotesNotFound       = errors.New("notes not found")
	ErrMalformedSubmission = errors.New("malformed submission")
)

// ValidationError is a rejected submission, its message is shown back on the same page
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed [%s]: %s", e.Field, e.Message)
}
