package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrQuizNotFound indicates the quiz row does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuestionNotFound indicates a referenced question ID is invalid.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrParticipantNotFound indicates a referenced participant ID is invalid.
	ErrParticipantNotFound = errors.New("participant not found")
	// ErrInvalidQuizCode is returned by join when no quiz carries the code.
	ErrInvalidQuizCode = errors.New("invalid quiz code")
	// ErrQuizInactive is returned by join when the quiz has been switched off.
	ErrQuizInactive = errors.New("quiz is not active")
	// ErrDuplicateQuizCode is the store's unique-constraint failure on quizzes.code.
	ErrDuplicateQuizCode = errors.New("quiz code already in use")
	// ErrUnknownAction is returned for an unsupported action tag.
	ErrUnknownAction = errors.New("invalid action")

	ErrAdminNotFound         = errors.New("admin not found")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrInvalidCredentials    = errors.New("invalid email or password")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrSessionNotFound       = errors.New("session not found")
	ErrWaitlistEntryNotFound = errors.New("waitlist entry not found")
)

// ValidationError reports a missing or malformed request field. Message is the
// complete user-facing text; Field names the offending wire field when known.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Invalid builds a ValidationError whose message leads with the field name.
func Invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%s %s", field, reason)}
}

// IsNotFound reports whether err is one of the row-not-found sentinels.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrQuizNotFound) ||
		errors.Is(err, ErrQuestionNotFound) ||
		errors.Is(err, ErrParticipantNotFound) ||
		errors.Is(err, ErrAdminNotFound) ||
		errors.Is(err, ErrWaitlistEntryNotFound)
}
