package util

import "errors"

var (
	ErrCourseNotFound         = errors.New("no course found with that ID")
	ErrLessonNotFound         = errors.New("no lesson found with that ID")
	ErrQuizNotFound           = errors.New("no quiz found with that ID")
	ErrProgressNotFound       = errors.New("no progress found for this course")
	ErrNotEnrolled            = errors.New("you are not enrolled in this course")
	ErrAlreadyEnrolled        = errors.New("you are already enrolled in this course")
	ErrLessonAlreadyCompleted = errors.New("lesson already marked as completed")
	ErrQuizAlreadyTaken       = errors.New("quiz already completed")
	ErrPermissionDenied       = errors.New("permission denied")
	ErrEmailRegistered        = errors.New("this email is already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
)

// ValidationError marks a request whose payload or query failed a domain
// validation rule. It maps to a 400 "fail" response at the boundary.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(msg string) error {
	return &ValidationError{Message: msg}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
