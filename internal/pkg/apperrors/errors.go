package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// User errors
var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrRoleInvalid           = errors.New("invalid role code")
	ErrNotAStudent           = errors.New("user is not a student")
	ErrNotAParent            = errors.New("user is not a parent")
)

// Organization errors
var (
	ErrGradeNotFound      = errors.New("grade not found")
	ErrGradeAlreadyExists = errors.New("grade with this name already exists")
	ErrClassNotFound      = errors.New("school class not found")
	ErrClassAlreadyExists = errors.New("class with this name already exists in the grade")
)

// Rule taxonomy errors
var (
	ErrChapterNotFound   = errors.New("rule chapter not found")
	ErrDimensionNotFound = errors.New("rule dimension not found")
	ErrSubItemNotFound   = errors.New("rule sub-item not found")
	ErrRuleNameTaken     = errors.New("rule name already exists within its parent")
)

// Behavior tracking errors
var (
	ErrScoreNotFound       = errors.New("behavior score not found")
	ErrSubmissionNotFound  = errors.New("submission not found")
	ErrSubmissionReviewed  = errors.New("submission has already been reviewed")
	ErrAwardNotFound       = errors.New("award not found")
	ErrRelationshipMissing = errors.New("student-parent relationship not found")
)

// NewNotFoundError creates a custom not-found error with a message.
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrResourceNotFound,
		Message: message,
	}
}

// NewConflictError creates a custom conflict error with a message.
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewForbiddenError creates a custom permission-denied error with a message.
func NewForbiddenError(message string) error {
	return &CustomError{
		Err:     ErrPermissionDenied,
		Message: message,
	}
}

// NewBadRequestError creates a custom bad-request error with a message.
func NewBadRequestError(message string) error {
	return &CustomError{
		Err:     ErrBadRequest,
		Message: message,
	}
}

// NewValidationError creates a custom validation error with a message.
func NewValidationError(message string) error {
	return &CustomError{
		Err:     ErrValidationFailed,
		Message: message,
	}
}

// CustomError wraps a sentinel error with request-specific context.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements the error interface.
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap exposes the sentinel for errors.Is.
func (e *CustomError) Unwrap() error {
	return e.Err
}

// WithDetails attaches context details to the error.
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
