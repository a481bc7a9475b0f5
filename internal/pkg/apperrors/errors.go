package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound = errors.New("resource not found")
	// ErrStorage marks a document-store failure that is not a missing
	// document, e.g. an unavailable backend or a decode failure.
	ErrStorage = errors.New("storage operation failed")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrInvalidFormat      = errors.New("invalid token format")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student record errors
var (
	ErrStudentNotFound = errors.New("student not found")
	ErrNoRollNumber    = errors.New("student has no roll number")
)

// Provisioning errors
var (
	// ErrGeneration wraps a single student's credential-generation failure,
	// e.g. an unknown placeholder in a custom template.
	ErrGeneration = errors.New("credential generation failed")
	// ErrAccountCreation marks an identity-provider failure that is recorded
	// per student; the batch continues.
	ErrAccountCreation = errors.New("identity account creation failed")
	// ErrAccountLinkConflict guards the invariant that a linked account id is
	// never silently overwritten with a different value.
	ErrAccountLinkConflict = errors.New("record already linked to a different account")
)

// Bulk lifecycle errors
var (
	ErrUnknownOperation   = errors.New("unknown lifecycle operation")
	ErrOperationCancelled = errors.New("operation cancelled")
)

// NewResourceNotFoundError creates a new custom error for resource not found with a message
func NewResourceNotFoundError(message string) *CustomError {
	return NewCustomError(ErrResourceNotFound, message)
}

// NewBadRequestError creates a new custom error for bad request with a message
func NewBadRequestError(message string) *CustomError {
	return NewCustomError(ErrBadRequest, message)
}

// Is returns whether target matches err or any of the errors in errList.
func Is(err, target error, errList ...error) bool {
	if errors.Is(err, target) {
		return true
	}
	for _, e := range errList {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// CustomError represents application-specific errors with additional context
// that the error middleware surfaces to API clients.
type CustomError struct {
	Err     error
	Message string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}
