package apperrors

import "errors"

// Error kinds. Every error returned to a handler wraps exactly one of these.
var (
	ErrValidationFailed = errors.New("validation failed")
	ErrDuplicate        = errors.New("resource already exists")
	ErrReferential      = errors.New("referenced resource not found")
	ErrResourceNotFound = errors.New("resource not found")
	ErrDependency       = errors.New("resource has dependent records")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrPermissionDenied = errors.New("permission denied")
)

// Credential verifier failures. All wrap ErrUnauthorized.
var (
	ErrAccountNotFound    = &CustomError{Err: ErrUnauthorized, Message: "User tidak ditemukan", Code: "AUTH_NOT_FOUND"}
	ErrInvalidCredentials = &CustomError{Err: ErrUnauthorized, Message: "Password salah", Code: "AUTH_INVALID_CREDENTIAL"}
	ErrRoleMismatch       = &CustomError{Err: ErrUnauthorized, Message: "Role tidak sesuai", Code: "AUTH_ROLE_MISMATCH"}
)

// Session and token failures. All wrap ErrUnauthorized.
var (
	ErrTokenInvalid    = &CustomError{Err: ErrUnauthorized, Message: "Token tidak valid", Code: "AUTH_INVALID_TOKEN"}
	ErrTokenExpired    = &CustomError{Err: ErrUnauthorized, Message: "Sesi telah berakhir", Code: "AUTH_EXPIRED_TOKEN"}
	ErrSessionRevoked  = &CustomError{Err: ErrUnauthorized, Message: "Sesi telah berakhir", Code: "AUTH_SESSION_REVOKED"}
	ErrSessionNotFound = &CustomError{Err: ErrUnauthorized, Message: "Sesi tidak ditemukan", Code: "AUTH_SESSION_NOT_FOUND"}
)

// CustomError represents application-specific errors with a user-facing message
type CustomError struct {
	Err     error
	Message string
	Code    string
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

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

func NewValidationError(message string) error {
	return NewCustomError(ErrValidationFailed, message).WithCode("VALIDATION_ERROR")
}

// NewDuplicateError names the conflicting unique field in its message.
func NewDuplicateError(message string) error {
	return NewCustomError(ErrDuplicate, message).WithCode("DUPLICATE_ERROR")
}

func NewReferentialError(message string) error {
	return NewCustomError(ErrReferential, message).WithCode("REFERENTIAL_ERROR")
}

func NewResourceNotFoundError(message string) error {
	return NewCustomError(ErrResourceNotFound, message).WithCode("NOT_FOUND")
}

func NewDependencyError(message string) error {
	return NewCustomError(ErrDependency, message).WithCode("DEPENDENCY_ERROR")
}

func NewForbiddenError(message string) error {
	return NewCustomError(ErrPermissionDenied, message).WithCode("FORBIDDEN")
}

// Is returns whether err matches target or any of errList
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

// Message returns the user-facing message of the outermost CustomError in err's chain.
func Message(err error) (string, bool) {
	var ce *CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message, true
	}
	return "", false
}

// Code returns the machine-readable code of the outermost coded CustomError in err's chain.
func Code(err error) string {
	for err != nil {
		var ce *CustomError
		if !errors.As(err, &ce) {
			return ""
		}
		if ce.Code != "" {
			return ce.Code
		}
		err = ce.Err
	}
	return ""
}
