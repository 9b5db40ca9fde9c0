// Package apperror defines the application's error taxonomy and its mapping to
// HTTP status codes. Services return typed errors; transport code only needs
// StatusCode and ToResponse to render them.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an application error.
type ErrorType int

const (
	// UnknownError is for unspecified errors.
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database.
	DatabaseError
	// ConfigError represents an error in application configuration.
	ConfigError
	// AuthError represents an authentication failure (bad credentials, bad token).
	AuthError
	// UnauthorizedError represents an authorization failure (valid identity,
	// insufficient rights over the resource).
	UnauthorizedError
	// NotFoundError represents a missing resource.
	NotFoundError
	// ValidationError represents malformed or missing input.
	ValidationError
	// BadRequestError represents a generic bad request.
	BadRequestError
	// InternalError represents a generic internal server error.
	InternalError
	// MigrationError represents a failure while applying schema migrations.
	MigrationError
	// ConflictError represents a uniqueness conflict, e.g. an email already taken.
	ConflictError
)

// AppError carries a user-facing message, a type for status mapping and an
// optional underlying error kept for logs only.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying error to errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status code appropriate for the error type.
func (e *AppError) StatusCode() int {
	switch e.Type {
	case AuthError:
		return http.StatusUnauthorized
	case UnauthorizedError:
		// 401 means "not authenticated", 403 means "authenticated but not allowed".
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case ValidationError, BadRequestError:
		return http.StatusBadRequest
	case ConflictError:
		return http.StatusConflict
	case DatabaseError, ConfigError, InternalError, MigrationError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// NewAppError creates an AppError of an arbitrary type.
func NewAppError(errType ErrorType, message string, underlying error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlying,
	}
}

// NewDatabaseError creates a new DatabaseError.
func NewDatabaseError(message string, underlying error) *AppError {
	return NewAppError(DatabaseError, message, underlying)
}

// NewConfigError creates a new ConfigError.
func NewConfigError(message string, underlying error) *AppError {
	return NewAppError(ConfigError, message, underlying)
}

// NewAuthError creates a new AuthError.
func NewAuthError(message string, underlying error) *AppError {
	return NewAppError(AuthError, message, underlying)
}

// NewUnauthorizedError creates a new UnauthorizedError.
func NewUnauthorizedError(message string, underlying error) *AppError {
	return NewAppError(UnauthorizedError, message, underlying)
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(message string, underlying error) *AppError {
	return NewAppError(NotFoundError, message, underlying)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string, underlying error) *AppError {
	return NewAppError(ValidationError, message, underlying)
}

// NewBadRequestError creates a new BadRequestError.
func NewBadRequestError(message string, underlying error) *AppError {
	return NewAppError(BadRequestError, message, underlying)
}

// NewInternalError creates a new InternalError.
func NewInternalError(message string, underlying error) *AppError {
	return NewAppError(InternalError, message, underlying)
}

// NewMigrationError creates a new MigrationError.
func NewMigrationError(message string, underlying error) *AppError {
	return NewAppError(MigrationError, message, underlying)
}

// NewConflictError creates a new ConflictError.
func NewConflictError(message string, underlying error) *AppError {
	return NewAppError(ConflictError, message, underlying)
}

// ErrorResponse is the JSON body sent to clients for any failed request.
type ErrorResponse struct {
	Error string `json:"error" example:"a description of the error"`
}

// ToResponse converts an AppError into its client-facing representation.
// Only Message is exposed; the wrapped error stays server-side.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: e.Message}
}

// FromError converts a generic error to an *AppError if it is one.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == NotFoundError
}

// IsAuthError reports whether err is an AuthError.
func IsAuthError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == AuthError
}

// IsUnauthorizedError reports whether err is an UnauthorizedError.
func IsUnauthorizedError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == UnauthorizedError
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ValidationError
}

// IsConflictError reports whether err is a ConflictError.
func IsConflictError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Type == ConflictError
}
