package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeBadRequest      ErrorType = "BAD_REQUEST"
	ErrorTypeNotFound        ErrorType = "NOT_FOUND"
	ErrorTypeUnauthenticated ErrorType = "UNAUTHENTICATED"
	ErrorTypeInvalid         ErrorType = "INVALID"
	ErrorTypeUnauthorized    ErrorType = "UNAUTHORIZED"
	ErrorTypeConflict        ErrorType = "CONFLICT"
	ErrorTypeInternal        ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidID        ErrorCode = "INVALID_ID"
	ErrCodeInvalidEmail     ErrorCode = "INVALID_EMAIL"
	ErrCodeWeakPassword     ErrorCode = "WEAK_PASSWORD"

	ErrCodeUserNotFound      ErrorCode = "USER_NOT_FOUND"
	ErrCodeUserAlreadyExists ErrorCode = "USER_ALREADY_EXISTS"
	ErrCodeTodoNotFound      ErrorCode = "TODO_NOT_FOUND"
	ErrCodeTaskForbidden     ErrorCode = "TASK_FORBIDDEN"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeMissingHeader      ErrorCode = "MISSING_AUTHORIZATION_HEADER"
	ErrCodeMissingBearer      ErrorCode = "MISSING_BEARER_TOKEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeAccessForbidden    ErrorCode = "ACCESS_FORBIDDEN"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "; ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy carrying cause, leaving shared sentinels untouched.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

// Is matches another AppError of the same type and code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type && e.Code == t.Code
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewBadRequestError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeBadRequest,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeBadRequest,
		Code:       ErrCodeValidationFailed,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthenticatedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthenticated,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewInvalidError is used when a token is cryptographically or structurally rejected.
func NewInvalidError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeInvalid,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewUnauthorizedError is for an authenticated caller lacking a permission (403).
func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrUserNotFound      = NewNotFoundError("User not found.", ErrCodeUserNotFound)
	ErrUserAlreadyExists = NewConflictError("User already exists.", ErrCodeUserAlreadyExists)
	ErrTaskForbidden     = NewUnauthorizedError("Task forbidden.", ErrCodeTaskForbidden)

	ErrEmailNotRegistered = NewNotFoundError("No user found with associated email.", ErrCodeUserNotFound)
	ErrInvalidCredentials = NewUnauthenticatedError("Invalid email or password.", ErrCodeInvalidCredentials)
	ErrNoTokenProvided    = NewNotFoundError("No token provided.", ErrCodeMissingHeader)
	ErrNoBearerProvided   = NewNotFoundError("No Bearer token provided.", ErrCodeMissingBearer)
	ErrMissingAuthHeader  = NewUnauthenticatedError("Authorization header not found.", ErrCodeMissingHeader)
	ErrMalformedAuthToken = NewUnauthenticatedError("No bearer token provided.", ErrCodeMissingBearer)
	ErrInvalidToken       = NewInvalidError("Invalid token.", ErrCodeInvalidToken)
	ErrAccessForbidden    = NewUnauthorizedError("Your access is forbidden.", ErrCodeAccessForbidden)
)

// IsAppError unwraps err looking for an *AppError.
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the error kind; anything that is not an AppError is internal.
func KindOf(err error) ErrorType {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Type
	}
	return ErrorTypeInternal
}

type Response struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Message: e.GetDetailedMessage(), Details: e.Details}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
