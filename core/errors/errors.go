package errors

import "fmt"

type ErrorCode string

const (
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidRequestData ErrorCode = "INVALID_REQUEST_DATA"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrConflict           ErrorCode = "CONFLICT"
	ErrAlreadyExists      ErrorCode = "ALREADY_EXISTS"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrInternalServer     ErrorCode = "INTERNAL_SERVER_ERROR"
	ErrCreateFailed       ErrorCode = "CREATE_FAILED"
	ErrGetFailed          ErrorCode = "GET_FAILED"
	ErrUpdateFailed       ErrorCode = "UPDATE_FAILED"
	ErrDeleteFailed       ErrorCode = "DELETE_FAILED"

	ErrTokenExpired               ErrorCode = "TOKEN_EXPIRED"
	ErrInvalidTokenFormat         ErrorCode = "INVALID_TOKEN_FORMAT"
	ErrMissingAuthorizationHeader ErrorCode = "MISSING_AUTHORIZATION_HEADER"
)

// AppError is the error type returned by all services. Controllers map its
// Code onto an HTTP status via BaseController.ErrorResponse.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	Details any       `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// WithDetails attaches a structured payload (e.g. the colliding time block on
// a conflict) for the HTTP layer to surface.
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}
