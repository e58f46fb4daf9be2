package shared

import (
	"errors"
	"net/http"
)

// Engine error codes surfaced to API clients. Anything not in this list is an
// internal error.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodeUnknownBlock         = "UNKNOWN_BLOCK"
	CodeChallengeNotActive   = "CHALLENGE_NOT_ACTIVE"
	CodeNoChallengeScheduled = "NO_CHALLENGE_SCHEDULED"
	CodeContention           = "CONTENTION"
	CodeInvalidState         = "INVALID_STATE"
	CodeInternal             = "INTERNAL_ERROR"
)

type AppError struct {
	Code       string      `json:"code"`
	StatusCode int         `json:"status_code"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Err        error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func newAppError(code string, status int, err error, message string) *AppError {
	return &AppError{Code: code, StatusCode: status, Message: message, Err: err}
}

func NewBadRequestError(err error, message string) *AppError {
	return newAppError(CodeBadRequest, http.StatusBadRequest, err, message)
}

func NewUnauthorizedError(err error, message string) *AppError {
	return newAppError(CodeUnauthorized, http.StatusUnauthorized, err, message)
}

func NewNotFoundError(err error, message string) *AppError {
	return newAppError(CodeNotFound, http.StatusNotFound, err, message)
}

func NewConflictError(err error, message string) *AppError {
	return newAppError(CodeConflict, http.StatusConflict, err, message)
}

func NewInternalError(err error, message string) *AppError {
	return newAppError(CodeInternal, http.StatusInternalServerError, err, message)
}

// NewUnknownBlockError marks a completion request whose block does not belong
// to the referenced lesson. Client input error, never retried.
func NewUnknownBlockError(err error, message string) *AppError {
	return newAppError(CodeUnknownBlock, http.StatusUnprocessableEntity, err, message)
}

func NewChallengeNotActiveError(err error, message string) *AppError {
	return newAppError(CodeChallengeNotActive, http.StatusConflict, err, message)
}

func NewNoChallengeScheduledError(err error, message string) *AppError {
	return newAppError(CodeNoChallengeScheduled, http.StatusNotFound, err, message)
}

// NewContentionError is returned once the optimistic transaction retry budget
// is exhausted; the caller is expected to retry client-side.
func NewContentionError(err error, message string) *AppError {
	return newAppError(CodeContention, http.StatusConflict, err, message)
}

// NewInvalidStateError flags malformed lesson structure. Data integrity fault:
// logged and surfaced, never auto-repaired.
func NewInvalidStateError(err error, message string) *AppError {
	return newAppError(CodeInvalidState, http.StatusInternalServerError, err, message)
}

func GetAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func HasCode(err error, code string) bool {
	if appErr, ok := GetAppError(err); ok {
		return appErr.Code == code
	}
	return false
}
