package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeUpstreamTimeout ErrorCode = "UPSTREAM_TIMEOUT"
	ErrCodeUpstreamFailure ErrorCode = "UPSTREAM_FAILURE"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUpstreamTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeUpstreamFailure:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsForbidden(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeForbidden
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

func IsUpstreamTimeout(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeUpstreamTimeout
}

var (
	ErrProposalNotFound = New(ErrCodeNotFound, "предложение не найдено")
	ErrClauseNotFound   = New(ErrCodeNotFound, "блок не найден")
	ErrTemplateNotFound = New(ErrCodeNotFound, "шаблон не найден")
	ErrEmailLogNotFound = New(ErrCodeNotFound, "запись об отправке не найдена")
	ErrDealNotFound     = New(ErrCodeNotFound, "сделка не найдена")
	ErrClauseProtected  = New(ErrCodeForbidden, "встроенные блоки удалять нельзя")
)
