package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Error представляет кастомную ошибку с дополнительной информацией
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
	Cause   error     `json:"-"`
}

// ErrorCode представляет код ошибки
type ErrorCode string

// Определение кодов ошибок
const (
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrValidation         ErrorCode = "VALIDATION_ERROR"
	ErrInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrForbidden          ErrorCode = "FORBIDDEN"
	ErrInternal           ErrorCode = "INTERNAL_ERROR"
	ErrConflict           ErrorCode = "CONFLICT"
	ErrTooManyRequests    ErrorCode = "TOO_MANY_REQUESTS"
)

// Error возвращает сообщение об ошибке
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap возвращает причину ошибки
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is сравнивает ошибки по коду, поэтому errors.Is(err, errors.New(ErrNotFound, "")) работает для любой NOT_FOUND
func (e *Error) Is(target error) bool {
	if targetError, ok := target.(*Error); ok {
		return e.Code == targetError.Code
	}
	return false
}

// New создает новую кастомную ошибку
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap оборачивает существующую ошибку в кастомную
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// NotFound короткий конструктор для NOT_FOUND
func NotFound(format string, args ...interface{}) *Error {
	return New(ErrNotFound, fmt.Sprintf(format, args...))
}

// InvalidArgument короткий конструктор для VALIDATION_ERROR
func InvalidArgument(format string, args ...interface{}) *Error {
	return New(ErrValidation, fmt.Sprintf(format, args...))
}

// WithDetails добавляет детали к ошибке
func (e *Error) WithDetails(details string) *Error {
	if e == nil {
		return nil
	}
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// HasCode проверяет, что в цепочке err есть кастомная ошибка с указанным кодом
func HasCode(err error, code ErrorCode) bool {
	var customErr *Error
	if stderrors.As(err, &customErr) {
		return customErr.Code == code
	}
	return false
}

// FromError приводит произвольную ошибку к *Error.
// Неизвестные ошибки становятся INTERNAL_ERROR, причина сохраняется.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var customErr *Error
	if stderrors.As(err, &customErr) {
		return customErr
	}
	return Wrap(err, ErrInternal, "internal error")
}

// ToGRPCErr переводит кастомную ошибку в gRPC статус
func (e *Error) ToGRPCErr() error {
	if e == nil {
		return nil
	}

	var grpcCode codes.Code
	switch e.Code {
	case ErrNotFound:
		grpcCode = codes.NotFound
	case ErrValidation, ErrInvalidCredentials:
		grpcCode = codes.InvalidArgument
	case ErrUnauthorized:
		grpcCode = codes.Unauthenticated
	case ErrForbidden:
		grpcCode = codes.PermissionDenied
	case ErrConflict:
		grpcCode = codes.AlreadyExists
	case ErrTooManyRequests:
		grpcCode = codes.ResourceExhausted
	case ErrInternal:
		grpcCode = codes.Internal
	default:
		grpcCode = codes.Unknown
	}

	return status.Error(grpcCode, e.Message)
}

// HTTPStatus возвращает соответствующий HTTP статус для ошибки
func (e *Error) HTTPStatus() int {
	if e == nil {
		return http.StatusOK
	}

	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation, ErrInvalidCredentials:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	case ErrTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// UserMessage возвращает сообщение, которое безопасно показывать клиенту.
// Для внутренних ошибок причина скрывается.
func (e *Error) UserMessage() string {
	if e == nil {
		return ""
	}
	if e.Code == ErrInternal {
		return "Incorrect data, please try again."
	}
	return e.Message
}

// WriteJSON отправляет JSON ответ с ошибкой в формате конверта ответа
func WriteJSON(w http.ResponseWriter, err error) {
	customErr := FromError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(customErr.HTTPStatus())

	response := map[string]interface{}{
		"status":    customErr.HTTPStatus(),
		"code":      customErr.Code,
		"message":   customErr.UserMessage(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if customErr.Details != "" {
		response["details"] = customErr.Details
	}

	_ = json.NewEncoder(w).Encode(response)
}
