package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TestNewError проверяет создание новой ошибки
func TestNewError(t *testing.T) {
	e := New(ErrNotFound, "resource not found")
	require.NotNil(t, e)
	assert.Equal(t, ErrNotFound, e.Code)
	assert.Equal(t, "resource not found", e.Message)
	assert.Nil(t, e.Cause)
}

// TestWrapError проверяет оборачивание существующей ошибки
func TestWrapError(t *testing.T) {
	originalErr := fmt.Errorf("database error")
	e := Wrap(originalErr, ErrInternal, "failed to save order")

	require.NotNil(t, e)
	assert.Equal(t, ErrInternal, e.Code)
	assert.Equal(t, "failed to save order: database error", e.Error())
	assert.True(t, stderrors.Is(e, originalErr))

	assert.Nil(t, Wrap(nil, ErrInternal, "nothing"))
}

// TestIs_ComparesByCode проверяет сравнение ошибок по коду
func TestIs_ComparesByCode(t *testing.T) {
	err := fmt.Errorf("service: %w", NotFound("product %d was not found", 7))

	assert.True(t, stderrors.Is(err, New(ErrNotFound, "")))
	assert.False(t, stderrors.Is(err, New(ErrValidation, "")))
	assert.True(t, HasCode(err, ErrNotFound))
	assert.False(t, HasCode(stderrors.New("plain"), ErrNotFound))
}

// TestFromError проверяет приведение произвольных ошибок
func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	custom := InvalidArgument("bad status %q", "LOST")
	assert.Same(t, custom, FromError(fmt.Errorf("wrapped: %w", custom)))

	internal := FromError(stderrors.New("connection reset"))
	assert.Equal(t, ErrInternal, internal.Code)
	assert.Equal(t, "Incorrect data, please try again.", internal.UserMessage())
}

// TestHTTPStatus проверяет соответствие кодов HTTP статусам
func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrValidation, http.StatusBadRequest},
		{ErrInvalidCredentials, http.StatusBadRequest},
		{ErrUnauthorized, http.StatusUnauthorized},
		{ErrForbidden, http.StatusForbidden},
		{ErrConflict, http.StatusConflict},
		{ErrTooManyRequests, http.StatusTooManyRequests},
		{ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.code, "x").HTTPStatus())
		})
	}

	var nilErr *Error
	assert.Equal(t, http.StatusOK, nilErr.HTTPStatus())
}

// TestToGRPCErr проверяет соответствие кодов gRPC статусам
func TestToGRPCErr(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected codes.Code
	}{
		{ErrNotFound, codes.NotFound},
		{ErrValidation, codes.InvalidArgument},
		{ErrUnauthorized, codes.Unauthenticated},
		{ErrForbidden, codes.PermissionDenied},
		{ErrConflict, codes.AlreadyExists},
		{ErrTooManyRequests, codes.ResourceExhausted},
		{ErrInternal, codes.Internal},
	}

	for _, tt := range tests {
		st, ok := status.FromError(New(tt.code, "msg").ToGRPCErr())
		require.True(t, ok)
		assert.Equal(t, tt.expected, st.Code())
		assert.Equal(t, "msg", st.Message())
	}
}

// TestWriteJSON проверяет формат ответа с ошибкой
func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, NotFound("order item %d was not found", 3).WithDetails("id=3"))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(http.StatusNotFound), body["status"])
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Equal(t, "order item 3 was not found", body["message"])
	assert.Equal(t, "id=3", body["details"])
	assert.NotEmpty(t, body["timestamp"])
}
