package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StorefrontPlatform/pkg/errors"
)

// TestValidateRequiredFields проверяет обязательные поля
func TestValidateRequiredFields(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateRequiredFields(map[string]string{"name": "Ann", "email": "a@b.c"}))

	err := v.ValidateRequiredFields(map[string]string{"name": " ", "email": ""})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrValidation))
	// Первое по алфавиту пустое поле
	assert.Equal(t, "email is required", err.Error())
}

// TestValidateEmail проверяет формат email
func TestValidateEmail(t *testing.T) {
	v := NewValidator()

	tests := []struct {
		email   string
		wantErr bool
	}{
		{"buyer@shop.test", false},
		{"first.last+tag@example.com", false},
		{"", true},
		{"no-at-sign", true},
		{"Name <buyer@shop.test>", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			err := v.ValidateEmail(tt.email)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestValidateStringLength проверяет длину строки в символах
func TestValidateStringLength(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateStringLength("пароль", "password", 6, 72))
	assert.Error(t, v.ValidateStringLength("abc", "password", 6, 72))
	assert.Error(t, v.ValidateStringLength("abcdefgh", "name", 1, 4))
	assert.NoError(t, v.ValidateStringLength("abcdefgh", "name", 1, 0))
}

// TestValidatePhone проверяет номер телефона
func TestValidatePhone(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidatePhone(""))
	assert.NoError(t, v.ValidatePhone("+34 (600) 123-456"))
	assert.Error(t, v.ValidatePhone("12"))
	assert.Error(t, v.ValidatePhone("call me"))
	assert.Error(t, v.ValidatePhone("12+345678"))
}

// TestValidatePositive проверяет положительные значения
func TestValidatePositive(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidatePositive(1, "quantity"))
	assert.Error(t, v.ValidatePositive(0, "quantity"))
	assert.Error(t, v.ValidatePositive(-3, "quantity"))
}

// TestValidateEnum проверяет допустимые значения
func TestValidateEnum(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.ValidateEnum("USER", []string{"USER", "ADMIN"}, "role"))
	assert.Error(t, v.ValidateEnum("ROOT", []string{"USER", "ADMIN"}, "role"))
}
