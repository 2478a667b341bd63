package validation

import (
	"net/mail"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"StorefrontPlatform/pkg/errors"
)

// Validator предоставляет общие функции валидации входных данных.
// Все ошибки возвращаются с кодом VALIDATION_ERROR.
type Validator struct{}

// NewValidator создает новый Validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateRequiredFields проверяет, что обязательные поля не пустые.
// Ключ карты имя поля для сообщения, значение содержимое поля.
func (v *Validator) ValidateRequiredFields(fields map[string]string) error {
	for _, name := range sortedKeys(fields) {
		if strings.TrimSpace(fields[name]) == "" {
			return errors.InvalidArgument("%s is required", name)
		}
	}
	return nil
}

// ValidateEmail проверяет формат email адреса
func (v *Validator) ValidateEmail(email string) error {
	if email == "" {
		return errors.InvalidArgument("email is required")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return errors.InvalidArgument("invalid email format: %s", email)
	}
	return nil
}

// ValidateStringLength проверяет длину строки в символах
func (v *Validator) ValidateStringLength(value, fieldName string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if length < min {
		return errors.InvalidArgument("%s must be at least %d characters", fieldName, min)
	}
	if max > 0 && length > max {
		return errors.InvalidArgument("%s must be at most %d characters", fieldName, max)
	}
	return nil
}

// ValidatePhone проверяет номер телефона: цифры, пробелы, дефисы, скобки и ведущий +
func (v *Validator) ValidatePhone(phone string) error {
	if phone == "" {
		return nil
	}
	digits := 0
	for i, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return errors.InvalidArgument("invalid phone number: %s", phone)
		}
	}
	if digits < 5 || digits > 15 {
		return errors.InvalidArgument("invalid phone number: %s", phone)
	}
	return nil
}

// ValidatePositive проверяет, что значение больше нуля
func (v *Validator) ValidatePositive(value int64, fieldName string) error {
	if value <= 0 {
		return errors.InvalidArgument("%s must be positive, got %d", fieldName, value)
	}
	return nil
}

// ValidateEnum проверяет, что значение входит в допустимый набор
func (v *Validator) ValidateEnum(value string, allowedValues []string, fieldName string) error {
	for _, allowed := range allowedValues {
		if value == allowed {
			return nil
		}
	}
	return errors.InvalidArgument("%s must be one of %s, got %q", fieldName, strings.Join(allowedValues, ", "), value)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
