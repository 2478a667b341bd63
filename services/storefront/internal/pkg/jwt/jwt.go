package jwt

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"StorefrontPlatform/services/storefront/internal/domain"
)

// DefaultLifetime время жизни токена по умолчанию, 6 месяцев
const DefaultLifetime = 4380 * time.Hour

// month длина месяца для человекочитаемого срока действия
const month = 730 * time.Hour

var (
	// ErrMalformedToken токен не разбирается или в нем нет обязательных claims
	ErrMalformedToken = stderrors.New("malformed token")
	// ErrInvalidSignature подпись не совпадает или алгоритм не HS256
	ErrInvalidSignature = stderrors.New("invalid token signature")
	// ErrExpired срок действия истек: now >= exp
	ErrExpired = stderrors.New("token expired")
)

// TokenManager выпуск и проверка bearer токенов
type TokenManager interface {
	Issue(email string) (string, error)
	SubjectOf(token string) (string, error)
	IsValid(token string, principal *domain.Principal) bool
	Lifetime() time.Duration
}

// Manager реализация TokenManager на HS256.
// Секрет задается при создании и больше не меняется, поэтому Manager безопасен для конкурентного использования.
type Manager struct {
	secret   []byte
	lifetime time.Duration
	now      func() time.Time
}

// Option настройка Manager
type Option func(*Manager)

// WithClock подменяет источник времени (для тестов истечения срока)
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager создает новый экземпляр JWT менеджера
func NewManager(secret string, lifetime time.Duration, opts ...Option) (*Manager, error) {
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is required")
	}
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}

	m := &Manager{
		secret:   []byte(secret),
		lifetime: lifetime,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue выпускает токен для email: iat = now, exp = now + lifetime
func (m *Manager) Issue(email string) (string, error) {
	if email == "" {
		return "", fmt.Errorf("token subject is required")
	}

	now := m.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// SubjectOf проверяет подпись и срок действия и возвращает subject (email).
// Сегменты декодируются строго: ненулевые хвостовые биты base64 делают токен некорректным.
func (m *Manager) SubjectOf(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return m.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", classify(err)
	}

	if claims.Subject == "" {
		return "", ErrMalformedToken
	}
	return claims.Subject, nil
}

// IsValid сообщает, что токен действителен и выпущен для этого principal
func (m *Manager) IsValid(token string, principal *domain.Principal) bool {
	if principal == nil {
		return false
	}
	subject, err := m.SubjectOf(token)
	if err != nil {
		return false
	}
	return subject == principal.Email
}

// Lifetime возвращает время жизни выпускаемых токенов
func (m *Manager) Lifetime() time.Duration {
	return m.lifetime
}

// classify сводит ошибки библиотеки к трем ошибкам пакета
func classify(err error) error {
	switch {
	case stderrors.Is(err, jwt.ErrTokenSignatureInvalid), stderrors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	case stderrors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	default:
		return fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
}

// HumanLifetime форматирует срок действия для ответа на логин, например "6 month"
func HumanLifetime(d time.Duration) string {
	switch {
	case d >= month && d%month == 0:
		return fmt.Sprintf("%d month", d/month)
	case d >= 24*time.Hour && d%(24*time.Hour) == 0:
		return fmt.Sprintf("%d day", d/(24*time.Hour))
	default:
		s := d.String()
		if strings.HasSuffix(s, "m0s") {
			s = strings.TrimSuffix(s, "0s")
		}
		if strings.HasSuffix(s, "h0m") {
			s = strings.TrimSuffix(s, "0m")
		}
		return s
	}
}
