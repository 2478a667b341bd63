package jwt

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StorefrontPlatform/services/storefront/internal/domain"
)

const testSecret = "test-secret-key-0123456789abcdef!"

// fixedClock управляемые часы для тестов
type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

func newTestManager(t *testing.T, clock *fixedClock) *Manager {
	t.Helper()
	m, err := NewManager(testSecret, DefaultLifetime, WithClock(clock.Now))
	require.NoError(t, err)
	return m
}

// TestManager_RoundTrip проверяет, что выпущенный токен возвращает тот же subject
func TestManager_RoundTrip(t *testing.T) {
	clock := &fixedClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	m := newTestManager(t, clock)

	token, err := m.Issue("buyer@shop.test")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(token, "."))

	subject, err := m.SubjectOf(token)
	require.NoError(t, err)
	assert.Equal(t, "buyer@shop.test", subject)

	assert.True(t, m.IsValid(token, &domain.Principal{Email: "buyer@shop.test"}))
	assert.False(t, m.IsValid(token, &domain.Principal{Email: "other@shop.test"}))
	assert.False(t, m.IsValid(token, nil))
}

// TestManager_Claims проверяет iat и exp выпущенного токена
func TestManager_Claims(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := &fixedClock{now: issuedAt}
	m := newTestManager(t, clock)

	token, err := m.Issue("buyer@shop.test")
	require.NoError(t, err)

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.Equal(t, issuedAt, claims.IssuedAt.Time.UTC())
	assert.Equal(t, issuedAt.Add(4380*time.Hour), claims.ExpiresAt.Time.UTC())
}

// TestManager_Expiry проверяет границу истечения: now >= exp значит истек
func TestManager_Expiry(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := &fixedClock{now: issuedAt}
	m := newTestManager(t, clock)

	token, err := m.Issue("buyer@shop.test")
	require.NoError(t, err)

	clock.now = issuedAt.Add(DefaultLifetime - time.Second)
	_, err = m.SubjectOf(token)
	assert.NoError(t, err)

	clock.now = issuedAt.Add(DefaultLifetime)
	_, err = m.SubjectOf(token)
	assert.ErrorIs(t, err, ErrExpired)

	// Монотонность: после истечения токен не становится снова валидным
	clock.now = issuedAt.Add(DefaultLifetime + 24*time.Hour)
	_, err = m.SubjectOf(token)
	assert.ErrorIs(t, err, ErrExpired)
	assert.False(t, m.IsValid(token, &domain.Principal{Email: "buyer@shop.test"}))
}

// TestManager_ForeignSecret проверяет отказ для токена, подписанного другим секретом
func TestManager_ForeignSecret(t *testing.T) {
	clock := &fixedClock{now: time.Now()}
	m := newTestManager(t, clock)

	other, err := NewManager("another-secret-key-0123456789abcd", DefaultLifetime, WithClock(clock.Now))
	require.NoError(t, err)
	foreign, err := other.Issue("buyer@shop.test")
	require.NoError(t, err)

	_, err = m.SubjectOf(foreign)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

// TestManager_AnySingleCharacterChange проверяет, что замена любого символа токена
// на любой другой символ base64url отвергается
func TestManager_AnySingleCharacterChange(t *testing.T) {
	clock := &fixedClock{now: time.Now()}
	m := newTestManager(t, clock)

	token, err := m.Issue("buyer@shop.test")
	require.NoError(t, err)

	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
	for pos := 0; pos < len(token); pos++ {
		for i := 0; i < len(alphabet); i++ {
			c := alphabet[i]
			if c == token[pos] {
				continue
			}
			tampered := token[:pos] + string(c) + token[pos+1:]
			subject, err := m.SubjectOf(tampered)
			if !assert.Error(t, err, "position %d: %q -> %q", pos, token[pos], c) {
				t.Logf("accepted subject %q", subject)
				return
			}
			assert.False(t, m.IsValid(tampered, &domain.Principal{Email: "buyer@shop.test"}))
		}
	}
}

// TestManager_WrongAlgorithm проверяет отказ для алгоритма, отличного от HS256
func TestManager_WrongAlgorithm(t *testing.T) {
	clock := &fixedClock{now: time.Now()}
	m := newTestManager(t, clock)

	claims := jwt.RegisteredClaims{
		Subject:   "buyer@shop.test",
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = m.SubjectOf(token)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

// TestManager_Malformed проверяет разбор мусора и токенов без обязательных claims
func TestManager_Malformed(t *testing.T) {
	clock := &fixedClock{now: time.Now()}
	m := newTestManager(t, clock)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.SubjectOf(token)
		assert.ErrorIs(t, err, ErrMalformedToken, token)
	}

	// Без exp
	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "x@shop.test"}).
		SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = m.SubjectOf(noExp)
	assert.ErrorIs(t, err, ErrMalformedToken)

	// Без sub
	noSub, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = m.SubjectOf(noSub)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

// TestNewManager проверяет параметры конструктора
func TestNewManager(t *testing.T) {
	_, err := NewManager("", time.Hour)
	assert.Error(t, err)

	m, err := NewManager(testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultLifetime, m.Lifetime())

	_, err = m.Issue("")
	assert.Error(t, err)
}

// TestHumanLifetime проверяет форматирование срока действия
func TestHumanLifetime(t *testing.T) {
	assert.Equal(t, "6 month", HumanLifetime(DefaultLifetime))
	assert.Equal(t, "7 day", HumanLifetime(7*24*time.Hour))
	assert.Equal(t, "1h", HumanLifetime(time.Hour))
	assert.Equal(t, "1h30m", HumanLifetime(90*time.Minute))
}
