// Package auth аутентифицирует входящие запросы по bearer токену.
// Gate никогда не отклоняет запрос сам: решение принимают политики ниже по цепочке.
package auth

import (
	"context"
	"strings"

	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/pkg/metrics"
	"StorefrontPlatform/services/storefront/internal/domain"
)

const bearerPrefix = "Bearer "

// IdentityStore поиск пользователя по email
type IdentityStore interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TokenVerifier проверка bearer токенов, его реализует jwt.Manager
type TokenVerifier interface {
	SubjectOf(token string) (string, error)
	IsValid(token string, principal *domain.Principal) bool
}

// ResultRecorder учет результатов аутентификации
type ResultRecorder interface {
	RecordAuthResult(result string)
}

// Gate извлекает Principal из заголовка Authorization
type Gate struct {
	tokens   TokenVerifier
	users    IdentityStore
	logger   logger.Logger
	recorder ResultRecorder
}

// NewGate создает Gate. recorder может быть nil.
func NewGate(tokens TokenVerifier, users IdentityStore, log logger.Logger, recorder ResultRecorder) *Gate {
	return &Gate{
		tokens:   tokens,
		users:    users,
		logger:   log,
		recorder: recorder,
	}
}

// Authenticate разбирает значение заголовка Authorization.
// Возвращает Principal и true только если токен валиден и пользователь существует.
// Любая ошибка проглатывается, запрос продолжается как анонимный.
func (g *Gate) Authenticate(ctx context.Context, header string) (*domain.Principal, bool) {
	if !strings.HasPrefix(header, bearerPrefix) {
		g.record(metrics.AuthAnonymous)
		return nil, false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])

	email, err := g.tokens.SubjectOf(token)
	if err != nil {
		g.logger.Debug("Bearer token rejected",
			logger.CtxField(ctx),
			logger.Error(err))
		g.record(metrics.AuthRejected)
		return nil, false
	}

	user, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		g.logger.Warn("Identity lookup failed",
			logger.CtxField(ctx),
			logger.String("email", email),
			logger.Error(err))
		g.record(metrics.AuthRejected)
		return nil, false
	}

	principal := domain.PrincipalOf(user)
	if !g.tokens.IsValid(token, principal) {
		g.logger.Warn("Token subject does not match identity",
			logger.CtxField(ctx),
			logger.String("email", email))
		g.record(metrics.AuthRejected)
		return nil, false
	}

	g.record(metrics.AuthAuthenticated)
	return principal, true
}

func (g *Gate) record(result string) {
	if g.recorder != nil {
		g.recorder.RecordAuthResult(result)
	}
}
