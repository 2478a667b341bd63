package auth

import (
	"context"

	"StorefrontPlatform/services/storefront/internal/domain"
)

// principalKey ключ контекста для Principal. Тип неэкспортируемый, поэтому коллизий с другими пакетами нет.
type principalKey struct{}

// WithPrincipal публикует Principal в контексте запроса
func WithPrincipal(ctx context.Context, principal *domain.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFrom возвращает Principal текущего запроса или nil для анонимного запроса
func PrincipalFrom(ctx context.Context) *domain.Principal {
	principal, _ := ctx.Value(principalKey{}).(*domain.Principal)
	return principal
}
