package auth

import (
	"net/http"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/services/storefront/internal/domain"
)

// Middleware публикует Principal в контексте запроса, если заголовок Authorization валиден.
// Запрос передается дальше в любом случае.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if principal, ok := g.Authenticate(r.Context(), r.Header.Get("Authorization")); ok {
			r = r.WithContext(WithPrincipal(r.Context(), principal))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthenticated пропускает только запросы с Principal
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if PrincipalFrom(r.Context()) == nil {
			errors.WriteJSON(w, errors.New(errors.ErrUnauthorized, "authentication required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuthority пропускает только запросы, у Principal которых есть указанное право.
// Без Principal отвечает 401, без права 403.
func RequireAuthority(authority domain.Authority) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFrom(r.Context())
			if principal == nil {
				errors.WriteJSON(w, errors.New(errors.ErrUnauthorized, "authentication required"))
				return
			}
			if !principal.HasAuthority(authority) {
				errors.WriteJSON(w, errors.New(errors.ErrForbidden, "access denied"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
