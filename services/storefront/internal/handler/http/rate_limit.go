package http

import (
	"net"
	"net/http"
	"strings"
	"time"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/pkg/ratelimit"
)

// Option настраивает Handler
type Option func(*Handler)

// WithLoginLimiter ограничивает число попыток входа с одного адреса в окне window
func WithLoginLimiter(limiter ratelimit.RateLimiter, limit int, window time.Duration) Option {
	return func(h *Handler) {
		h.loginLimiter = limiter
		h.loginLimit = limit
		h.loginWindow = window
	}
}

// rateLimitLogin пропускает запрос при ошибке лимитера
func (h *Handler) rateLimitLogin(next http.HandlerFunc) http.HandlerFunc {
	if h.loginLimiter == nil {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		key := "login:" + clientIP(r)

		exceeded, err := h.loginLimiter.CheckRateLimit(r.Context(), key, h.loginLimit, h.loginWindow)
		if err != nil {
			h.logger.Error("Rate limiter error, allowing request",
				logger.CtxField(r.Context()),
				logger.String("key", key),
				logger.Error(err))
			next(w, r)
			return
		}

		if exceeded {
			h.logger.Warn("Login rate limit exceeded",
				logger.CtxField(r.Context()),
				logger.String("key", key),
				logger.Int("limit", h.loginLimit),
				logger.Duration("window", h.loginWindow))
			errors.WriteJSON(w, errors.New(errors.ErrTooManyRequests, "Too many login attempts, please try again later."))
			return
		}

		next(w, r)
	}
}

// clientIP извлекает адрес клиента: первый из X-Forwarded-For, затем X-Real-IP, затем RemoteAddr
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
