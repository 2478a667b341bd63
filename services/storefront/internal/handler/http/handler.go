package http

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/mux"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/pkg/health"
	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/pkg/metrics"
	"StorefrontPlatform/pkg/ratelimit"
	"StorefrontPlatform/services/storefront/internal/auth"
	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/service"
)

// Handler HTTP API магазина
type Handler struct {
	router  *mux.Router
	orders  service.OrderWorkflow
	users   service.UserService
	catalog service.Catalog
	gate    *auth.Gate
	checker health.HealthChecker
	metrics *metrics.Metrics
	logger  logger.Logger

	loginLimiter ratelimit.RateLimiter
	loginLimit   int
	loginWindow  time.Duration
}

// NewHandler создает Handler и настраивает маршруты. checker и m могут быть nil.
func NewHandler(
	orders service.OrderWorkflow,
	users service.UserService,
	catalog service.Catalog,
	gate *auth.Gate,
	checker health.HealthChecker,
	m *metrics.Metrics,
	log logger.Logger,
	opts ...Option,
) *Handler {
	h := &Handler{
		router:  mux.NewRouter(),
		orders:  orders,
		users:   users,
		catalog: catalog,
		gate:    gate,
		checker: checker,
		metrics: m,
		logger:  log,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.setupRoutes()
	return h
}

// ServeHTTP реализует http.Handler
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// setupRoutes настраивает маршруты для приложения
func (h *Handler) setupRoutes() {
	h.router.Use(h.recovery)
	if h.metrics != nil {
		h.router.Use(h.metrics.Middleware)
		h.router.Handle("/metrics", h.metrics.GetHandler()).Methods(http.MethodGet)
	}

	// Health check роуты
	if h.checker != nil {
		h.router.HandleFunc("/health", health.Handler(h.checker)).Methods(http.MethodGet)
	}
	h.router.HandleFunc("/live", health.LiveHandler()).Methods(http.MethodGet)

	api := h.router.NewRoute().Subrouter()
	api.Use(h.gate.Middleware)

	// Публичные роуты
	api.HandleFunc("/auth/register", h.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.rateLimitLogin(h.handleLogin)).Methods(http.MethodPost)
	api.HandleFunc("/product/get-by-product-id/{id:[0-9]+}", h.handleGetProduct).Methods(http.MethodGet)
	api.HandleFunc("/product/get-all", h.handleAllProducts).Methods(http.MethodGet)
	api.HandleFunc("/product/get-by-category-id/{id:[0-9]+}", h.handleProductsByCategory).Methods(http.MethodGet)
	api.HandleFunc("/product/search", h.handleSearchProducts).Methods(http.MethodGet)

	// Роуты для любого аутентифицированного пользователя
	authenticated := api.NewRoute().Subrouter()
	authenticated.Use(auth.RequireAuthenticated)
	authenticated.HandleFunc("/user/my-info", h.handleMyInfo).Methods(http.MethodGet)
	authenticated.HandleFunc("/order/create", h.handleCreateOrder).Methods(http.MethodPost)

	// Административные роуты
	admin := api.NewRoute().Subrouter()
	admin.Use(auth.RequireAuthority(domain.AuthorityAdmin))
	admin.HandleFunc("/user/get-all", h.handleAllUsers).Methods(http.MethodGet)
	admin.HandleFunc("/order/update-item-status/{orderItemId:[0-9]+}", h.handleUpdateItemStatus).Methods(http.MethodPut)
	admin.HandleFunc("/order/filter", h.handleFilterItems).Methods(http.MethodGet)
	admin.HandleFunc("/order/item/{id:[0-9]+}", h.handleGetItem).Methods(http.MethodGet)
}

// recovery превращает панику обработчика в ответ 500
func (h *Handler) recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("Panic recovered in HTTP handler",
					logger.CtxField(r.Context()),
					logger.Any("panic", rec),
					logger.String("stack_trace", string(debug.Stack())),
					logger.String("method", r.Method),
					logger.String("path", r.URL.Path))
				errors.WriteJSON(w, errors.New(errors.ErrInternal, "internal error"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// handleError логирует внутренние ошибки и отправляет конверт с ошибкой
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	customErr := errors.FromError(err)
	if customErr.Code == errors.ErrInternal {
		h.logger.Error("Request failed",
			logger.CtxField(r.Context()),
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err))
	}
	errors.WriteJSON(w, customErr)
}
