package grpcserver

import (
	"context"
	stderrors "errors"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/pkg/health"
	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/services/storefront/internal/auth"
	"StorefrontPlatform/services/storefront/internal/domain"
	"StorefrontPlatform/services/storefront/internal/pkg/jwt"
)

type noUsers struct{}

func (noUsers) FindByEmail(context.Context, string) (*domain.User, error) {
	return nil, errors.NotFound("user was not found")
}

func startServer(t *testing.T, checker health.HealthChecker) (*Server, grpc_health_v1.HealthClient) {
	t.Helper()
	tokens, err := jwt.NewManager("0123456789abcdef0123456789abcdef", time.Hour)
	require.NoError(t, err)

	srv := New(auth.NewGate(tokens, noUsers{}, logger.NewNop(), nil), checker, logger.NewNop())
	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Stop(ctx)
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return srv, grpc_health_v1.NewHealthClient(conn)
}

// TestHealth_Serving проверяет статус при здоровых зависимостях
func TestHealth_Serving(t *testing.T) {
	checker := health.NewDependencyChecker("test", time.Second)
	checker.Register("postgres", func(context.Context) error { return nil })
	srv, client := startServer(t, checker)

	srv.Refresh(context.Background())
	resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
}

// TestHealth_NotServing проверяет статус при недоступной зависимости
func TestHealth_NotServing(t *testing.T) {
	checker := health.NewDependencyChecker("test", time.Second)
	checker.Register("postgres", func(context.Context) error { return stderrors.New("connection refused") })
	srv, client := startServer(t, checker)

	srv.Refresh(context.Background())
	resp, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)
}

// TestHealth_UnknownService проверяет ответ для незарегистрированного сервиса
func TestHealth_UnknownService(t *testing.T) {
	srv, client := startServer(t, nil)
	srv.Refresh(context.Background())

	_, err := client.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: "inventory"})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

// TestErrorInterceptor проверяет перевод ошибок в gRPC статусы
func TestErrorInterceptor(t *testing.T) {
	interceptor := errorInterceptor()
	info := &grpc.UnaryServerInfo{FullMethod: "/storefront/Test"}

	_, err := interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return nil, errors.NotFound("order item %d was not found", 1)
	})
	assert.Equal(t, codes.NotFound, status.Code(err))

	plain := stderrors.New("plain")
	_, err = interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return nil, plain
	})
	assert.Same(t, plain, err)

	resp, err := interceptor(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)
}
