// Package grpcserver gRPC поверхность магазина: стандартный health сервис за AuthGate.
package grpcserver

import (
	"context"
	stderrors "errors"
	"net"
	"time"

	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"StorefrontPlatform/pkg/errors"
	"StorefrontPlatform/pkg/health"
	"StorefrontPlatform/pkg/logger"
	"StorefrontPlatform/services/storefront/internal/auth"
)

// ServiceName имя сервиса в grpc.health.v1
const ServiceName = "storefront"

// Server gRPC сервер с health сервисом
type Server struct {
	server  *grpc.Server
	health  *grpchealth.Server
	checker health.HealthChecker
	logger  logger.Logger
}

// New создает gRPC сервер. Все вызовы проходят через AuthGate, ошибки пакета errors переводятся в gRPC статусы.
func New(gate *auth.Gate, checker health.HealthChecker, log logger.Logger) *Server {
	server := grpc.NewServer(grpc.ChainUnaryInterceptor(
		loggingInterceptor(log),
		errorInterceptor(),
		gate.UnaryServerInterceptor(),
	))

	hs := grpchealth.NewServer()
	grpc_health_v1.RegisterHealthServer(server, hs)
	reflection.Register(server)

	return &Server{
		server:  server,
		health:  hs,
		checker: checker,
		logger:  log,
	}
}

// Serve принимает соединения до остановки сервера
func (s *Server) Serve(lis net.Listener) error {
	s.logger.Info("Starting gRPC server", logger.String("addr", lis.Addr().String()))
	if err := s.server.Serve(lis); err != nil && !stderrors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}

// Refresh синхронизирует статус health сервиса с проверкой зависимостей
func (s *Server) Refresh(ctx context.Context) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if s.checker != nil && !s.checker.Check(ctx).Healthy() {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Watch обновляет статус с заданным интервалом до отмены контекста
func (s *Server) Watch(ctx context.Context, interval time.Duration) {
	s.Refresh(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// Stop останавливает сервер, дожидаясь активных вызовов не дольше таймаута контекста
func (s *Server) Stop(ctx context.Context) {
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("gRPC server stopped gracefully")
	case <-ctx.Done():
		s.logger.Warn("Shutdown timeout, forcing gRPC server stop")
		s.server.Stop()
	}
}

// errorInterceptor переводит ошибки пакета errors в gRPC статусы
func errorInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		var customErr *errors.Error
		if stderrors.As(err, &customErr) {
			return resp, customErr.ToGRPCErr()
		}
		return resp, err
	}
}

func loggingInterceptor(log logger.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		fields := []logger.Field{
			logger.CtxField(ctx),
			logger.String("grpc_method", info.FullMethod),
			logger.Duration("duration", time.Since(start)),
		}
		if err != nil {
			log.Warn("gRPC call failed", append(fields, logger.Error(err))...)
		} else {
			log.Debug("gRPC call completed", fields...)
		}
		return resp, err
	}
}
