package auth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// UnaryServerInterceptor gRPC аналог Middleware: читает metadata authorization
// и публикует Principal в контексте. Вызов не отклоняется.
func (g *Gate) UnaryServerInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		var header string
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if values := md.Get("authorization"); len(values) > 0 {
				header = values[0]
			}
		}

		if principal, ok := g.Authenticate(ctx, header); ok {
			ctx = WithPrincipal(ctx, principal)
		}
		return handler(ctx, req)
	}
}
