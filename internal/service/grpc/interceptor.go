package grpcsvc

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"

	"github.com/vladislavdragonenkov/marketplace/internal/caller"
)

const (
	authorizationHeader = "authorization"
	// CallerIDHeader передаёт идентичность напрямую, когда проверка токенов отключена.
	CallerIDHeader = "x-caller-id"
)

// CallerInterceptor кладёт идентичность вызывающей стороны в контекст.
// Запросы без идентичности пропускаются дальше: методы, которым она нужна,
// сами вернут Unauthenticated.
func CallerInterceptor(verifier *caller.Verifier, logger *log.Entry) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		md, _ := metadata.FromIncomingContext(ctx)
		authorization := firstValue(md, authorizationHeader)
		callerID := firstValue(md, CallerIDHeader)
		if authorization == "" && callerID == "" {
			return handler(ctx, req)
		}

		identity, err := verifier.Identify(authorization, callerID)
		if err != nil {
			return nil, toStatus(err, logger, info.FullMethod)
		}
		return handler(caller.WithIdentity(ctx, identity), req)
	}
}

func firstValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return strings.TrimSpace(values[0])
}

// IdentityMetadata возвращает исходящий контекст с x-caller-id (для клиентов и тестов).
func IdentityMetadata(ctx context.Context, identity string) context.Context {
	if identity == "" {
		return ctx
	}
	return metadata.AppendToOutgoingContext(ctx, CallerIDHeader, identity)
}
