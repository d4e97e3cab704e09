package middleware

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/onebytwo/account-eraser/internal/logger"
	"github.com/onebytwo/account-eraser/internal/model"
)

// TokenService resolves user ID from bearer tokens.
type TokenService interface {
	ParseAccessToken(token string) (uuid.UUID, error)
}

// Authenticate validates bearer tokens and injects user ID into context.
type Authenticate struct {
	tokenService   TokenService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenService TokenService, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenService: tokenService, contextManager: contextManager, logger: logger}
}

// AuthFunc parses the Authorization header and returns a context carrying the verified user ID.
// A request without a token passes through without identity and is rejected by the handler.
// A token that fails verification is rejected here.
func (m *Authenticate) AuthFunc(ctx context.Context) (context.Context, error) {
	tokenString := bearerToken(ctx)
	if tokenString == "" {
		return ctx, nil
	}

	userID, err := m.tokenService.ParseAccessToken(tokenString)
	if err != nil || userID == uuid.Nil {
		m.logger.Warn("rejected authorization token", "error", errString(err))
		return nil, status.Error(codes.Unauthenticated, "invalid authorization token")
	}

	return m.contextManager.SetUserIDToContext(ctx, userID), nil
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	authHeaders := md.Get("authorization")
	if len(authHeaders) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeaders[0], "Bearer "))
}

func errString(err error) string {
	if err == nil {
		return "nil user id"
	}
	return err.Error()
}
