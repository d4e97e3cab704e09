package middleware

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/onebytwo/account-eraser/internal/logger"
	"github.com/onebytwo/account-eraser/internal/model"
)

// AppCheckHeader carries the app attestation token.
const AppCheckHeader = "x-firebase-appcheck"

// AppCheck verifies app attestation tokens. When not enforced, tokens are
// still verified if present but failures are only logged.
type AppCheck struct {
	verifier model.AppCheckVerifier
	enforce  bool
	logger   *logger.Logger
}

// NewAppCheck creates a new AppCheck middleware.
func NewAppCheck(verifier model.AppCheckVerifier, enforce bool, logger *logger.Logger) *AppCheck {
	return &AppCheck{verifier: verifier, enforce: enforce, logger: logger}
}

// HandleGRPC is a unary interceptor enforcing app attestation.
func (a *AppCheck) HandleGRPC(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	token := ""
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(AppCheckHeader); len(values) > 0 {
			token = values[0]
		}
	}

	if token == "" {
		if a.enforce {
			return nil, status.Error(codes.Unauthenticated, "missing app check token")
		}
		return handler(ctx, req)
	}

	appID, err := a.verifier.ParseAppCheckToken(token)
	if err != nil {
		if a.enforce {
			a.logger.Warn("rejected app check token", "method", info.FullMethod, "error", err.Error())
			return nil, status.Error(codes.Unauthenticated, "invalid app check token")
		}
		a.logger.Warn("invalid app check token ignored", "method", info.FullMethod, "error", err.Error())
		return handler(ctx, req)
	}

	a.logger.Debug("app check passed", "method", info.FullMethod, "app_id", appID)
	return handler(ctx, req)
}
