package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/onebytwo/account-eraser/internal/api/grpc/accountpb"
	"github.com/onebytwo/account-eraser/internal/api/grpc/handler"
	"github.com/onebytwo/account-eraser/internal/api/grpc/middleware"
	"github.com/onebytwo/account-eraser/internal/logger"
	"github.com/onebytwo/account-eraser/internal/model"
)

// Router builds the gRPC server of the account callable.
type Router struct {
	accountService handler.AccountService
	tokenService   middleware.TokenService
	appCheck       model.AppCheckVerifier
	enforceApp     bool
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	accountService handler.AccountService,
	tokenService middleware.TokenService,
	appCheck model.AppCheckVerifier,
	enforceAppCheck bool,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		accountService: accountService,
		tokenService:   tokenService,
		appCheck:       appCheck,
		enforceApp:     enforceAppCheck,
		contextManager: contextManager,
		logger:         logger,
	}
}

// accountCall matches the callables that need caller identity and app attestation.
// Health checks are left open.
func accountCall(_ context.Context, c interceptors.CallMeta) bool {
	return c.Service == accountpb.ServiceName
}

// Register registers all gRPC services and middleware.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokenService, r.contextManager, r.logger)
	appCheck := middleware.NewAppCheck(r.appCheck, r.enforceApp, r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			recovery.UnaryServerInterceptor(recovery.WithRecoveryHandler(r.recover)),
			logging.HandleGRPC,
			selector.UnaryServerInterceptor(
				appCheck.HandleGRPC,
				selector.MatchFunc(accountCall),
			),
			selector.UnaryServerInterceptor(
				auth.UnaryServerInterceptor(authenticate.AuthFunc),
				selector.MatchFunc(accountCall),
			),
		),
	)

	accountpb.RegisterAccountServer(s, handler.NewAccount(r.accountService, r.logger))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(accountpb.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)

	return s
}

func (r *Router) recover(p any) error {
	r.logger.Error("panic while handling request", "panic", p)
	return status.Error(codes.Internal, "internal server error")
}
