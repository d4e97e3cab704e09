package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/reflection"

	"github.com/onebytwo/account-eraser/database"
	grpcctx "github.com/onebytwo/account-eraser/internal/api/grpc/context"
	"github.com/onebytwo/account-eraser/internal/api/grpc/router"
	grpcServer "github.com/onebytwo/account-eraser/internal/api/grpc/server"
	"github.com/onebytwo/account-eraser/internal/config"
	"github.com/onebytwo/account-eraser/internal/logger"
	"github.com/onebytwo/account-eraser/internal/metrics"
	"github.com/onebytwo/account-eraser/internal/model"
	"github.com/onebytwo/account-eraser/internal/repository/postgres"
	"github.com/onebytwo/account-eraser/internal/server"
	"github.com/onebytwo/account-eraser/internal/service"
	storage "github.com/onebytwo/account-eraser/internal/storage/minio"
	"github.com/onebytwo/account-eraser/internal/token"
)

const shutdownTimeout = 10 * time.Second

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, lg, err := load()
	if err != nil {
		return err
	}

	if cfg.Database.Migrate {
		if err := database.Migrate(ctx, cfg.Database.DSN); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer db.Close()

	minioClient, err := minio.New(cfg.Storage.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Storage.AccessKey, cfg.Storage.SecretKey, ""),
		Secure: cfg.Storage.UseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to create minio client: %w", err)
	}
	storageClient, err := storage.NewClient(ctx, minioClient, cfg.Storage.Bucket)
	if err != nil {
		return fmt.Errorf("failed to initialize storage client: %w", err)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	ctxMgr := grpcctx.NewManager()

	eraser := service.NewEraser(
		service.NewAuthGate(ctxMgr),
		service.NewRecordPurger(postgres.NewDocumentRepository(db), cfg.Eraser.BatchSize, m, lg),
		service.NewFileEraser(storageClient, m, lg),
		service.NewIdentityEraser(postgres.NewIdentityRepository(db), lg),
		m,
		lg,
	)

	servers := []model.Server{newGRPCServer(cfg, lg, eraser, ctxMgr)}
	if cfg.Metrics.Port != "" {
		servers = append(servers, metrics.NewServer(metrics.Handler(prometheus.DefaultGatherer), fmt.Sprintf(":%s", cfg.Metrics.Port)))
	}

	var sl model.SecurityLayer
	if cfg.GRPC.EnableHTTPS {
		sl = server.NewTLSListener(cfg.GRPC.CertFileName, cfg.GRPC.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	logAppVersion()

	return run(ctx, lg, sl, servers...)
}

func newGRPCServer(cfg *config.Config, lg *logger.Logger, eraser *service.Eraser, ctxMgr model.ContextManager) *grpcServer.GRPCServer {
	r := router.New(
		eraser,
		token.NewJWT(cfg.JWT.Secret),
		token.NewAppCheck(cfg.AppCheck.Secret),
		cfg.AppCheck.Enforce,
		ctxMgr,
		lg,
	)
	s := r.Register()

	reflection.Register(s)

	return grpcServer.NewGRPCServer(s, fmt.Sprintf(":%s", cfg.GRPC.Port))
}

// run starts every server and stops all of them once ctx is done or any of them fails.
func run(ctx context.Context, lg *logger.Logger, sl model.SecurityLayer, servers ...model.Server) error {
	g, gctx := errgroup.WithContext(ctx)

	for _, s := range servers {
		s := s
		g.Go(func() error {
			lg.Info("starting server", "address", s.Address())
			if err := s.Start(sl); err != nil {
				return fmt.Errorf("server %s: %w", s.Address(), err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		lg.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		for _, s := range servers {
			if err := s.Stop(shutdownCtx); err != nil {
				lg.Error("error during server shutdown", "error", err, "address", s.Address())
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		lg.Error("server failed", "error", err)
		return err
	}

	lg.Info("shutdown complete")
	return nil
}
