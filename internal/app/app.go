package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	promgrpc "github.com/grpc-ecosystem/go-grpc-prometheus"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	marketplacev1 "github.com/vladislavdragonenkov/marketplace/api/marketplace/v1"
	"github.com/vladislavdragonenkov/marketplace/internal/caller"
	"github.com/vladislavdragonenkov/marketplace/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/marketplace/internal/health"
	"github.com/vladislavdragonenkov/marketplace/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/marketplace/internal/metrics"
	grpcsvc "github.com/vladislavdragonenkov/marketplace/internal/service/grpc"
	"github.com/vladislavdragonenkov/marketplace/internal/service/httpapi"
	"github.com/vladislavdragonenkov/marketplace/internal/service/marketplace"
	"github.com/vladislavdragonenkov/marketplace/internal/service/outbox"
	"github.com/vladislavdragonenkov/marketplace/internal/version"
)

const (
	storagePingTimeout = 2 * time.Second
	healthSyncInterval = 10 * time.Second
)

// Run поднимает хранилище, gRPC-сервер, REST-шлюз, сервер метрик и outbox
// worker и блокируется до отмены ctx или падения gRPC-сервера.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")
	logger.WithFields(version.Fields()).Info("starting marketplace")

	deps, err := initRuntimeDependencies(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	svc := marketplace.New(deps.Store,
		marketplace.WithLogger(logger.WithField("layer", "service")),
		marketplace.WithMetrics(metrics.NewMarketplaceMetrics()),
		marketplace.WithStrictCancelRequests(cfg.Orders.StrictCancelRequests),
	)

	verifier := caller.NewVerifier(caller.Config{
		Secret:   cfg.Auth.Secret,
		Issuer:   cfg.Auth.Issuer,
		Audience: cfg.Auth.Audience,
		Leeway:   cfg.Auth.Leeway,
	})
	if !verifier.Enabled() {
		logger.Warn("auth secret is empty, caller identity is taken from x-caller-id")
	}

	api := grpcsvc.NewMarketplaceServer(svc, logger.WithField("layer", "grpc"))
	grpcServer, healthServer := newGRPCServer(api, verifier, logger)

	healthHandler := healthcheck.NewHandler(version.GetVersion())
	healthHandler.RegisterChecker("storage", healthcheck.NewPingChecker("storage", svc.Ping, storagePingTimeout))

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()

	var background sync.WaitGroup
	background.Add(1)
	go func() {
		defer background.Done()
		healthcheck.SyncGRPC(runCtx, healthHandler, healthServer, marketplacev1.ServiceName, healthSyncInterval)
	}()

	producer, err := initKafkaProducer(cfg.Kafka, logger)
	if err != nil {
		producer = nil
	}
	defer closeKafka(producer, logger)

	if producer != nil {
		worker := newOutboxWorker(cfg, deps, producer, logger)
		background.Add(1)
		go func() {
			defer background.Done()
			worker.Run(runCtx)
		}()
	} else {
		logger.Info("kafka is not configured, outbox messages stay pending")
	}

	if cleaner := newOutboxCleaner(cfg.Outbox, deps, logger); cleaner != nil {
		background.Add(1)
		go func() {
			defer background.Done()
			cleaner.Run(runCtx)
		}()
	}

	metricsSrv := startMetricsServer(runCtx, cfg.Server.MetricsAddr, logger, healthHandler)

	var gatewaySrv *http.Server
	if cfg.Server.HTTPAddr != "" {
		gin.SetMode(gin.ReleaseMode)
		router := httpapi.NewRouter(api, verifier, logger.WithField("layer", "http"))
		gatewaySrv = startHTTPServer(cfg.Server.HTTPAddr, router, "http gateway", logger)
	}

	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		shutdownHTTP(gatewaySrv, cfg.Server.ShutdownTimeout, logger)
		shutdownHTTP(metricsSrv, cfg.Server.ShutdownTimeout, logger)
		cancelRun()
		background.Wait()
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("gRPC сервер слушает %s", lis.Addr())
		errCh <- grpcServer.Serve(lis)
	}()

	stop := func() {
		shutdownHTTP(gatewaySrv, cfg.Server.ShutdownTimeout, logger)
		shutdownHTTP(metricsSrv, cfg.Server.ShutdownTimeout, logger)
		cancelRun()
		background.Wait()
	}

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем gRPC сервер")
		healthServer.Shutdown()
		gracefulStop(grpcServer, cfg.Server.ShutdownTimeout, logger)
		stop()
		return ctx.Err()
	case err := <-errCh:
		stop()
		if errors.Is(err, grpc.ErrServerStopped) {
			return nil
		}
		return err
	}
}

// newGRPCServer собирает gRPC-сервер с метриками, идентификацией вызывающего,
// health и reflection.
func newGRPCServer(api marketplacev1.MarketplaceServiceServer, verifier *caller.Verifier, logger *log.Entry) (*grpc.Server, *health.Server) {
	grpcMetrics := promgrpc.NewServerMetrics()
	if err := prometheus.Register(grpcMetrics); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok2 := are.ExistingCollector.(*promgrpc.ServerMetrics); ok2 {
				grpcMetrics = existing
			}
		} else {
			logger.WithError(err).Warn("failed to register grpc metrics")
		}
	}

	grpcServer := grpc.NewServer(grpc.ChainUnaryInterceptor(
		grpcMetrics.UnaryServerInterceptor(),
		grpcsvc.CallerInterceptor(verifier, logger.WithField("layer", "grpc")),
	))
	marketplacev1.RegisterMarketplaceServiceServer(grpcServer, api)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	grpcMetrics.InitializeMetrics(grpcServer)
	reflection.Register(grpcServer)
	return grpcServer, healthServer
}

func newOutboxWorker(cfg Config, deps *Dependencies, producer *kafka.Producer, logger *log.Entry) *outbox.Worker {
	opts := []outbox.Option{
		outbox.WithLogger(logger.WithField("component", "outbox-worker")),
		outbox.WithMetrics(metrics.NewOutboxMetrics()),
		outbox.WithPollInterval(cfg.Outbox.PollInterval),
		outbox.WithBatchSize(cfg.Outbox.BatchSize),
		outbox.WithMaxAttempts(cfg.Outbox.MaxAttempts),
		outbox.WithRetryBaseDelay(cfg.Outbox.RetryDelay),
	}
	if cfg.Kafka.DLQTopic != "" {
		opts = append(opts, outbox.WithDLQPublisher(kafka.NewOutboxPublisher(producer, cfg.Kafka.DLQTopic)))
	}
	return outbox.NewWorker(deps.OutboxRepo, kafka.NewOutboxPublisher(producer, cfg.Kafka.Topic), opts...)
}

// newOutboxCleaner возвращает nil, если очистка отключена или хранилище её не поддерживает.
func newOutboxCleaner(cfg OutboxConfig, deps *Dependencies, logger *log.Entry) *outbox.Cleaner {
	if cfg.Retention <= 0 {
		return nil
	}
	purger, ok := deps.OutboxRepo.(domain.OutboxPurger)
	if !ok {
		logger.Warn("outbox repository does not support cleanup")
		return nil
	}
	return outbox.NewCleaner(purger,
		outbox.WithCleanupLogger(logger.WithField("component", "outbox-cleaner")),
		outbox.WithCleanupMetrics(metrics.NewOutboxMetrics()),
		outbox.WithCleanupInterval(cfg.CleanupInterval),
		outbox.WithRetention(cfg.Retention),
		outbox.WithCleanupBatchSize(cfg.BatchSize),
	)
}

func gracefulStop(srv *grpc.Server, timeout time.Duration, logger *log.Entry) {
	stoppedCh := make(chan struct{})
	go func() {
		srv.GracefulStop()
		close(stoppedCh)
	}()
	select {
	case <-stoppedCh:
	case <-time.After(timeout):
		logger.Warn("graceful stop превысил таймаут, принудительно останавливаем")
		srv.Stop()
	}
}

// startMetricsServer запускает HTTP-обработчики /metrics и health checks.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	healthHandler.Mount(mux)

	srv := startHTTPServer(addr, mux, "metrics", logger)
	logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, 5*time.Second, logger)
	}()
	return srv
}

func startHTTPServer(addr string, handler http.Handler, name string, logger *log.Entry) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Infof("%s слушает %s", name, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).WithField("server", name).Warn("http server failed")
		}
	}()
	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, timeout time.Duration, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
