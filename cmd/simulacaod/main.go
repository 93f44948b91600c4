package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/application/usecase"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/config"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/messaging"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/infrastructure/metrics"
	grpcPresentation "github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/presentation/grpc"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/internal/presentation/rest"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/auth"
	"github.com/KaioZaniboni/desafio-tecnico-simulacao-credito/pkg/observability"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Telemetry.LogLevel,
		Format:  cfg.Telemetry.LogFormat,
		Service: cfg.ServiceName,
	})

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting "+cfg.ServiceName,
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"storage", cfg.StorageDriver,
		"time_zone", cfg.TimeZone,
	)

	// Tracing is optional; without an endpoint spans are dropped.
	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Insecure:    cfg.Telemetry.OTLPInsecure,
			SampleRatio: cfg.Telemetry.SampleRatio,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: cfg.ServiceName})
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush
	recorder, err := metrics.New(meterProvider.Meter(metrics.MeterName))
	if err != nil {
		return fmt.Errorf("init instruments: %w", err)
	}

	// Storage.
	store, err := openStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	// Notification. The dispatcher owns delivery; closing it drains the queue
	// before the downstream producer goes away.
	downstream, closeDownstream, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closeDownstream()
	notifier := messaging.NewAsyncPublisher(downstream, cfg.NotifierBuffer, cfg.Timeouts.Publish, logger)
	if err := recorder.ObserveNotifier(notifier.Stats); err != nil {
		return fmt.Errorf("observe notifier: %w", err)
	}

	verifier, err := newVerifier(cfg.JWT)
	if err != nil {
		return fmt.Errorf("init jwt: %w", err)
	}

	// Use cases.
	loc := cfg.Location()
	policy := cfg.Policy()
	createUC := usecase.NewCreateSimulationUseCase(store.catalog, store.simulations, notifier, recorder, logger,
		usecase.CreateSimulationConfig{
			Policy:             policy,
			CatalogTimeout:     cfg.Timeouts.Catalog,
			PersistenceTimeout: cfg.Timeouts.Persistence,
			Location:           loc,
		})
	getUC := usecase.NewGetSimulationUseCase(store.simulations, cfg.Timeouts.Query)
	listUC := usecase.NewListSimulationsUseCase(store.simulations, policy, cfg.Timeouts.Query)
	volumeUC := usecase.NewGetDailyVolumeUseCase(store.simulations, loc, cfg.Timeouts.Query)
	productsUC := usecase.NewListProductsUseCase(store.catalog, cfg.Timeouts.Catalog)
	eligibleUC := usecase.NewListEligibleProductsUseCase(store.catalog, policy, cfg.Timeouts.Catalog)
	recordUC := usecase.NewRecordTelemetryUseCase(store.telemetry, logger, cfg.Timeouts.Persistence)
	telemetryUC := usecase.NewGetDailyTelemetryUseCase(store.telemetry, loc, cfg.Timeouts.Query)

	// gRPC server.
	grpcHandler := grpcPresentation.NewSimulationHandler(createUC, getUC, listUC, volumeUC, productsUC, eligibleUC, logger)
	grpcServer, err := grpcPresentation.NewServer(grpcHandler, verifier, grpcPresentation.ServerConfig{
		TLSCertFile:     cfg.TLSCertFile,
		TLSKeyFile:      cfg.TLSKeyFile,
		TLSClientCAFile: cfg.TLSClientCAFile,
		Reflection:      cfg.GRPCReflection,
	}, logger)
	if err != nil {
		return fmt.Errorf("init grpc server: %w", err)
	}

	// HTTP server.
	var limiter *rest.RateLimiter
	if cfg.RateLimitRPS > 0 {
		limiter = rest.NewRateLimiter(cfg.RateLimitRPS)
	}
	gin.SetMode(gin.ReleaseMode)
	router := rest.NewRouter(rest.RouterConfig{
		Logger:         logger,
		Simulations:    rest.NewSimulationHandler(createUC, getUC, listUC, volumeUC, logger),
		Products:       rest.NewProductHandler(productsUC, eligibleUC, logger),
		Telemetry:      rest.NewTelemetryHandler(telemetryUC, logger),
		Health:         rest.NewHealthHandler(cfg.ServiceName, store.checks, logger),
		Authn:          auth.GinMiddleware(verifier, auth.CatalogRoles...),
		MetricsHandler: metricsHandler,
		HTTPMetrics:    recorder,
		Recorder:       recordUC,
		Limiter:        limiter,
		TrustedProxies: cfg.TrustedProxies,
	})
	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case runErr = <-errCh:
		logger.Error("server error", "error", runErr)
	}

	// Graceful shutdown: stop intake, then drain pending notifications.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Timeouts.Shutdown)
	defer shutdownCancel()

	grpcServer.GracefulStop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := notifier.Close(shutdownCtx); err != nil {
		logger.Warn("notifier did not drain", "error", err)
	}
	published, failed, dropped := notifier.Stats()
	logger.Info(cfg.ServiceName+" stopped",
		"events_published", published,
		"events_failed", failed,
		"events_dropped", dropped,
	)

	return runErr
}

// newVerifier prefers the RSA public key over the shared secret.
func newVerifier(cfg config.JWTConfig) (*auth.Verifier, error) {
	vcfg := auth.VerifierConfig{
		Secret:   cfg.Secret,
		Issuer:   cfg.Issuer,
		Audience: cfg.Audience,
		Leeway:   cfg.Leeway,
	}
	if cfg.PublicKeyFile != "" {
		key, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, err
		}
		vcfg.PublicKeyPEM = string(key)
	}
	return auth.NewVerifier(vcfg)
}
