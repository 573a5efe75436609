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

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/bibbank/loan-decision-service/internal/application/usecase"
	"github.com/bibbank/loan-decision-service/internal/domain/port"
	"github.com/bibbank/loan-decision-service/internal/domain/service"
	"github.com/bibbank/loan-decision-service/internal/infrastructure/cache"
	"github.com/bibbank/loan-decision-service/internal/infrastructure/classifier"
	"github.com/bibbank/loan-decision-service/internal/infrastructure/config"
	"github.com/bibbank/loan-decision-service/internal/infrastructure/kafka"
	"github.com/bibbank/loan-decision-service/internal/infrastructure/llm"
	"github.com/bibbank/loan-decision-service/internal/infrastructure/messaging"
	"github.com/bibbank/loan-decision-service/internal/infrastructure/metrics"
	"github.com/bibbank/loan-decision-service/internal/infrastructure/persistence/memory"
	pgRepo "github.com/bibbank/loan-decision-service/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/bibbank/loan-decision-service/internal/presentation/grpc"
	"github.com/bibbank/loan-decision-service/internal/presentation/rest"
	"github.com/bibbank/loan-decision-service/pkg/auth"
	pkgkafka "github.com/bibbank/loan-decision-service/pkg/kafka"
	"github.com/bibbank/loan-decision-service/pkg/observability"
	pkgpostgres "github.com/bibbank/loan-decision-service/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		slog.Error("loan-decision-service failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.ServiceName,
	})
	logger.Info("starting loan-decision-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"classifier", cfg.Classifier.Provider,
	)

	// Tracing is optional.
	if cfg.Telemetry.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.Telemetry.OTLPEndpoint,
			Insecure:    cfg.Telemetry.Insecure,
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
	observer, err := metrics.NewEngineObserver(meterProvider)
	if err != nil {
		return err
	}

	readiness := map[string]rest.ReadinessCheck{}

	// Storage.
	repo, closeRepo, err := openRepository(ctx, cfg, logger, readiness)
	if err != nil {
		return err
	}
	defer closeRepo()

	// Events.
	publisher, closePublisher, err := openPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	// Decision engine.
	primary, closeClassifier, err := openClassifier(ctx, cfg, logger, readiness)
	if err != nil {
		return err
	}
	defer closeClassifier()

	engine := service.NewDecisionEngine(
		service.NewFallbackClassifier(primary, service.NewRuleClassifier(), observer, logger),
		service.NewDecisionPolicy(),
		observer,
	)

	evaluateUC := usecase.NewEvaluateApplicationUseCase(engine)
	submitUC := usecase.NewSubmitApplicationUseCase(repo, publisher, engine, logger)
	getUC := usecase.NewGetApplicationUseCase(repo)
	listUC := usecase.NewListApplicationsUseCase(repo)
	updateUC := usecase.NewUpdateApplicationStatusUseCase(repo, publisher, logger)

	jwtSvc, err := openJWT(cfg)
	if err != nil {
		return err
	}

	// gRPC server.
	grpcHandler := grpcPresentation.NewLoanDecisionHandler(evaluateUC, submitUC, getUC, listUC, updateUC, logger)
	grpcServer, err := grpcPresentation.NewServer(grpcHandler, logger, grpcPresentation.ServerOptions{
		JWT:         jwtSvc,
		TLSCertFile: cfg.TLS.CertFile,
		TLSKeyFile:  cfg.TLS.KeyFile,
		Reflection:  cfg.GRPCReflection,
	})
	if err != nil {
		return err
	}

	// HTTP server.
	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Applications: rest.NewApplicationHandler(evaluateUC, submitUC, getUC, listUC, updateUC, logger),
			Health:       rest.NewHealthHandler(cfg.ServiceName, readiness, logger),
			Metrics:      metricsHandler,
			JWT:          jwtSvc,
			Logger:       logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer shutdownCancel()

		grpcServer.GracefulStop()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("loan-decision-service stopped")
	return nil
}

// openRepository connects to PostgreSQL when configured and falls back to the
// in-memory repository otherwise.
func openRepository(ctx context.Context, cfg config.Config, logger *slog.Logger, readiness map[string]rest.ReadinessCheck) (port.ApplicationRepository, func(), error) {
	if !cfg.DB.Enabled() {
		logger.Warn("no database configured, applications are kept in memory")
		return memory.NewApplicationRepository(), func() {}, nil
	}

	pgCfg := pkgpostgres.Config{
		URL:      cfg.DB.URL,
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
		MaxConns: int32(cfg.DB.MaxConns),
		MinConns: int32(cfg.DB.MinConns),
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("connected to database")

	if cfg.DB.AutoMigrate {
		if err := pkgpostgres.RunMigrations(pgCfg.DSN(), pgRepo.Migrations, pgRepo.MigrationsDir); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations applied")
	}

	readiness["database"] = func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) }
	return pgRepo.NewApplicationRepository(pool), pool.Close, nil
}

// openPublisher writes events to Kafka when brokers are configured and logs
// them otherwise.
func openPublisher(cfg config.Config, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Warn("no kafka brokers configured, domain events are logged only")
		return messaging.NewLogPublisher(logger), func() {}, nil
	}

	producer, err := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers:       cfg.Kafka.Brokers,
		TLS:           cfg.Kafka.TLS,
		SASLEnabled:   cfg.Kafka.SASLMechanism != "",
		SASLMechanism: cfg.Kafka.SASLMechanism,
		SASLUsername:  cfg.Kafka.SASLUsername,
		SASLPassword:  cfg.Kafka.SASLPassword,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create kafka producer: %w", err)
	}
	closeFn := func() {
		if err := producer.Close(); err != nil {
			logger.Error("failed to close kafka producer", "error", err)
		}
	}
	return kafka.NewEventPublisher(producer, cfg.Kafka.Topic, logger), closeFn, nil
}

// openClassifier builds the service-backed classifier. A nil classifier means
// every application is classified by rules.
func openClassifier(ctx context.Context, cfg config.Config, logger *slog.Logger, readiness map[string]rest.ReadinessCheck) (port.Classifier, func(), error) {
	if cfg.Classifier.Provider == config.ProviderDisabled {
		logger.Warn("classification service disabled, using rule-based classification only")
		return nil, func() {}, nil
	}

	client := llm.NewAnthropicClient(llm.AnthropicConfig{
		APIKey:    cfg.Classifier.APIKey,
		BaseURL:   cfg.Classifier.BaseURL,
		Model:     cfg.Classifier.Model,
		MaxTokens: cfg.Classifier.MaxTokens,
	}, logger)
	opts := []classifier.Option{classifier.WithTimeout(cfg.Classifier.Timeout)}

	closeFn := func() {}
	if cfg.Redis.URL != "" {
		redisOpts, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse redis url: %w", err)
		}
		rdb := redis.NewClient(redisOpts)
		pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
		defer pingCancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis unreachable at startup, cache errors will be ignored", "error", err)
		}
		opts = append(opts, classifier.WithCache(cache.NewRedisClassificationCache(rdb, cfg.Redis.CacheTTL)))
		readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		closeFn = func() { _ = rdb.Close() }
		logger.Info("classification cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	return classifier.NewServiceClassifier(client, logger, opts...), closeFn, nil
}

// openJWT returns nil when no JWT key material is configured.
func openJWT(cfg config.Config) (*auth.JWTService, error) {
	if !cfg.JWT.Enabled() {
		return nil, nil
	}
	svc, err := auth.NewJWTService(auth.JWTConfig{
		Secret:       cfg.JWT.Secret,
		PublicKeyPEM: cfg.JWT.PublicKeyPEM,
		Issuer:       cfg.JWT.Issuer,
	})
	if err != nil {
		return nil, fmt.Errorf("initialize JWT service: %w", err)
	}
	return svc, nil
}
