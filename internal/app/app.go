// Package app builds the registration service from configuration. The HTTP
// server and the operator CLI share it.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"civreg/internal/evidence/documents"
	"civreg/internal/evidence/knowledge"
	"civreg/internal/evidence/ocr"
	"civreg/internal/evidence/reasoning"
	"civreg/internal/evidence/render"
	httpapi "civreg/internal/http"
	"civreg/internal/platform/config"
	"civreg/internal/platform/kafka"
	"civreg/internal/platform/postgres"
	redisclient "civreg/internal/platform/redis"
	"civreg/internal/registration/certificate"
	regmetrics "civreg/internal/registration/metrics"
	"civreg/internal/registration/pipeline"
	"civreg/internal/registration/ports"
	"civreg/internal/registration/screening"
	memorystore "civreg/internal/registration/store/memory"
	pgstore "civreg/internal/registration/store/postgres"
	"civreg/internal/registration/verifier"
	audit "civreg/pkg/platform/audit"
	"civreg/pkg/platform/audit/publisher"
	auditmemory "civreg/pkg/platform/audit/store/memory"
	auditpostgres "civreg/pkg/platform/audit/store/postgres"
	"civreg/pkg/platform/audit/worker"
	"civreg/pkg/platform/circuit"
)

// App owns every long-lived dependency of a running service.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	DB       *sql.DB
	Redis    *redisclient.Client
	Storage  ports.Storage
	Audit    *publisher.Publisher
	Outbox   *auditpostgres.Store
	Producer *kafka.Producer
	Pipeline *pipeline.Pipeline
	Metrics  *regmetrics.Metrics

	closers []func()
}

type Option func(*options)

type options struct {
	registerer prometheus.Registerer
}

// WithRegisterer registers pipeline metrics somewhere other than the
// default registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// OpenStorage connects the configured store. An empty database URL selects
// the in-memory store.
func OpenStorage(ctx context.Context, cfg config.Config) (ports.Storage, *sql.DB, error) {
	if cfg.Database.URL == "" {
		return memorystore.New(), nil, nil
	}
	db, err := postgres.Open(ctx, postgres.Config{
		URL:             cfg.Database.URL,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	})
	if err != nil {
		return nil, nil, err
	}
	return pgstore.New(db), db, nil
}

// NewEmbedder builds the embeddings client for the knowledge index.
func NewEmbedder(cfg config.Knowledge) (*knowledge.OpenAIEmbedder, error) {
	return knowledge.NewOpenAIEmbedder(knowledge.EmbedderConfig{
		APIKey:  cfg.EmbeddingAPIKey,
		BaseURL: cfg.EmbeddingBaseURL,
		Model:   cfg.EmbeddingModel,
	})
}

// NewIndexBuilder builds the knowledge index builder with configured chunking.
func NewIndexBuilder(cfg config.Knowledge, embedder knowledge.Embedder, logger *slog.Logger) (*knowledge.Builder, error) {
	return knowledge.NewBuilder(embedder,
		knowledge.WithChunking(cfg.ChunkSize, cfg.ChunkOverlap),
		knowledge.WithModelName(cfg.EmbeddingModel),
		knowledge.WithBuilderLogger(logger),
	)
}

// Build wires the pipeline and its collaborators. The knowledge index is
// built on first use when its artifact is missing.
func Build(ctx context.Context, cfg config.Config, logger *slog.Logger, opts ...Option) (*App, error) {
	o := options{registerer: prometheus.DefaultRegisterer}
	for _, opt := range opts {
		opt(&o)
	}
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}
	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	storage, db, err := OpenStorage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.Storage, a.DB = storage, db
	if db != nil {
		a.closers = append(a.closers, func() { _ = db.Close() })
	}

	var auditStore audit.Store
	if db != nil {
		a.Outbox = auditpostgres.New(db)
		auditStore = a.Outbox
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}
	a.Audit = publisher.NewPublisher(auditStore,
		publisher.WithLogger(logger),
		publisher.WithAsyncBuffer(cfg.Audit.AsyncBuffer),
	)
	a.closers = append(a.closers, a.Audit.Close)

	retriever, err := a.buildRetriever(ctx)
	if err != nil {
		return nil, err
	}

	client, err := reasoning.New(reasoning.Config{
		APIKey:            cfg.Reasoning.APIKey,
		BaseURL:           cfg.Reasoning.BaseURL,
		Model:             cfg.Reasoning.Model,
		MaxTokens:         cfg.Reasoning.MaxTokens,
		RequestsPerSecond: cfg.Reasoning.RequestsPerSecond,
		Timeout:           cfg.Reasoning.Timeout,
	}, reasoning.WithLogger(logger))
	if err != nil {
		return nil, err
	}
	var reasoner ports.Reasoner = client
	if cfg.Reasoning.BreakerFailures > 0 {
		reasoner, err = reasoning.NewGuarded(client,
			circuit.New("reasoning", circuit.WithFailureThreshold(cfg.Reasoning.BreakerFailures)),
			reasoning.WithCooldown(cfg.Reasoning.BreakerCooldown),
			reasoning.WithGuardLogger(logger),
		)
		if err != nil {
			return nil, err
		}
	}

	extractor := ocr.New(
		ocr.WithLogger(logger),
		ocr.WithBinaries(cfg.OCR.Tesseract, cfg.OCR.Pdftoppm),
	)
	docVerifier, err := verifier.New(extractor, retriever, reasoner,
		verifier.WithLogger(logger),
		verifier.WithLanguage(cfg.OCR.Language),
		verifier.WithRetrieval(verifier.DefaultQuery, cfg.Knowledge.TopK),
	)
	if err != nil {
		return nil, err
	}
	screener, err := screening.New(storage, retriever, reasoner,
		screening.WithLogger(logger),
		screening.WithRetrieval(screening.DefaultQuery, cfg.Knowledge.TopK),
	)
	if err != nil {
		return nil, err
	}
	issuer, err := certificate.New(render.New(),
		certificate.WithLogger(logger),
		certificate.WithPrefix(cfg.Certificate.Prefix),
		certificate.WithOutputDir(cfg.Certificate.OutputDir),
	)
	if err != nil {
		return nil, err
	}

	a.Metrics = regmetrics.NewWithRegisterer(o.registerer)
	a.Pipeline, err = pipeline.New(storage, documents.New(cfg.Registration.DocumentsDir), docVerifier, screener, issuer,
		pipeline.WithLogger(logger),
		pipeline.WithAuditPublisher(a.Audit),
		pipeline.WithMetrics(a.Metrics),
		pipeline.WithFallback(certificate.Fallback(cfg.Registration.Fallback)),
		pipeline.WithExtraMarkers(cfg.Registration.ExtraMarkers...),
		pipeline.WithRunTimeout(cfg.Registration.RunTimeout),
	)
	if err != nil {
		return nil, err
	}

	if len(cfg.Kafka.Brokers) > 0 {
		if a.Outbox == nil {
			return nil, errors.New("kafka audit relay requires database.url")
		}
		a.Producer, err = kafka.NewProducer(kafka.Config{
			Brokers: cfg.Kafka.Brokers,
		}, kafka.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, a.Producer.Close)
	}

	ok = true
	return a, nil
}

func (a *App) buildRetriever(ctx context.Context) (ports.Retriever, error) {
	cfg := a.Config.Knowledge
	embedder, err := NewEmbedder(cfg)
	if err != nil {
		return nil, err
	}
	builder, err := NewIndexBuilder(cfg, embedder, a.Logger)
	if err != nil {
		return nil, err
	}
	idx, built, err := builder.EnsureIndexBuilt(ctx, cfg.SourcePath, cfg.IndexPath)
	if err != nil {
		return nil, fmt.Errorf("knowledge index: %w", err)
	}
	if built {
		a.Logger.InfoContext(ctx, "knowledge index written", "path", cfg.IndexPath)
	}
	base, err := knowledge.NewRetriever(idx, embedder)
	if err != nil {
		return nil, err
	}

	switch cfg.CacheBackend {
	case "redis":
		client, err := redisclient.New(ctx, a.Config.Redis)
		if err != nil {
			return nil, err
		}
		a.Redis = client
		a.closers = append(a.closers, func() { _ = client.Close() })
		return knowledge.NewCachedRetriever(base, knowledge.NewRedisCache(client.Client, cfg.CacheTTL), a.Logger), nil
	case "memory":
		return knowledge.NewCachedRetriever(base, knowledge.NewMemoryCache(cfg.CacheTTL, 2*cfg.CacheTTL), a.Logger), nil
	default:
		return base, nil
	}
}

// StartAuditRelay runs the outbox worker until ctx ends. It is a no-op
// without Kafka.
func (a *App) StartAuditRelay(ctx context.Context) error {
	if a.Producer == nil {
		return nil
	}
	if err := a.Producer.EnsureTopic(ctx, a.Config.Kafka.Topic, 1, 1); err != nil {
		return err
	}
	w := worker.NewWorker(a.Outbox, a.Producer, a.Config.Kafka.Topic,
		worker.WithLogger(a.Logger),
		worker.WithInterval(a.Config.Kafka.PublishInterval),
		worker.WithBatchSize(a.Config.Kafka.BatchSize),
	)
	go func() {
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			a.Logger.ErrorContext(ctx, "audit relay stopped", "error", err)
		}
	}()
	return nil
}

// HealthChecks lists the dependencies /healthz probes.
func (a *App) HealthChecks() map[string]httpapi.HealthCheck {
	checks := map[string]httpapi.HealthCheck{}
	if a.DB != nil {
		checks["database"] = a.DB.PingContext
	}
	if a.Redis != nil {
		checks["redis"] = a.Redis.Health
	}
	if a.Producer != nil {
		checks["kafka"] = a.Producer.Ping
	}
	return checks
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
