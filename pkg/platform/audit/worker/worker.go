// Package worker relays audit outbox entries to Kafka.
package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	auditpostgres "civreg/pkg/platform/audit/store/postgres"
)

// Outbox is the subset of the postgres audit store the worker drives.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]auditpostgres.Entry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Producer writes one keyed message to a topic.
type Producer interface {
	Produce(ctx context.Context, topic string, key, value []byte) error
}

// Worker polls the outbox and publishes unpublished entries in creation order.
// An entry is marked published only after the producer acknowledged it.
type Worker struct {
	outbox    Outbox
	producer  Producer
	topic     string
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func NewWorker(outbox Outbox, producer Producer, topic string, opts ...Option) *Worker {
	w := &Worker{
		outbox:    outbox,
		producer:  producer,
		topic:     topic,
		interval:  time.Second,
		batchSize: 100,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		if _, err := w.PublishBatch(ctx); err != nil {
			w.logger.WarnContext(ctx, "audit outbox relay failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// PublishBatch publishes one batch and returns how many entries were marked.
// It stops at the first producer failure so ordering per aggregate holds.
func (w *Worker) PublishBatch(ctx context.Context) (int, error) {
	entries, err := w.outbox.FetchUnpublished(ctx, w.batchSize)
	if err != nil {
		return 0, err
	}
	var published []uuid.UUID
	var produceErr error
	for _, e := range entries {
		if err := w.producer.Produce(ctx, w.topic, []byte(e.AggregateID), e.Payload); err != nil {
			produceErr = err
			break
		}
		published = append(published, e.ID)
	}
	if err := w.outbox.MarkPublished(ctx, published, time.Now()); err != nil {
		return 0, err
	}
	return len(published), produceErr
}
