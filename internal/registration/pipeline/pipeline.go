// Package pipeline runs a death registration case through its fixed stage
// sequence: identity resolution, document verification, screening,
// persistence and certificate issuance.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"civreg/internal/registration/certificate"
	"civreg/internal/registration/metrics"
	"civreg/internal/registration/models"
	"civreg/internal/registration/ports"
	"civreg/pkg/platform/audit"
	"civreg/pkg/requestcontext"
)

const DefaultRunTimeout = 2 * time.Minute

var tracer = otel.Tracer("civreg/registration")

// Pipeline is safe for concurrent use; each Run owns its case record.
type Pipeline struct {
	storage   ports.Storage
	documents ports.DocumentArea
	verifier  ports.DocumentVerifier
	screener  ports.FraudScreener
	issuer    ports.CertificateIssuer

	auditPublisher ports.AuditPublisher
	fallback       certificate.Fallback
	extraMarkers   []string
	runTimeout     time.Duration
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer

	stages []Stage
}

type Option func(*Pipeline)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(p *Pipeline) {
		p.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(p *Pipeline) {
		p.tracer = t
	}
}

// WithFallback selects what unapproved cases receive as certificate fields.
func WithFallback(f certificate.Fallback) Option {
	return func(p *Pipeline) {
		if f.IsValid() {
			p.fallback = f
		}
	}
}

// WithExtraMarkers adds markers every document must contain besides the
// national id.
func WithExtraMarkers(markers ...string) Option {
	return func(p *Pipeline) {
		p.extraMarkers = append(p.extraMarkers, markers...)
	}
}

// WithRunTimeout bounds a run whose context carries no deadline. Zero
// disables the bound.
func WithRunTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		p.runTimeout = d
	}
}

func New(
	storage ports.Storage,
	documents ports.DocumentArea,
	verifier ports.DocumentVerifier,
	screener ports.FraudScreener,
	issuer ports.CertificateIssuer,
	opts ...Option,
) (*Pipeline, error) {
	if storage == nil {
		return nil, errors.New("storage is required")
	}
	if documents == nil {
		return nil, errors.New("document area is required")
	}
	if verifier == nil {
		return nil, errors.New("document verifier is required")
	}
	if screener == nil {
		return nil, errors.New("fraud screener is required")
	}
	if issuer == nil {
		return nil, errors.New("certificate issuer is required")
	}
	p := &Pipeline{
		storage:    storage,
		documents:  documents,
		verifier:   verifier,
		screener:   screener,
		issuer:     issuer,
		fallback:   certificate.FallbackPlaceholder,
		runTimeout: DefaultRunTimeout,
		logger:     slog.Default(),
		tracer:     tracer,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.stages = p.defaultStages()
	return p, nil
}

// Stages returns the stage names in execution order.
func (p *Pipeline) Stages() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name
	}
	return names
}

// Run executes every stage in order. The first failing stage stops the run
// and its error is returned as a *StageError together with the record as it
// stood before that stage. Cancellation is checked between stages.
func (p *Pipeline) Run(ctx context.Context, initial models.CaseRecord) (models.CaseRecord, error) {
	if _, ok := ctx.Deadline(); !ok && p.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.runTimeout)
		defer cancel()
	}
	ctx, span := p.tracer.Start(ctx, "Registration.Pipeline.Run",
		trace.WithAttributes(attribute.String("case_id", initial.CaseID.String())))
	defer span.End()

	start := time.Now()
	defer func() { p.metrics.ObserveRun(time.Since(start)) }()

	p.logAudit(ctx, audit.EventRegistrationStarted, initial, "", "", "")

	rec := initial
	for _, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return rec, p.fail(ctx, span, rec, stage.Name, err)
		}
		if !stage.applies(rec) {
			p.metrics.ObserveStage(stage.Name, "skipped", 0)
			continue
		}
		next, err := p.runStage(ctx, stage, rec)
		if err != nil {
			return rec, p.fail(ctx, span, rec, stage.Name, err)
		}
		rec = next
	}

	span.SetAttributes(attribute.String("status", rec.Status.String()))
	p.metrics.IncrementOutcome(rec.Status.String())
	p.logger.InfoContext(ctx, "registration completed",
		"case_id", rec.CaseID,
		"status", rec.Status,
		"record_id", rec.RecordID,
		"certificate_number", rec.CertificateNumber,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

func (p *Pipeline) runStage(ctx context.Context, stage Stage, rec models.CaseRecord) (models.CaseRecord, error) {
	ctx, span := p.tracer.Start(ctx, "Registration.Stage."+stage.Name)
	defer span.End()

	start := time.Now()
	next, err := stage.Run(ctx, rec)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		p.metrics.ObserveStage(stage.Name, "error", time.Since(start))
		return rec, err
	}
	p.metrics.ObserveStage(stage.Name, "ok", time.Since(start))
	p.logger.DebugContext(ctx, "stage completed",
		"case_id", rec.CaseID,
		"stage", stage.Name,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return next, nil
}

func (p *Pipeline) fail(ctx context.Context, span trace.Span, rec models.CaseRecord, stage string, err error) error {
	stageErr := &StageError{Stage: stage, Err: err}
	span.RecordError(stageErr)
	span.SetStatus(codes.Error, stageErr.Error())
	p.metrics.IncrementOutcome("failed")
	p.logger.ErrorContext(ctx, "registration failed",
		"case_id", rec.CaseID,
		"stage", stage,
		"error", err,
	)
	// Store the failure event even when the run context is done.
	p.logAudit(context.WithoutCancel(ctx), audit.EventRegistrationFailed, rec, stage, "", err.Error())
	return stageErr
}

func (p *Pipeline) logAudit(ctx context.Context, event audit.AuditEvent, rec models.CaseRecord, stage, decision, reason string) {
	subject := audit.HashSubject(rec.NationalID)
	p.logger.InfoContext(ctx, string(event),
		"case_id", rec.CaseID,
		"subject_id_hash", subject,
		"stage", stage,
		"decision", decision,
		"log_type", "audit",
	)
	if p.auditPublisher == nil {
		return
	}
	err := p.auditPublisher.Emit(ctx, audit.Event{
		Category:      event.Category(),
		Timestamp:     requestcontext.Now(ctx),
		CaseID:        rec.CaseID.String(),
		SubjectIDHash: subject,
		Action:        string(event),
		Stage:         stage,
		Decision:      decision,
		Reason:        reason,
		RequestID:     requestcontext.RequestID(ctx),
	})
	if err != nil {
		p.logger.WarnContext(ctx, "audit emit failed",
			"case_id", rec.CaseID,
			"event", string(event),
			"error", err,
		)
	}
}
