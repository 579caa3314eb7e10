package decision

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"kycengine/internal/decision/metrics"
	"kycengine/internal/decision/trace"
	"kycengine/internal/domain"
	dErrors "kycengine/pkg/domain-errors"
	"kycengine/pkg/requestcontext"
)

const (
	defaultBatchLimit = 8
	// MaxBatchSize bounds a single batch request.
	MaxBatchSize = 500
	tracerName   = "kycengine/decision"
)

// Service is the context-aware facade over the engine and trace builder.
// The engine itself never blocks; the service adds cancellation, logging,
// metrics, spans and batching.
type Service struct {
	engine     *Engine
	traces     *trace.Builder
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     oteltrace.Tracer
	batchLimit int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t oteltrace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// WithBatchLimit bounds how many profiles of a batch are evaluated at once.
func WithBatchLimit(n int) Option {
	return func(s *Service) {
		s.batchLimit = n
	}
}

// New constructs a Service over engine.
func New(engine *Engine, opts ...Option) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}
	s := &Service{
		engine:     engine,
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
		batchLimit: defaultBatchLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.batchLimit < 1 {
		return nil, fmt.Errorf("batch limit must be positive, got %d", s.batchLimit)
	}
	cfg := engine.Config()
	s.traces = trace.NewBuilder(trace.Config{DemoMode: cfg.DemoMode, Phrases: cfg.Phrases})
	return s, nil
}

// Validate scores one profile. A zero asOf means the request time.
func (s *Service) Validate(ctx context.Context, p *domain.Profile, asOf time.Time) (*domain.ValidationResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "decision.Validate")
	defer span.End()

	result, err := s.validate(ctx, p, asOf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(
		attribute.String("kyc.customer_id", result.CustomerID),
		attribute.String("kyc.entity_type", string(result.EntityType)),
		attribute.Float64("kyc.score", result.Score),
		attribute.Int("kyc.flags", len(result.Flags)),
	)
	s.metrics.ObserveEvaluateLatency("validate", time.Since(start))
	s.logger.InfoContext(ctx, "profile validated",
		"request_id", requestcontext.RequestID(ctx),
		"customer_id", result.CustomerID,
		"entity_type", result.EntityType,
		"score", result.Score,
		"flags", len(result.Flags),
		"critical", result.CountLevel(domain.LevelCritical),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (s *Service) validate(ctx context.Context, p *domain.Profile, asOf time.Time) (*domain.ValidationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "validation aborted")
	}
	if p == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "profile is required")
	}
	now := requestcontext.Now(ctx)
	if asOf.IsZero() {
		asOf = now
	}

	result := s.engine.Evaluate(p, asOf)
	result.GeneratedAt = now

	s.metrics.ObserveValidation(string(result.EntityType), result.Score)
	for _, f := range result.Flags {
		s.metrics.IncrementFlag(f.Code, string(f.Level))
	}
	return &result, nil
}

// ValidateBatch scores profiles concurrently, at most batchLimit at a time.
// Results keep input order. The first failure cancels the rest.
func (s *Service) ValidateBatch(ctx context.Context, profiles []*domain.Profile, asOf time.Time) ([]domain.ValidationResult, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "decision.ValidateBatch",
		oteltrace.WithAttributes(attribute.Int("kyc.batch_size", len(profiles))))
	defer span.End()

	if len(profiles) > MaxBatchSize {
		err := dErrors.New(dErrors.CodeValidation, fmt.Sprintf("batch holds %d profiles; the limit is %d", len(profiles), MaxBatchSize))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if asOf.IsZero() {
		asOf = requestcontext.Now(ctx)
	}
	s.metrics.ObserveBatchSize(len(profiles))

	results := make([]domain.ValidationResult, len(profiles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.batchLimit)
	for i, p := range profiles {
		g.Go(func() error {
			res, err := s.validate(gctx, p, asOf)
			if err != nil {
				return fmt.Errorf("profile %d: %w", i, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.ErrorContext(ctx, "batch validation failed",
			"request_id", requestcontext.RequestID(ctx),
			"batch_size", len(profiles),
			"error", err,
		)
		return nil, err
	}

	s.metrics.ObserveEvaluateLatency("batch", time.Since(start))
	s.logger.InfoContext(ctx, "batch validated",
		"request_id", requestcontext.RequestID(ctx),
		"batch_size", len(profiles),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return results, nil
}

// Trace derives the audit trail for one profile. A zero asOf means the
// request time.
func (s *Service) Trace(ctx context.Context, p *domain.Profile, asOf time.Time) (*domain.TraceSection, error) {
	start := time.Now()
	ctx, span := s.tracer.Start(ctx, "decision.Trace")
	defer span.End()

	if err := ctx.Err(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "trace aborted")
	}
	if p == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "profile is required")
	}
	if asOf.IsZero() {
		asOf = requestcontext.Now(ctx)
	}

	section := s.traces.Build(p, asOf)
	s.metrics.ObserveEvaluateLatency("trace", time.Since(start))
	s.logger.DebugContext(ctx, "trace built",
		"request_id", requestcontext.RequestID(ctx),
		"customer_id", p.CustomerID,
		"ubos", len(section.UBOs),
		"powers", len(section.Powers),
	)
	return &section, nil
}
