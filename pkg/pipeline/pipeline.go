// Package pipeline orchestrates the six reasoning stages in fixed order,
// threading an explicit context record between them and recording a
// per-stage execution trace.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/first5/first5/pkg/config"
	"github.com/first5/first5/pkg/models"
	"github.com/first5/first5/pkg/otelhelper"
	"github.com/first5/first5/pkg/reasoning"
	"github.com/first5/first5/pkg/stage"
)

const tracerName = "first5.pipeline"

// ErrInvalidInput marks a workflow input rejected at the boundary.
var ErrInvalidInput = errors.New("invalid workflow input")

// ErrContractViolation marks a stage artifact that failed its own output
// contract. This aborts the run; the per-stage fallbacks exist precisely to
// make this path unreachable in correct code.
var ErrContractViolation = errors.New("stage output contract violation")

// Status is the lifecycle state of one stage execution.
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// ExecutionRecord captures one stage's execution for the run trace. A stage
// that fell back to heuristics still reports success; the Source field is
// what distinguishes degraded from nominal.
type ExecutionRecord struct {
	Status      Status       `json:"status"`
	Source      stage.Source `json:"source,omitempty"`
	StartedAt   time.Time    `json:"startedAt"`
	CompletedAt time.Time    `json:"completedAt"`
}

// RunResult is the aggregate outcome of one pipeline run.
type RunResult struct {
	RunID  string                         `json:"runId"`
	Output models.WorkflowOutput          `json:"output"`
	Trace  map[stage.Kind]ExecutionRecord `json:"trace"`
}

// Pipeline executes the fixed six-stage sequence. It holds no per-run state,
// so one Pipeline serves concurrent runs without locking.
type Pipeline struct {
	intake    *stage.Intake
	interview *stage.Interview
	planner   *stage.Planner
	critic    *stage.Critic
	scheduler *stage.Scheduler
	coach     *stage.Coach

	validate *validator.Validate
	tracer   trace.Tracer
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes pipeline construction.
type Option func(*Pipeline)

// WithClock overrides the time source, which makes the heuristic-only path
// fully deterministic for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithTracer overrides the default global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) { p.tracer = tracer }
}

func New(gateway reasoning.Gateway, limits config.Limits, logger *slog.Logger, opts ...Option) *Pipeline {
	validate := validator.New(validator.WithRequiredStructEnabled())

	p := &Pipeline{
		intake:    stage.NewIntake(gateway, limits, validate, logger),
		interview: stage.NewInterview(gateway, limits, validate, logger),
		planner:   stage.NewPlanner(gateway, limits, validate, logger),
		critic:    stage.NewCritic(gateway, limits, validate, logger),
		scheduler: stage.NewScheduler(gateway, limits, validate, logger),
		coach:     stage.NewCoach(gateway, limits, validate, logger),
		validate:  validate,
		tracer:    otel.Tracer(tracerName),
		logger:    logger,
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Run executes the pipeline for one validated input and returns the aggregate
// output plus the per-stage trace. The run aborts only on an input validation
// failure or a stage contract violation; reasoning-gateway failures are
// absorbed by the stages' fallbacks.
func (p *Pipeline) Run(ctx context.Context, input models.WorkflowInput) (*RunResult, error) {
	if err := p.validate.Struct(&input); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	runID := uuid.New().String()
	logger := p.logger.With("run_id", runID)

	logger.InfoContext(ctx, "Starting pipeline run", "task", input.Task)

	rc := stage.RunContext{
		Input:   input,
		History: input.History,
		Now:     p.now(),
	}

	execTrace := make(map[stage.Kind]ExecutionRecord, len(stage.Order))
	for _, kind := range stage.Order {
		execTrace[kind] = ExecutionRecord{Status: StatusPending}
	}

	steps := []struct {
		kind stage.Kind
		run  func(context.Context) (stage.Source, error)
	}{
		{stage.KindIntake, func(sctx context.Context) (stage.Source, error) {
			var source stage.Source
			rc.Normalized, rc.Heuristics, source = p.intake.Run(sctx, rc)

			return source, p.checkContract(&rc.Normalized, rc.Normalized.Validate)
		}},
		{stage.KindInterview, func(sctx context.Context) (stage.Source, error) {
			var source stage.Source
			rc.Interview, source = p.interview.Run(sctx, rc)

			return source, p.checkContract(&rc.Interview, rc.Interview.Validate)
		}},
		{stage.KindPlanner, func(sctx context.Context) (stage.Source, error) {
			var source stage.Source
			rc.Plan, source = p.planner.Run(sctx, rc)

			return source, p.checkContract(&rc.Plan, rc.Plan.Validate)
		}},
		{stage.KindCritic, func(sctx context.Context) (stage.Source, error) {
			var source stage.Source
			rc.Review, source = p.critic.Run(sctx, rc)

			return source, p.checkContract(&rc.Review, rc.Review.Validate)
		}},
		{stage.KindScheduler, func(sctx context.Context) (stage.Source, error) {
			var source stage.Source
			rc.Scheduling, source = p.scheduler.Run(sctx, rc)

			return source, p.checkContract(&rc.Scheduling, rc.Scheduling.Validate)
		}},
		{stage.KindCoach, func(sctx context.Context) (stage.Source, error) {
			var source stage.Source
			rc.Coaching, source = p.coach.Run(sctx, rc)

			return source, p.checkContract(&rc.Coaching, rc.Coaching.Validate)
		}},
	}

	for _, step := range steps {
		record := ExecutionRecord{Status: StatusRunning, StartedAt: p.now()}
		execTrace[step.kind] = record

		sctx, span := otelhelper.StartSpan(ctx, p.tracer, string(step.kind),
			attribute.String(otelhelper.RunIDKey, runID),
			attribute.String(otelhelper.StageKey, string(step.kind)),
		)

		source, err := step.run(sctx)

		record.CompletedAt = p.now()

		if err != nil {
			record.Status = StatusError
			execTrace[step.kind] = record

			otelhelper.SetError(span, err)
			span.End()

			logger.ErrorContext(ctx, "Stage contract violation, aborting run",
				"stage", string(step.kind), "error", err)

			return nil, fmt.Errorf("stage %s: %w", step.kind, err)
		}

		record.Status = StatusSuccess
		record.Source = source
		execTrace[step.kind] = record

		span.SetAttributes(attribute.String(otelhelper.StageSourceKey, string(source)))
		span.End()

		logger.InfoContext(ctx, "Stage completed",
			"stage", string(step.kind), "source", string(source))
	}

	output := models.WorkflowOutput{
		Normalized: rc.Normalized,
		Heuristics: rc.Heuristics,
		Interview:  rc.Interview,
		Plan:       rc.Plan,
		Review:     rc.Review,
		Scheduling: rc.Scheduling,
		Coaching:   rc.Coaching,
	}

	logger.InfoContext(ctx, "Pipeline run completed",
		"task_type", string(output.Normalized.Type),
		"risk_level", string(output.Review.RiskLevel),
	)

	return &RunResult{RunID: runID, Output: output, Trace: execTrace}, nil
}

// checkContract validates a stage artifact against its declared contract:
// struct tags first, then the artifact's semantic checks.
func (p *Pipeline) checkContract(artifact any, semantic func() error) error {
	if err := p.validate.Struct(artifact); err != nil {
		return fmt.Errorf("%w: %w", ErrContractViolation, err)
	}

	if err := semantic(); err != nil {
		return fmt.Errorf("%w: %w", ErrContractViolation, err)
	}

	return nil
}
