package pipeline

import (
	"context"
	"log/slog"

	"github.com/ctfenum/ctfenum/internal/model"
)

// Step is one stage of the enumeration workflow. Steps are executed in
// sequence, each receiving the report accumulated by its predecessors.
type Step interface {
	// Do executes the step. Returning an error ends the run; the pipeline
	// records the error on the report and does not execute later steps.
	Do(ctx context.Context, rep *model.EnumReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline executes steps in order, stopping at the first failure.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a Pipeline with the given options. Steps are added with
// AddSteps after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddSteps appends steps in execution order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence. Cancellation is checked before each
// step; steps bound their own blocking work with explicit timeouts.
//
// The first error ends the run: it is recorded on the report and returned.
func (p *Pipeline) Execute(ctx context.Context, rep *model.EnumReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("run cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			rep.Error = ctx.Err()
			rep.ErrorMessage = ctx.Err().Error()
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"target", rep.Target,
		)

		if err := step.Do(ctx, rep); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"target", rep.Target,
				"error", err,
			)

			rep.Error = err
			rep.ErrorMessage = err.Error()
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"target", rep.Target,
		)

		rep.PerformedSteps = append(rep.PerformedSteps, step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
