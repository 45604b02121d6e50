package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/imgmeta/internal/model"
)

// Step is one stage of image inspection.
// Steps run in sequence and each one adds to the report built by the
// previous ones.
//
// Design decision: Steps are an interface rather than plain functions so
// that each one can carry its own settings (size limits, decoder choice)
// and report a Name() for logging.
type Step interface {
	// Do runs the step against report.
	// A returned error stops the pipeline unless continue-on-error is set.
	// Problems that still leave a usable report, such as unreadable EXIF,
	// are recorded with report.AddWarning and return nil.
	Do(ctx context.Context, report *model.ImageReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline runs steps in order against a single report.
type Pipeline struct {
	steps           []Step
	logger          *slog.Logger
	continueOnError bool
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError keeps running later steps after one fails.
// The failure is still recorded on the report.
//
// The default is to stop: when the file cannot be loaded there is nothing
// for later steps to inspect.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty Pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step against report.
//
// Cancellation is checked between steps; a single step works on bytes
// already in memory and finishes quickly. The first step error is
// returned and stored on the report.
func (p *Pipeline) Execute(ctx context.Context, report *model.ImageReport) error {
	var firstErr error
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "file", report.Path, "reason", err)
			report.Error = err
			report.ErrorMessage = err.Error()
			return err
		}

		p.logger.Debug("executing step", "step", step.Name(), "file", report.Path)

		if err := step.Do(ctx, report); err != nil {
			p.logger.Debug("step failed", "step", step.Name(), "file", report.Path, "error", err)
			if firstErr == nil {
				firstErr = err
				report.Error = err
				report.ErrorMessage = err.Error()
			}
			if !p.continueOnError {
				return err
			}
			continue
		}
		report.Steps = append(report.Steps, step.Name())
	}
	return firstErr
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
