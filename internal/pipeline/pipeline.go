package pipeline

import (
	"context"
	"log/slog"

	"github.com/annoview/annoview/internal/model"
	"github.com/annoview/annoview/internal/palette"
)

// Result accumulates the pipeline's intermediate and final data.
// Each step reads what earlier steps produced and fills in its own part.
type Result struct {
	// SourceDir is the annotation directory the records came from.
	SourceDir string

	// Records is the loaded, id-sorted record collection.
	Records []model.Record

	// Colors maps entity labels to display colors. Only set when a
	// color step ran; formatting and persistence do not depend on it.
	Colors *palette.Assignment

	// Wide is the wide-form extraction table.
	Wide []*model.Row

	// Schema is the derived label column set for fixed-column outputs.
	Schema []string

	// Long is the melted extraction table. Only set when a melt step ran.
	Long []model.LongRow

	// PerformedSteps lists the executed step names in order.
	PerformedSteps []string
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the accumulated
// result from previous steps.
//
// Design decision: We use an interface rather than function types because
// it allows steps to carry configuration state and provides a Name() method
// for logging and debugging.
type Step interface {
	// Do executes the pipeline step. It receives the context for
	// cancellation and the result to extend. Returns an error if the
	// step fails; any failure halts the remaining steps.
	Do(ctx context.Context, result *Result) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
// It maintains a list of steps and executes them in order.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
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

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// It respects context cancellation between steps and logs each step's
// execution. The first error halts the pipeline; there is no partial
// recovery.
//
// Design decision: We check context.Done() before each step rather than
// during, because steps handle their own blocking (only the serve step
// blocks for long, and it watches the context itself).
func (p *Pipeline) Execute(ctx context.Context, result *Result) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step", "step", step.Name())

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"error", err,
			)
			return err
		}

		result.PerformedSteps = append(result.PerformedSteps, step.Name())
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
