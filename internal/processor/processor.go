// Package processor runs command lines through the read, parse, execute and print stages.
package processor

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/cmdflow/internal/command"
	"github.com/askiada/cmdflow/pkg/pipeline"
	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

// Stage names.
const (
	ReadStage    = "read"
	ParseStage   = "parse"
	ExecuteStage = "execute"
	PrintStage   = "print"
)

// ErrRegistryMustBeSet is returned by New without a registry.
var ErrRegistryMustBeSet = errors.New("registry must be set")

// Processor builds and runs one command pipeline per input.
type Processor struct {
	registry  *command.Registry
	out       io.Writer
	queueSize int
	options   []model.PipelineOption
	execute   func(context.Context, command.Command) (string, error)
}

// Option configures a Processor.
type Option func(p *Processor)

// WithQueueSize bounds the queue of every stage.
func WithQueueSize(queueSize int) Option {
	return func(p *Processor) {
		p.queueSize = queueSize
	}
}

// WithPipelineOptions attaches options such as measure, drawer or logger to every run.
func WithPipelineOptions(opts ...model.PipelineOption) Option {
	return func(p *Processor) {
		p.options = append(p.options, opts...)
	}
}

// WithExecutor replaces the execute transform.
func WithExecutor(execute func(context.Context, command.Command) (string, error)) Option {
	return func(p *Processor) {
		p.execute = execute
	}
}

// New creates a processor writing results to out.
func New(registry *command.Registry, out io.Writer, opts ...Option) (*Processor, error) {
	if registry == nil {
		return nil, ErrRegistryMustBeSet
	}

	p := &Processor{
		registry:  registry,
		out:       out,
		queueSize: pipeline.DefaultQueueSize,
		execute:   Execute,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

func (p *Processor) build(in io.Reader) (*pipeline.Pipeline, error) {
	pipe, err := pipeline.New(p.options...)
	if err != nil {
		return nil, errors.Wrap(err, "unable to create pipeline")
	}

	queueSize := pipeline.StageQueueSize(p.queueSize)

	lines, err := pipeline.AddSource(pipe, ReadStage, LineSource(in))
	if err != nil {
		return nil, errors.Wrap(err, "unable to add read stage")
	}

	commands, err := pipeline.AddStage(pipe, ParseStage, lines, Parse(p.registry), queueSize)
	if err != nil {
		return nil, errors.Wrap(err, "unable to add parse stage")
	}

	results, err := pipeline.AddStage(pipe, ExecuteStage, commands, p.execute, queueSize)
	if err != nil {
		return nil, errors.Wrap(err, "unable to add execute stage")
	}

	err = pipeline.AddSink(pipe, PrintStage, results, NewPrinter(p.out).Print, queueSize)
	if err != nil {
		return nil, errors.Wrap(err, "unable to add print stage")
	}

	return pipe, nil
}

// Run processes every line of in. It returns once the print stage and its continuation
// finished. A stage fault is returned as a *pipeline.FaultError naming the stage it started from.
func (p *Processor) Run(ctx context.Context, in io.Reader) error {
	pipe, err := p.build(in)
	if err != nil {
		return err
	}

	return pipe.Run(ctx)
}
