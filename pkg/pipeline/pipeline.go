package pipeline

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

// stage is a Block the pipeline can run.
type stage interface {
	Block
	run(ctx context.Context) error
}

type linker interface {
	linked() bool
}

// Pipeline is a source followed by a chain of stages ending with a sink.
type Pipeline struct {
	opts      []model.PipelineOption
	cancel    *Cancellation
	startTime time.Time
	feed      func(ctx context.Context) error
	stages    []stage
	steps     []linker
	sinkAdded bool
	ran       atomic.Bool
}

// New creates a new pipeline.
func New(opts ...model.PipelineOption) (*Pipeline, error) {
	pipe := &Pipeline{
		cancel:    NewCancellation(),
		startTime: time.Now(),
		opts:      opts,
	}

	for _, opt := range opts {
		err := opt.New()
		if err != nil {
			return nil, errors.Wrap(err, "unable to apply pipeline option")
		}
	}

	return pipe, nil
}

// Cancel raises the run cancellation: the source stops and stages reject new items.
// Items already queued are still processed.
func (p *Pipeline) Cancel() {
	p.cancel.Raise()
}

// Cancelled reports whether the run cancellation has been raised.
func (p *Pipeline) Cancelled() bool {
	return p.cancel.Raised()
}

func (p *Pipeline) validate() error {
	if p.feed == nil {
		return ErrSourceMustBeSet
	}

	if !p.sinkAdded {
		return ErrSinkMustBeSet
	}

	for _, step := range p.steps {
		if !step.linked() {
			return ErrStepNotLinked
		}
	}

	return nil
}

// propagate waits for upstream to stop and passes its outcome to downstream:
// a fault is propagated as a fault, never as a completion.
func propagate(upstream, downstream Block) {
	<-upstream.Done()

	err := upstream.Err()
	if err != nil {
		downstream.Fault(err)

		return
	}

	downstream.Complete()
}

// feedback raises the cancellation when the last stage faults.
func feedback(tail Block, cancel *Cancellation) {
	<-tail.Done()

	if tail.Err() != nil {
		cancel.Raise()
	}
}

// Run feeds the pipeline and waits for every stage to stop.
// It returns the fault of the sink, if any. Cancelling ctx raises the run cancellation.
func (p *Pipeline) Run(ctx context.Context) error {
	if !p.ran.CompareAndSwap(false, true) {
		return ErrAlreadyRun
	}

	err := p.validate()
	if err != nil {
		return err
	}

	p.startTime = time.Now()

	stop := context.AfterFunc(ctx, p.cancel.Raise)
	defer stop()

	var grp errgroup.Group

	for _, stg := range p.stages {
		grp.Go(func() error {
			return stg.run(ctx)
		})
	}

	for i := 1; i < len(p.stages); i++ {
		upstream, downstream := p.stages[i-1], p.stages[i]

		grp.Go(func() error {
			propagate(upstream, downstream)

			return nil
		})
	}

	tail := p.stages[len(p.stages)-1]

	grp.Go(func() error {
		feedback(tail, p.cancel)

		return nil
	})

	grp.Go(func() error {
		return p.feed(ctx)
	})

	runErr := p.result(ctx, tail, grp.Wait())

	finishErr := p.finishRun()
	if runErr != nil {
		return runErr
	}

	return finishErr
}

func (p *Pipeline) result(ctx context.Context, tail Block, hookErr error) error {
	err := tail.Err()
	if err != nil {
		return err
	}

	if hookErr != nil {
		return hookErr
	}

	if ctx.Err() != nil {
		return errors.Wrap(ctx.Err(), "pipeline cancelled")
	}

	return nil
}

func (p *Pipeline) finishRun() error {
	for _, opt := range p.opts {
		err := opt.Finish()
		if err != nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}

	return nil
}
