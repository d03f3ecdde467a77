package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

// AddSource sets the function feeding the pipeline. sourceFn calls emit for every item, in order.
// emit fails once the run is cancelled or the first stage stopped accepting items; sourceFn
// should then return the error it got.
//
// When sourceFn returns nil or a rejection from emit, the first stage is completed.
// Any other error faults the first stage.
func AddSource[O any](pipe *Pipeline, name string, sourceFn func(ctx context.Context, emit func(O) error) error) (*Step[O], error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}

	if pipe.feed != nil {
		return nil, errors.Wrapf(ErrSourceAlreadySet, "source %s", name)
	}

	info := &model.StageInfo{
		Type: model.SourceStageType,
		Name: name,
	}
	for _, opt := range pipe.opts {
		err := opt.PrepareStage(model.StartStage, info)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare stage function")
		}
	}

	output := &Step[O]{Details: info}
	pipe.steps = append(pipe.steps, output)

	pipe.feed = func(ctx context.Context) error {
		err := sourceFn(ctx, func(out O) error {
			if pipe.cancel.Raised() {
				return errors.Wrapf(ErrCancelled, "unable to emit from %s", name)
			}

			start := time.Now()

			err := output.submit(ctx, out)
			if err != nil {
				return err
			}

			for _, opt := range pipe.opts {
				err := opt.OnStageOutput(model.StartStage, info, time.Since(start), 0)
				if err != nil {
					return errors.Wrap(err, "unable to run stage output option")
				}
			}

			return nil
		})

		return pipe.finishSource(info, err)
	}

	return output, nil
}

// cancelled reports whether err comes from the run cancellation or the run context.
func cancelled(err error) bool {
	return errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// rejected reports whether err means the first stage refused an item rather than the source failing.
func rejected(err error) bool {
	return cancelled(err) || errors.Is(err, ErrStageClosed) || errors.Is(err, ErrStageFaulted)
}

func (p *Pipeline) finishSource(info *model.StageInfo, err error) error {
	head := p.stages[0]

	var fault error
	if err != nil && !rejected(err) {
		fault = newFaultError(info.Name, err)
		head.Fault(fault)
	} else {
		head.Complete()
	}

	for _, opt := range p.opts {
		optErr := opt.OnStageDone(info, fault, time.Since(p.startTime))
		if optErr != nil {
			return errors.Wrapf(optErr, "unable to run stage done option for %s", info.Name)
		}
	}

	return nil
}
