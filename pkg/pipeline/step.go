package pipeline

import (
	"context"

	"github.com/pkg/errors"

	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

// Step is the output of a source or a stage. The next stage of the pipeline is attached to it.
type Step[O any] struct {
	Details *model.StageInfo
	next    Submitter[O]
}

func (s *Step[O]) link(next Submitter[O]) error {
	if s.next != nil {
		return errors.Wrapf(ErrStepAlreadyLinked, "step %s", s.Details.Name)
	}

	s.next = next

	return nil
}

func (s *Step[O]) linked() bool {
	return s.next != nil
}

func (s *Step[O]) submit(ctx context.Context, out O) error {
	if s.next == nil {
		return errors.Wrapf(ErrStepNotLinked, "step %s", s.Details.Name)
	}

	return s.next.Submit(ctx, out)
}

func prepareStage[I, O any](pipe *Pipeline, name string, input *Step[I], stageType model.StageType,
	fn func(context.Context, I) (O, error), opts ...StageOption,
) (*Stage[I, O], error) {
	if pipe == nil {
		return nil, ErrPipelineMustBeSet
	}

	if input == nil {
		return nil, ErrInputMustBeSet
	}

	info := &model.StageInfo{
		Type:      stageType,
		Name:      name,
		QueueSize: DefaultQueueSize,
		Index:     input.Details.Index + 1,
	}
	for _, opt := range opts {
		opt(info)
	}

	if info.QueueSize < 0 {
		return nil, errors.Wrapf(ErrInvalidQueueSize, "stage %s", name)
	}

	for _, opt := range pipe.opts {
		err := opt.PrepareStage(input.Details, info)
		if err != nil {
			return nil, errors.Wrap(err, "unable to run prepare stage function")
		}
	}

	stg := newStage(pipe, input.Details, info, fn)

	err := input.link(stg)
	if err != nil {
		return nil, err
	}

	pipe.stages = append(pipe.stages, stg)

	return stg, nil
}

// AddStage adds a stage applying fn to every item of input. The results are the items of the returned step.
func AddStage[I, O any](pipe *Pipeline, name string, input *Step[I], fn func(ctx context.Context, in I) (O, error),
	opts ...StageOption,
) (*Step[O], error) {
	stage, err := prepareStage(pipe, name, input, model.NormalStageType, fn, opts...)
	if err != nil {
		return nil, err
	}

	output := &Step[O]{Details: stage.info}
	stage.emit = output.submit
	pipe.steps = append(pipe.steps, output)

	return output, nil
}
