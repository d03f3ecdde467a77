package pipeline

import (
	"context"

	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

// AddSink adds the last stage of the pipeline. sinkFn is called for every item of input.
func AddSink[I any](pipe *Pipeline, name string, input *Step[I], sinkFn func(ctx context.Context, input I) error,
	opts ...StageOption,
) error {
	_, err := prepareStage(pipe, name, input, model.SinkStageType, func(ctx context.Context, in I) (struct{}, error) {
		return struct{}{}, sinkFn(ctx, in)
	}, opts...)
	if err != nil {
		return err
	}

	pipe.sinkAdded = true

	return nil
}
