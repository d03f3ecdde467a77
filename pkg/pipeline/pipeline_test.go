package pipeline_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/askiada/cmdflow/pkg/pipeline"
)

func double(_ context.Context, in int) (int, error) {
	return in * 2, nil
}

func half(_ context.Context, in int) (int, error) {
	return in / 2, nil
}

func TestAddStageNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddStage(nil, "stage", (*pipeline.Step[int])(nil), double)
	require.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddStageNilInput(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)

	_, err = pipeline.AddStage(pipe, "stage", (*pipeline.Step[int])(nil), double)
	require.ErrorIs(t, err, pipeline.ErrInputMustBeSet)
}

func TestAddStageNegativeQueueSize(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	source, err := pipeline.AddSource(pipe, "source", intSource(1))
	require.NoError(t, err)

	_, err = pipeline.AddStage(pipe, "stage", source, double, pipeline.StageQueueSize(-1))
	require.ErrorIs(t, err, pipeline.ErrInvalidQueueSize)
}

func TestAddStageTwiceOnSameStep(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	source, err := pipeline.AddSource(pipe, "source", intSource(1))
	require.NoError(t, err)

	_, err = pipeline.AddStage(pipe, "first", source, double)
	require.NoError(t, err)
	_, err = pipeline.AddStage(pipe, "second", source, double)
	require.ErrorIs(t, err, pipeline.ErrStepAlreadyLinked)
}

func TestAddSinkNilPipe(t *testing.T) {
	t.Parallel()

	err := pipeline.AddSink(nil, "sink", (*pipeline.Step[int])(nil), (&collector{}).sink)
	require.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddSourceNilPipe(t *testing.T) {
	t.Parallel()

	_, err := pipeline.AddSource(nil, "source", intSource(1))
	require.ErrorIs(t, err, pipeline.ErrPipelineMustBeSet)
}

func TestAddSourceTwice(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	_, err = pipeline.AddSource(pipe, "source", intSource(1))
	require.NoError(t, err)

	_, err = pipeline.AddSource(pipe, "source 2", intSource(1))
	require.ErrorIs(t, err, pipeline.ErrSourceAlreadySet)
}

func TestRunValidation(t *testing.T) {
	t.Parallel()

	t.Run("no source", func(t *testing.T) {
		t.Parallel()

		pipe, err := pipeline.New()
		require.NoError(t, err)
		require.ErrorIs(t, pipe.Run(t.Context()), pipeline.ErrSourceMustBeSet)
	})

	t.Run("no sink", func(t *testing.T) {
		t.Parallel()

		pipe, err := pipeline.New()
		require.NoError(t, err)
		source, err := pipeline.AddSource(pipe, "source", intSource(1))
		require.NoError(t, err)
		_, err = pipeline.AddStage(pipe, "stage", source, double)
		require.NoError(t, err)

		require.ErrorIs(t, pipe.Run(t.Context()), pipeline.ErrSinkMustBeSet)
	})

	t.Run("run twice", func(t *testing.T) {
		t.Parallel()

		pipe, err := pipeline.New()
		require.NoError(t, err)
		source, err := pipeline.AddSource(pipe, "source", intSource(1))
		require.NoError(t, err)
		require.NoError(t, pipeline.AddSink(pipe, "sink", source, (&collector{}).sink))

		require.NoError(t, pipe.Run(t.Context()))
		require.ErrorIs(t, pipe.Run(t.Context()), pipeline.ErrAlreadyRun)
	})
}

func TestRunKeepsOrder(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		queueSize int
	}{
		"unbuffered": {queueSize: 0},
		"buffer 1":   {queueSize: 1},
		"buffer 100": {queueSize: 100},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			pipe, err := pipeline.New()
			require.NoError(t, err)

			source, err := pipeline.AddSource(pipe, "source", intSource(1000))
			require.NoError(t, err)
			doubled, err := pipeline.AddStage(pipe, "double", source, double, pipeline.StageQueueSize(tc.queueSize))
			require.NoError(t, err)
			halved, err := pipeline.AddStage(pipe, "half", doubled, half, pipeline.StageQueueSize(tc.queueSize))
			require.NoError(t, err)

			col := &collector{}
			require.NoError(t, pipeline.AddSink(pipe, "sink", halved, col.sink, pipeline.StageQueueSize(tc.queueSize)))

			require.NoError(t, pipe.Run(t.Context()))
			assert.Equal(t, sequence(1000), col.got)
			assert.False(t, pipe.Cancelled())
		})
	}
}

func TestRunEmptySource(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)
	source, err := pipeline.AddSource(pipe, "source", intSource(0))
	require.NoError(t, err)

	col := &collector{}
	require.NoError(t, pipeline.AddSink(pipe, "sink", source, col.sink))

	require.NoError(t, pipe.Run(t.Context()))
	assert.Empty(t, col.got)
}

func TestRunStageFault(t *testing.T) {
	t.Parallel()

	const faultAt = 50

	pipe, err := pipeline.New()
	require.NoError(t, err)

	source, err := pipeline.AddSource(pipe, "source", intSource(1000))
	require.NoError(t, err)
	checked, err := pipeline.AddStage(pipe, "check", source, func(_ context.Context, in int) (int, error) {
		if in == faultAt {
			return 0, assert.AnError
		}

		return in, nil
	})
	require.NoError(t, err)
	doubled, err := pipeline.AddStage(pipe, "double", checked, double)
	require.NoError(t, err)

	col := &collector{}
	require.NoError(t, pipeline.AddSink(pipe, "sink", doubled, col.sink))

	err = pipe.Run(t.Context())
	require.ErrorIs(t, err, assert.AnError)

	var fErr *pipeline.FaultError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, "check", fErr.Stage)

	// whatever reached the sink is an ordered prefix of the items before the fault
	assert.LessOrEqual(t, len(col.got), faultAt)

	for i, got := range col.got {
		assert.Equal(t, i*2, got)
	}

	assert.True(t, pipe.Cancelled())
}

func TestRunSinkFaultCancelsSource(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)

	source, err := pipeline.AddSource(pipe, "source", endlessSource)
	require.NoError(t, err)
	doubled, err := pipeline.AddStage(pipe, "double", source, double)
	require.NoError(t, err)

	col := &collector{}
	require.NoError(t, pipeline.AddSink(pipe, "sink", doubled, func(ctx context.Context, in int) error {
		if in == 20 {
			return assert.AnError
		}

		return col.sink(ctx, in)
	}))

	err = pipe.Run(t.Context())
	require.ErrorIs(t, err, assert.AnError)

	var fErr *pipeline.FaultError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, "sink", fErr.Stage)
	assert.True(t, pipe.Cancelled())
	assert.Equal(t, []int{0, 2, 4, 6, 8, 10, 12, 14, 16, 18}, col.got)
}

func TestRunSinkFaultKeepsUpstreamCompleted(t *testing.T) {
	t.Parallel()

	opt := newRecordingOption(t)
	pipe, err := pipeline.New(opt)
	require.NoError(t, err)

	source, err := pipeline.AddSource(pipe, "source", intSource(10000))
	require.NoError(t, err)
	doubled, err := pipeline.AddStage(pipe, "double", source, double)
	require.NoError(t, err)
	require.NoError(t, pipeline.AddSink(pipe, "sink", doubled, func(_ context.Context, in int) error {
		if in == 20 {
			return assert.AnError
		}

		return nil
	}))

	err = pipe.Run(t.Context())
	require.ErrorIs(t, err, assert.AnError)

	faulted := map[string]bool{}
	for _, done := range opt.done {
		faulted[done.name] = done.fault != nil
	}

	assert.Equal(t, map[string]bool{"source": false, "double": false, "sink": true}, faulted)
}

func TestRunSourceError(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)

	source, err := pipeline.AddSource(pipe, "source", func(_ context.Context, emit func(int) error) error {
		for i := range 5 {
			err := emit(i)
			if err != nil {
				return err
			}
		}

		return errors.Wrap(assert.AnError, "unable to read")
	})
	require.NoError(t, err)

	col := &collector{}
	require.NoError(t, pipeline.AddSink(pipe, "sink", source, col.sink))

	err = pipe.Run(t.Context())
	require.ErrorIs(t, err, assert.AnError)

	var fErr *pipeline.FaultError
	require.ErrorAs(t, err, &fErr)
	assert.Equal(t, "source", fErr.Stage)
	assert.LessOrEqual(t, len(col.got), 5)
}

func TestRunContextCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	pipe, err := pipeline.New()
	require.NoError(t, err)

	source, err := pipeline.AddSource(pipe, "source", func(ctx context.Context, emit func(int) error) error {
		for i := 0; ; i++ {
			if i == 100 {
				cancel()
			}

			err := emit(i)
			if err != nil {
				return err
			}
		}
	})
	require.NoError(t, err)

	col := &collector{}
	require.NoError(t, pipeline.AddSink(pipe, "sink", source, col.sink))

	done := make(chan error, 1)

	go func() {
		done <- pipe.Run(ctx)
	}()

	select {
	case err = <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not stop after cancellation")
	}

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, sequence(len(col.got)), col.got)
}

func TestRunContextCancelledDrainsStages(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	pipe, err := pipeline.New()
	require.NoError(t, err)

	source, err := pipeline.AddSource(pipe, "source", endlessSource)
	require.NoError(t, err)
	doubled, err := pipeline.AddStage(pipe, "double", source, func(ctx context.Context, in int) (int, error) {
		if in == 100 {
			cancel()
		}

		return double(ctx, in)
	}, pipeline.StageQueueSize(1))
	require.NoError(t, err)

	col := &collector{}
	require.NoError(t, pipeline.AddSink(pipe, "sink", doubled, col.sink, pipeline.StageQueueSize(1)))

	err = pipe.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)

	var fErr *pipeline.FaultError
	assert.False(t, errors.As(err, &fErr))
	assert.True(t, pipe.Cancelled())

	for i, got := range col.got {
		assert.Equal(t, i*2, got)
	}
}

func TestCancelBeforeRun(t *testing.T) {
	t.Parallel()

	pipe, err := pipeline.New()
	require.NoError(t, err)

	source, err := pipeline.AddSource(pipe, "source", endlessSource)
	require.NoError(t, err)

	col := &collector{}
	require.NoError(t, pipeline.AddSink(pipe, "sink", source, col.sink))

	pipe.Cancel()
	pipe.Cancel()

	require.NoError(t, pipe.Run(t.Context()))
	assert.Empty(t, col.got)
}

func TestCancellation(t *testing.T) {
	t.Parallel()

	cancel := pipeline.NewCancellation()
	assert.False(t, cancel.Raised())

	select {
	case <-cancel.Done():
		t.Fatal("cancellation done before being raised")
	default:
	}

	cancel.Raise()
	cancel.Raise()

	assert.True(t, cancel.Raised())
	<-cancel.Done()
}

func TestPipelineOptions(t *testing.T) {
	t.Parallel()

	opt := newRecordingOption(t)
	pipe, err := pipeline.New(opt)
	require.NoError(t, err)

	source, err := pipeline.AddSource(pipe, "source", intSource(10))
	require.NoError(t, err)
	doubled, err := pipeline.AddStage(pipe, "double", source, double)
	require.NoError(t, err)
	require.NoError(t, pipeline.AddSink(pipe, "sink", doubled, (&collector{}).sink))

	require.NoError(t, pipe.Run(t.Context()))

	assert.Equal(t, []string{"start->source", "source->double", "double->sink"}, opt.prepared)
	assert.Equal(t, map[string]int{"source": 10, "double": 10, "sink": 10}, opt.outputs)
	assert.ElementsMatch(t, []recordedDone{{name: "source"}, {name: "double"}, {name: "sink"}}, opt.done)
	assert.True(t, opt.finished)
}

func TestPipelineOptionNewError(t *testing.T) {
	t.Parallel()

	opt := newRecordingOption(t)
	opt.newErr = assert.AnError

	_, err := pipeline.New(opt)
	require.ErrorIs(t, err, assert.AnError)
}

func TestPipelineOptionOutputError(t *testing.T) {
	t.Parallel()

	opt := newRecordingOption(t)
	opt.outputErr = assert.AnError

	pipe, err := pipeline.New(opt)
	require.NoError(t, err)

	source, err := pipeline.AddSource(pipe, "source", intSource(10))
	require.NoError(t, err)
	require.NoError(t, pipeline.AddSink(pipe, "sink", source, (&collector{}).sink))

	err = pipe.Run(t.Context())
	require.ErrorIs(t, err, assert.AnError)
	assert.True(t, opt.finished)
}
