package pipeline_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

func intSource(total int) func(ctx context.Context, emit func(int) error) error {
	return func(_ context.Context, emit func(int) error) error {
		for i := range total {
			err := emit(i)
			if err != nil {
				return err
			}
		}

		return nil
	}
}

// endlessSource emits until emit fails.
func endlessSource(_ context.Context, emit func(int) error) error {
	for i := 0; ; i++ {
		err := emit(i)
		if err != nil {
			return err
		}
	}
}

func sequence(total int) []int {
	res := make([]int, total)
	for i := range res {
		res[i] = i
	}

	return res
}

type collector struct {
	got []int
}

func (c *collector) sink(_ context.Context, in int) error {
	c.got = append(c.got, in)

	return nil
}

type recordedDone struct {
	name  string
	fault error
}

type recordingOption struct {
	mu        sync.Mutex
	newErr    error
	outputErr error
	prepared  []string
	outputs   map[string]int
	done      []recordedDone
	finished  bool
}

func newRecordingOption(t *testing.T) *recordingOption {
	t.Helper()

	return &recordingOption{outputs: map[string]int{}}
}

func (o *recordingOption) New() error {
	return o.newErr
}

func (o *recordingOption) PrepareStage(parentStage, stage *model.StageInfo) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.prepared = append(o.prepared, parentStage.Name+"->"+stage.Name)

	return nil
}

func (o *recordingOption) OnStageOutput(_, stage *model.StageInfo, _, _ time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.outputs[stage.Name]++

	return o.outputErr
}

func (o *recordingOption) OnStageDone(stage *model.StageInfo, fault error, _ time.Duration) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.done = append(o.done, recordedDone{name: stage.Name, fault: fault})

	return nil
}

func (o *recordingOption) Finish() error {
	o.finished = true

	return nil
}

var _ model.PipelineOption = (*recordingOption)(nil)
