package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

type fakeBlock struct {
	name string
	err  error
	done chan struct{}

	mu        sync.Mutex
	completed int
	faults    []error
}

func newFakeBlock(name string) *fakeBlock {
	return &fakeBlock{name: name, done: make(chan struct{})}
}

func (b *fakeBlock) Name() string          { return b.name }
func (b *fakeBlock) State() State          { return Open }
func (b *fakeBlock) Done() <-chan struct{} { return b.done }
func (b *fakeBlock) Err() error            { return b.err }

func (b *fakeBlock) Complete() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.completed++
}

func (b *fakeBlock) Fault(cause error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.faults = append(b.faults, cause)
}

func (b *fakeBlock) finish(err error) {
	b.err = err
	close(b.done)
}

// startStage creates a stage that is not linked to any pipeline topology and starts its worker.
// The returned channel receives the worker result.
func startStage[I, O any](t *testing.T, queueSize int, fn func(context.Context, I) (O, error)) (*Stage[I, O], <-chan error) {
	t.Helper()

	pipe, err := New()
	require.NoError(t, err)

	stg := newStage(pipe, model.StartStage, &model.StageInfo{Name: "stage under test", QueueSize: queueSize}, fn)
	runErr := make(chan error, 1)

	go func() {
		runErr <- stg.run(t.Context())
	}()

	return stg, runErr
}

func createInputChan(t *testing.T, total int) chan int {
	t.Helper()

	inputChan := make(chan int)

	go func() {
		defer close(inputChan)

		for i := range total {
			inputChan <- i
		}
	}()

	return inputChan
}
