package pipeline

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

// Block is the control surface of a stage, independent of the items it processes.
type Block interface {
	// Name returns the name of the stage.
	Name() string
	// State returns the current state of the stage.
	State() State
	// Complete tells the stage no more items will be submitted.
	// The stage processes the items already queued before completing.
	Complete()
	// Fault stops the stage with cause. Queued items are dropped.
	Fault(cause error)
	// Done returns a channel closed once the stage worker has stopped.
	Done() <-chan struct{}
	// Err returns the fault of the stage, nil if it did not fault.
	Err() error
}

// Submitter accepts items for processing.
type Submitter[I any] interface {
	Submit(ctx context.Context, in I) error
}

type queued[I any] struct {
	item        I
	submittedAt time.Time
}

// Stage processes items of type I one at a time, in the order they were submitted.
type Stage[I, O any] struct {
	pipe   *Pipeline
	parent *model.StageInfo
	info   *model.StageInfo
	fn     func(ctx context.Context, in I) (O, error)
	// emit is nil for sinks.
	emit  func(ctx context.Context, out O) error
	queue chan queued[I]

	mu       sync.Mutex
	state    State
	fault    *FaultError
	inflight sync.WaitGroup
	closing  chan struct{}
	faulted  chan struct{}
	done     chan struct{}
}

func newStage[I, O any](pipe *Pipeline, parent, info *model.StageInfo, fn func(context.Context, I) (O, error)) *Stage[I, O] {
	return &Stage[I, O]{
		pipe:    pipe,
		parent:  parent,
		info:    info,
		fn:      fn,
		queue:   make(chan queued[I], info.QueueSize),
		closing: make(chan struct{}),
		faulted: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Name returns the name of the stage.
func (s *Stage[I, O]) Name() string {
	return s.info.Name
}

// State returns the current state of the stage.
func (s *Stage[I, O]) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.state
}

// Err returns the fault of the stage, nil if it did not fault.
func (s *Stage[I, O]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fault == nil {
		return nil
	}

	return s.fault
}

// Done returns a channel closed once the stage worker has stopped.
func (s *Stage[I, O]) Done() <-chan struct{} {
	return s.done
}

// Wait blocks until the stage worker has stopped and returns its fault, if any.
func (s *Stage[I, O]) Wait() error {
	<-s.done

	return s.Err()
}

// Submit queues in for processing. It blocks while the queue is full.
// It fails once the stage is draining or faulted, or once the run is cancelled.
func (s *Stage[I, O]) Submit(ctx context.Context, in I) error {
	s.mu.Lock()
	switch {
	case s.state == Faulted:
		s.mu.Unlock()

		return errors.Wrapf(ErrStageFaulted, "unable to submit to %s", s.info.Name)
	case s.state != Open:
		s.mu.Unlock()

		return errors.Wrapf(ErrStageClosed, "unable to submit to %s", s.info.Name)
	case s.pipe.cancel.Raised():
		s.mu.Unlock()

		return errors.Wrapf(ErrCancelled, "unable to submit to %s", s.info.Name)
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	defer s.inflight.Done()

	select {
	case s.queue <- queued[I]{item: in, submittedAt: time.Now()}:
		return nil
	case <-s.faulted:
		return errors.Wrapf(ErrStageFaulted, "unable to submit to %s", s.info.Name)
	case <-s.pipe.cancel.Done():
		return errors.Wrapf(ErrCancelled, "unable to submit to %s", s.info.Name)
	case <-ctx.Done():
		return errors.Wrapf(ctx.Err(), "unable to submit to %s", s.info.Name)
	}
}

// Complete tells the stage no more items will be submitted.
// It has no effect unless the stage is open.
func (s *Stage[I, O]) Complete() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Open {
		return
	}

	s.state = Draining
	close(s.closing)
}

// Fault stops the stage with cause. It has no effect once the stage completed or faulted.
func (s *Stage[I, O]) Fault(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return
	}

	s.state = Faulted
	s.fault = newFaultError(s.info.Name, cause)
	close(s.faulted)
}

func (s *Stage[I, O]) isFaulted() bool {
	select {
	case <-s.faulted:
		return true
	default:
		return false
	}
}

// run is the stage worker. It returns once the stage completed or faulted.
func (s *Stage[I, O]) run(ctx context.Context) error {
	defer close(s.done)

	s.loop(ctx)

	s.mu.Lock()
	if s.state != Faulted {
		s.state = Completed
	}
	fault := s.fault
	s.mu.Unlock()

	var doneErr error
	if fault != nil {
		doneErr = fault
	}

	for _, opt := range s.pipe.opts {
		err := opt.OnStageDone(s.info, doneErr, time.Since(s.pipe.startTime))
		if err != nil {
			return errors.Wrapf(err, "unable to run stage done option for %s", s.info.Name)
		}
	}

	return nil
}

func (s *Stage[I, O]) loop(ctx context.Context) {
	for {
		// a fault wins over anything still queued
		if s.isFaulted() {
			return
		}
		select {
		case <-s.faulted:
			return
		case in := <-s.queue:
			s.handle(ctx, in)
		case <-s.closing:
			s.drain(ctx)

			return
		}
	}
}

// drain processes the queued items until every pending Submit has returned and the queue is empty.
func (s *Stage[I, O]) drain(ctx context.Context) {
	submitted := make(chan struct{})

	go func() {
		s.inflight.Wait()
		close(submitted)
	}()

	for {
		if s.isFaulted() {
			return
		}
		select {
		case <-s.faulted:
			return
		case in := <-s.queue:
			s.handle(ctx, in)
		case <-submitted:
			for {
				if s.isFaulted() {
					return
				}
				select {
				case in := <-s.queue:
					s.handle(ctx, in)
				default:
					return
				}
			}
		}
	}
}

func (s *Stage[I, O]) handle(ctx context.Context, in queued[I]) {
	startFn := time.Now()

	out, err := s.call(ctx, in.item)
	if err != nil {
		s.Fault(err)

		return
	}

	endFn := time.Since(startFn)

	// the stage may have been faulted while fn was running
	if s.isFaulted() {
		return
	}

	if s.emit != nil {
		err = s.emit(ctx, out)
		// a cancelled run or a faulted next stage refuses the item; the fault itself only
		// travels downstream, so this stage drops the item and keeps draining
		if cancelled(err) || errors.Is(err, ErrStageFaulted) {
			return
		}

		if err != nil {
			s.Fault(errors.Wrap(err, "unable to emit"))

			return
		}
	}

	for _, opt := range s.pipe.opts {
		err := opt.OnStageOutput(s.parent, s.info, time.Since(in.submittedAt), endFn)
		if err != nil {
			s.Fault(errors.Wrap(err, "unable to run stage output option"))

			return
		}
	}
}

func (s *Stage[I, O]) call(ctx context.Context, in I) (out O, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{
				Value: r,
				Stack: string(debug.Stack()),
			}
		}
	}()

	return s.fn(ctx, in)
}

var _ Block = (*Stage[int, int])(nil)
