package pipeline

import (
	"sync"
	"sync/atomic"
)

// Cancellation is a run wide signal. Once raised it stays raised.
type Cancellation struct {
	once   sync.Once
	raised atomic.Bool
	done   chan struct{}
}

// NewCancellation returns a cancellation that has not been raised.
func NewCancellation() *Cancellation {
	return &Cancellation{done: make(chan struct{})}
}

// Raise raises the cancellation. Raising it again has no effect.
func (c *Cancellation) Raise() {
	c.once.Do(func() {
		c.raised.Store(true)
		close(c.done)
	})
}

// Raised reports whether the cancellation has been raised.
func (c *Cancellation) Raised() bool {
	return c.raised.Load()
}

// Done returns a channel closed when the cancellation is raised.
func (c *Cancellation) Done() <-chan struct{} {
	return c.done
}
