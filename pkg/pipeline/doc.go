// Package pipeline provides a linear pipeline of concurrently scheduled stages.
//
// A pipeline is fed by a source and made of stages connected by bounded queues. Each stage owns a
// single worker goroutine, so items are processed and emitted strictly in the order they were
// submitted. The last stage is a sink: it consumes items and produces nothing.
//
// Completion and faults flow downstream. When the source is exhausted the first stage is
// completed: it drains its queue, and once it is done the next stage is completed, and so on.
// When a stage faults, either because its function returned an error or because it was told to,
// it drops the items still queued and the fault, not a completion, is passed to the next stage.
// A fault reaching the sink raises the run cancellation, which stops the source and makes every
// stage reject new submissions, so a run always terminates. Cancelling the context given to Run
// raises the same cancellation. Items processed after it was raised are dropped when the next
// stage refuses them; this is not a fault.
//
// Options implementing model.PipelineOption observe the stages while they run. The measure,
// drawer and logger sub packages provide such options.
package pipeline
