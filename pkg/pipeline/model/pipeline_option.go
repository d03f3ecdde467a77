package model

import "time"

// PipelineOption defines the interface for pipeline options.
//
// Hooks run from the goroutine of the stage they describe, so an option shared by several
// stages must be safe for concurrent use.
type PipelineOption interface {
	// New initialises the pipeline option.
	New() error

	pipelineStageOption

	// Finish runs after the pipeline is finished.
	Finish() error
}

// pipelineStageOption defines the interface for stage options at the pipeline level.
type pipelineStageOption interface {
	// PrepareStage runs when the stage is added to the pipeline.
	PrepareStage(parentStage, stage *StageInfo) error
	// OnStageOutput runs everytime the stage has processed an item.
	OnStageOutput(parentStage, stage *StageInfo, iterationDuration, computationDuration time.Duration) error
	// OnStageDone runs once the stage reached a terminal state. fault is nil when the stage completed.
	OnStageDone(stage *StageInfo, fault error, totalDuration time.Duration) error
}
