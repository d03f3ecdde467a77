// Package logger reports the life cycle of a pipeline through a structured logger.
package logger

import (
	"log/slog"
	"time"

	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

type pipelineLogger struct {
	logger    *slog.Logger
	startTime time.Time
}

func (pl *pipelineLogger) New() error {
	pl.startTime = time.Now()

	return nil
}

func (pl *pipelineLogger) PrepareStage(parentStage, stage *model.StageInfo) error {
	pl.logger.Debug("stage prepared",
		slog.String("stage", stage.Name),
		slog.String("parent", parentStage.Name),
		slog.String("type", string(stage.Type)),
		slog.Int("queue_size", stage.QueueSize),
	)

	return nil
}

func (pl *pipelineLogger) OnStageOutput(_, _ *model.StageInfo, _, _ time.Duration) error {
	return nil
}

func (pl *pipelineLogger) OnStageDone(stage *model.StageInfo, fault error, totalDuration time.Duration) error {
	if fault != nil {
		pl.logger.Error("stage faulted",
			slog.String("stage", stage.Name),
			slog.Duration("elapsed", totalDuration),
			slog.Any("error", fault),
		)

		return nil
	}

	pl.logger.Debug("stage completed",
		slog.String("stage", stage.Name),
		slog.Duration("elapsed", totalDuration),
	)

	return nil
}

func (pl *pipelineLogger) Finish() error {
	pl.logger.Info("run finished", slog.Duration("elapsed", time.Since(pl.startTime)))

	return nil
}

// PipelineLogger returns a pipeline option logging every stage transition to logger.
func PipelineLogger(logger *slog.Logger) model.PipelineOption {
	if logger == nil {
		logger = slog.Default()
	}

	return &pipelineLogger{logger: logger}
}
