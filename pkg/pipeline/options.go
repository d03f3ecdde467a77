package pipeline

import "github.com/askiada/cmdflow/pkg/pipeline/model"

// DefaultQueueSize is the queue size of a stage without StageQueueSize.
const DefaultQueueSize = 16

// StageOption configures a stage.
type StageOption func(info *model.StageInfo)

// StageQueueSize sets how many items can wait in the stage queue before Submit blocks.
func StageQueueSize(queueSize int) StageOption {
	return func(info *model.StageInfo) {
		info.QueueSize = queueSize
	}
}
