package model

type StageType string

const (
	SourceStageType StageType = "source"
	NormalStageType StageType = "stage"
	SinkStageType   StageType = "sink"
)

// StageInfo describes one stage of a pipeline.
type StageInfo struct {
	Type      StageType
	Name      string
	QueueSize int
	// Index is the position of the stage in the pipeline, the source being 0.
	Index int
}

var (
	StartStage = &StageInfo{Name: "start"}
	EndStage   = &StageInfo{Name: "end"}
)
