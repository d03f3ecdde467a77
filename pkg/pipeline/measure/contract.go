package measure

import "time"

// Measure holds the metrics of every stage of a pipeline.
type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

// Metric holds the durations measured for one stage.
type Metric interface {
	// AddDuration records the time spent in the stage function for one item.
	AddDuration(elapsed time.Duration)
	// AddTransportDuration records the time one item took from inputStageName to the end of this stage.
	AddTransportDuration(inputStageName string, elapsed time.Duration)
	AVGDuration() time.Duration
	AVGTransportDuration() map[string]*TransportInfo
	AllTransports() map[string]*TransportInfo
	// Count returns the number of items the stage processed.
	Count() int64
	SetTotalDuration(endDuration time.Duration)
	GetTotalDuration() time.Duration
}
