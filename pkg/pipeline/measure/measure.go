package measure

import (
	"sort"
	"sync"
	"time"
)

// DefaultMeasure is a Measure keeping its metrics in memory, one per stage name.
type DefaultMeasure struct {
	mu     sync.RWMutex
	stages map[string]Metric
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		stages: make(map[string]Metric),
	}
}

// AddMetric creates the metric of stage name, replacing any previous one.
func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt := newDefaultMetric()
	m.stages[name] = mt

	return mt
}

// GetMetric returns the metric of stage name, nil if there is none.
func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	mt, ok := m.stages[name]
	if !ok {
		return nil
	}

	return mt
}

// AllMetrics returns a copy of the metrics by stage name.
func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.RLock()
	defer m.mu.RUnlock()

	res := make(map[string]Metric, len(m.stages))
	for name, mt := range m.stages {
		res[name] = mt
	}

	return res
}

// Bottleneck returns the name of the stage with the largest average duration.
// ok is false when nothing was measured.
func Bottleneck(msr Measure) (name string, avg time.Duration, ok bool) {
	all := msr.AllMetrics()

	names := make([]string, 0, len(all))
	for n := range all {
		names = append(names, n)
	}

	sort.Strings(names)

	for _, n := range names {
		curr := all[n].AVGDuration()
		if curr > avg {
			name, avg, ok = n, curr, true
		}
	}

	return name, avg, ok
}

var _ Measure = (*DefaultMeasure)(nil)
