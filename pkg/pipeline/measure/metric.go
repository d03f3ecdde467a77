package measure

import (
	"sync"
	"time"
)

// TransportInfo is the time items took to go from one stage to the end of the next one.
type TransportInfo struct {
	Elapsed time.Duration
	total   int64
}

// Total returns the number of items measured.
func (ti *TransportInfo) Total() int64 {
	return ti.total
}

type accumulator struct {
	sum   time.Duration
	count int64
}

func (a *accumulator) add(elapsed time.Duration) {
	a.sum += elapsed
	a.count++
}

func (a accumulator) average() time.Duration {
	if a.count == 0 {
		return 0
	}

	return round(time.Duration(float64(a.sum) / float64(a.count)))
}

// DefaultMetric is a Metric safe for concurrent use.
type DefaultMetric struct {
	mu         sync.Mutex
	stage      accumulator
	transports map[string]*accumulator
	total      time.Duration
}

func newDefaultMetric() *DefaultMetric {
	return &DefaultMetric{transports: make(map[string]*accumulator)}
}

func (mt *DefaultMetric) AddDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.stage.add(elapsed)
}

func (mt *DefaultMetric) AddTransportDuration(inputStageName string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	acc, ok := mt.transports[inputStageName]
	if !ok {
		acc = &accumulator{}
		mt.transports[inputStageName] = acc
	}

	acc.add(elapsed)
}

func (mt *DefaultMetric) SetTotalDuration(total time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	mt.total = total
}

func (mt *DefaultMetric) GetTotalDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.total
}

func (mt *DefaultMetric) Count() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.stage.count
}

func (mt *DefaultMetric) AVGDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.stage.average()
}

// AVGTransportDuration returns the average transport duration per input stage.
func (mt *DefaultMetric) AVGTransportDuration() map[string]*TransportInfo {
	return mt.transportInfos(accumulator.average)
}

// AllTransports returns the cumulated transport duration per input stage.
func (mt *DefaultMetric) AllTransports() map[string]*TransportInfo {
	return mt.transportInfos(func(acc accumulator) time.Duration { return acc.sum })
}

func (mt *DefaultMetric) transportInfos(elapsed func(accumulator) time.Duration) map[string]*TransportInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	res := make(map[string]*TransportInfo, len(mt.transports))
	for name, acc := range mt.transports {
		res[name] = &TransportInfo{Elapsed: elapsed(*acc), total: acc.count}
	}

	return res
}

// round drops the precision that does not matter at the scale of d.
func round(d time.Duration) time.Duration {
	switch {
	case d > time.Hour:
		return d.Round(time.Minute)
	case d > time.Minute:
		return d.Round(time.Second)
	case d > time.Second:
		return d.Round(time.Millisecond)
	case d > time.Millisecond:
		return d.Round(time.Microsecond)
	default:
		return d
	}
}

var _ Metric = (*DefaultMetric)(nil)
