package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"

	"github.com/askiada/cmdflow/pkg/pipeline/measure"
	"github.com/askiada/cmdflow/pkg/pipeline/model"
)

// writeReport prints the measured durations of every stage, then the slowest one.
func writeReport(w io.Writer, msr measure.Measure) error {
	metrics := msr.AllMetrics()

	names := make([]string, 0, len(metrics))
	for name := range metrics {
		if name == model.StartStage.Name || name == model.EndStage.Name {
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		metric := metrics[name]

		_, err := fmt.Fprintf(w, "stage %s: items %d, avg %s, total %s\n",
			name, metric.Count(), metric.AVGDuration(), metric.GetTotalDuration())
		if err != nil {
			return errors.Wrap(err, "unable to write report")
		}
	}

	if name, avg, ok := measure.Bottleneck(msr); ok {
		_, err := fmt.Fprintf(w, "slowest stage: %s (avg %s)\n", name, avg)
		if err != nil {
			return errors.Wrap(err, "unable to write report")
		}
	}

	return nil
}
