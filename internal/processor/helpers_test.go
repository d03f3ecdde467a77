package processor_test

import (
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/cmdflow/internal/command"
)

var fixedNow = time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)

func testRegistry() *command.Registry {
	return command.DefaultRegistry(
		command.WithClock(func() time.Time { return fixedNow }),
		command.WithLocalZone(time.FixedZone("UTC+2", 2*60*60)),
	)
}

var errWriterClosed = errors.New("writer closed")

// limitedWriter accepts limit writes and fails afterwards.
type limitedWriter struct {
	mu    sync.Mutex
	limit int
	lines []string
}

func (w *limitedWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.lines) >= w.limit {
		return 0, errWriterClosed
	}

	w.lines = append(w.lines, strings.TrimSuffix(string(p), "\n"))

	return len(p), nil
}

func (w *limitedWriter) written() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	return append([]string(nil), w.lines...)
}

type panicking struct{}

func (panicking) Kind() command.Kind { return command.KindBad }
func (panicking) Execute() string { panic("boom") }
func (panicking) Arguments() (string, bool) { return "", false }
func (panicking) SetArguments(string) {}

func echoLines(total int) (string, []string) {
	var (
		input    strings.Builder
		expected = make([]string, 0, total)
	)

	for i := range total {
		line := "line " + strings.Repeat("x", i%7) + string(rune('a'+i%26))
		input.WriteString("echo " + line + "\n")
		expected = append(expected, line)
	}

	return input.String(), expected
}
