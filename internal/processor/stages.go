package processor

import (
	"context"
	"io"

	"github.com/pkg/errors"

	"github.com/askiada/cmdflow/internal/command"
)

// ErrNilCommand is returned when the execute stage receives no command.
var ErrNilCommand = errors.New("command must be set")

// Parse returns the transform turning a line into a command of registry.
func Parse(registry *command.Registry) func(ctx context.Context, line string) (command.Command, error) {
	return func(_ context.Context, line string) (command.Command, error) {
		return registry.Parse(line), nil
	}
}

// Execute runs cmd and returns its result line.
func Execute(_ context.Context, cmd command.Command) (string, error) {
	if cmd == nil {
		return "", ErrNilCommand
	}

	return cmd.Execute(), nil
}

// Printer writes result lines. It is the only writer of its output.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Print writes result followed by a new line.
func (p *Printer) Print(_ context.Context, result string) error {
	_, err := io.WriteString(p.out, result+"\n")
	if err != nil {
		return errors.Wrap(err, "unable to write result")
	}

	return nil
}
