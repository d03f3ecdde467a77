package processor

import (
	"bufio"
	"context"
	"io"

	"github.com/pkg/errors"
)

// MaxLineSize is the longest line LineSource accepts.
const MaxLineSize = 1024 * 1024

// LineSource emits every line of r, without its line terminator. A read error, including a
// line longer than MaxLineSize, is returned so that it faults the first stage.
func LineSource(r io.Reader) func(ctx context.Context, emit func(string) error) error {
	return func(ctx context.Context, emit func(string) error) error {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

		for scanner.Scan() {
			err := ctx.Err()
			if err != nil {
				return err
			}

			err = emit(scanner.Text())
			if err != nil {
				return err
			}
		}

		err := scanner.Err()
		if err != nil {
			return errors.Wrap(err, "unable to read line")
		}

		return nil
	}
}
