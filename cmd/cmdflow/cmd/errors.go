package cmd

import "github.com/pkg/errors"

// Exit statuses.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ErrMissingInput is returned when no input file is given.
var ErrMissingInput = errors.New("an input file is required")

// usageError marks errors caused by the way cmdflow was invoked.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

func newUsageError(err error) error {
	return &usageError{err: err}
}

// ExitCode maps the error returned by the root command to an exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var usage *usageError
	if errors.As(err, &usage) {
		return ExitUsage
	}

	return ExitFailure
}
