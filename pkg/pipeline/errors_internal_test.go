package pipeline

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFaultError(t *testing.T) {
	t.Parallel()

	fErr := newFaultError("parse", assert.AnError)
	assert.Equal(t, "parse", fErr.Stage)
	require.ErrorIs(t, fErr, assert.AnError)
	assert.Equal(t, "stage parse faulted: "+assert.AnError.Error(), fErr.Error())
}

func TestNewFaultErrorKeepsOrigin(t *testing.T) {
	t.Parallel()

	origin := newFaultError("parse", assert.AnError)
	propagated := newFaultError("print", errors.Wrap(origin, "propagated"))
	assert.Same(t, origin, propagated)
}

func TestNewFaultErrorNilCause(t *testing.T) {
	t.Parallel()

	fErr := newFaultError("execute", nil)
	require.ErrorIs(t, fErr, ErrStageFaulted)
}

func TestRejected(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err      error
		expected bool
	}{
		"cancelled":      {err: errors.Wrap(ErrCancelled, "emit"), expected: true},
		"closed":         {err: errors.Wrap(ErrStageClosed, "emit"), expected: true},
		"faulted":        {err: errors.Wrap(ErrStageFaulted, "emit"), expected: true},
		"context":        {err: errors.Wrap(context.Canceled, "emit"), expected: true},
		"other":          {err: assert.AnError, expected: false},
		"wrapped other":  {err: errors.Wrap(assert.AnError, "read"), expected: false},
		"not linked yet": {err: ErrStepNotLinked, expected: false},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, rejected(tc.err))
		})
	}
}
