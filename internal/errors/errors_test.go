package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type providerError struct {
	StatusCode int
}

func (e *providerError) Error() string { return fmt.Sprintf("provider returned %d", e.StatusCode) }

func TestWrap(t *testing.T) {
	t.Run("KeepsSentinelMatchable", func(t *testing.T) {
		queueNotFound := Wrap(ErrNotFound, "queue not found")
		wrapped := Wrap(queueNotFound, "failed to lease item")

		assert.Equal(t, "failed to lease item: queue not found: not found", wrapped.Error())
		assert.True(t, Is(wrapped, ErrNotFound))
		assert.True(t, Is(wrapped, queueNotFound))
		assert.False(t, Is(wrapped, ErrConflict))
	})

	t.Run("NilStaysNil", func(t *testing.T) {
		assert.NoError(t, Wrap(nil, "ignored"))
	})
}

func TestAs(t *testing.T) {
	err := Wrap(&providerError{StatusCode: 503}, "failed to start task")

	var target *providerError
	require.True(t, As(err, &target))
	assert.Equal(t, 503, target.StatusCode)

	assert.False(t, As(errors.New("plain"), &target))
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrConflict, ErrInvalidInput, ErrUnauthorized,
		ErrForbidden, ErrLocked, ErrUnavailable,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			assert.Equal(t, i == j, Is(a, b), "%v vs %v", a, b)
		}
	}
}
